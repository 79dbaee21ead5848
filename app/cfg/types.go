package cfg

type Cfg struct {
	// Retrieval configuration
	Timeout   int
	UserAgent string
	Workers   int

	// Cache configuration
	CachePath string

	// Input configuration
	SubscriptionsFile string

	// Output configuration
	JSON  bool
	Debug bool

	Version string
}
