package cfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Subscription is one feed source from the subscriptions file.
type Subscription struct {
	URL             string            `yaml:"url"`
	Headers         map[string]string `yaml:"headers"`
	ExtractReadable bool              `yaml:"extract_readable"`
}

type subscriptionsFile struct {
	Feeds []Subscription `yaml:"feeds"`
}

// LoadSubscriptions loads and validates a YAML subscriptions file.
func LoadSubscriptions(path string) ([]Subscription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var file subscriptionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i, sub := range file.Feeds {
		if sub.URL == "" {
			return nil, fmt.Errorf("subscription at index %d has no URL", i)
		}
	}

	return file.Feeds, nil
}
