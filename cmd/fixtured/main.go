package main

import (
	"log"
	"net/http"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/ddrozdov/feedsieve/app/fixtures"
)

type options struct {
	Port string `long:"port" env:"PORT" default:"8097" description:"HTTP server port"`
	Root string `long:"root" env:"FIXTURES_ROOT" default:"./tests" description:"Directory containing fixture documents"`
}

// fixtured serves fixture documents with the headers embedded in their
// leading comments, for exercising clients against canned responses.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return
		}
		log.Fatalf("Failed to parse configuration: %v", err)
	}

	server := &http.Server{
		Addr:         ":" + opts.Port,
		Handler:      fixtures.NewServer(opts.Root),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Serving fixtures from %s on port %s", opts.Root, opts.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("HTTP server error: %v", err)
	}
}
