package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ddrozdov/feedsieve/app/cache"
	"github.com/ddrozdov/feedsieve/app/cfg"
	"github.com/ddrozdov/feedsieve/app/feed"
	"github.com/ddrozdov/feedsieve/app/tasks"
	"github.com/ddrozdov/feedsieve/app/transport"
)

// source is one feed to retrieve, either a positional argument or an entry
// from the subscriptions file.
type source struct {
	location        string
	headers         *transport.Header
	extractReadable bool
}

// fetchTask retrieves and reports a single source on a pool worker.
type fetchTask struct {
	tasks.Task
	src source
	app *app
}

func (t *fetchTask) Execute(ctx context.Context) error {
	return t.app.processSource(ctx, t.src)
}

// app bundles the shared collaborators handed to every fetch task.
type app struct {
	cfg        *cfg.Cfg
	store      *cache.Store
	httpClient *http.Client

	outMu sync.Mutex
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	appCfg, args, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	sources := collectSources(appCfg, args)
	if len(sources) == 0 {
		log.Fatal("No feed sources given: pass URLs, file paths, or --subscriptions")
	}

	a := &app{
		cfg:        appCfg,
		httpClient: &http.Client{Timeout: time.Duration(appCfg.Timeout) * time.Second},
	}
	if appCfg.CachePath != "" {
		a.store, err = cache.Open(appCfg.CachePath)
		if err != nil {
			log.Fatalf("Failed to open cache: %v", err)
		}
		defer a.store.Close()
	}

	pool := tasks.NewPool(appCfg.Workers, len(sources)*2)
	pool.Start()
	defer pool.Stop()

	for _, src := range sources {
		task := &fetchTask{Task: tasks.NewTask(src.location), src: src, app: a}
		if err := pool.Enqueue(task); err != nil {
			log.Fatalf("Failed to enqueue %s: %v", src.location, err)
		}
	}

	if failed := pool.Wait(); len(failed) > 0 {
		slog.Error("Some sources failed", "count", len(failed), "sources", failed)
		pool.Stop()
		os.Exit(1)
	}
}

func collectSources(appCfg *cfg.Cfg, args []string) []source {
	sources := make([]source, 0, len(args))
	for _, arg := range args {
		sources = append(sources, source{location: arg})
	}

	if appCfg.SubscriptionsFile == "" {
		return sources
	}

	subs, err := cfg.LoadSubscriptions(appCfg.SubscriptionsFile)
	if err != nil {
		log.Fatalf("Failed to load subscriptions: %v", err)
	}
	for _, sub := range subs {
		src := source{location: sub.URL, extractReadable: sub.ExtractReadable}
		if len(sub.Headers) > 0 {
			src.headers = transport.NewHeader()
			for k, v := range sub.Headers {
				src.headers.Set(k, v)
			}
		}
		sources = append(sources, src)
	}
	return sources
}

func (a *app) processSource(ctx context.Context, src source) error {
	opts := &feed.Options{
		RequestHeaders:  src.headers,
		UserAgent:       a.cfg.UserAgent,
		HTTPClient:      a.httpClient,
		ExtractReadable: src.extractReadable,
		Context:         ctx,
	}

	// Conditional GET only applies to remote sources.
	cacheable := a.store != nil && isRemote(src.location)
	var cached *cache.Entry
	if cacheable {
		var err error
		cached, err = a.store.Get(src.location)
		if err != nil {
			return err
		}
		if cached != nil {
			opts.ETag = cached.ETag
			opts.Modified = cached.LastModified
		}
	}

	result, err := feed.Parse(src.location, opts)
	if err != nil {
		return err
	}

	if result.Status == http.StatusNotModified {
		slog.Info("Feed not modified", "source", src.location)
		if a.cfg.JSON && cached != nil && len(cached.Body) > 0 {
			return a.emit(cached.Body)
		}
		return nil
	}

	report(src.location, result)

	// The serialized result is always produced so the cache can replay it on
	// a later 304, even when this run does not print JSON.
	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	payload = append(payload, '\n')
	if a.cfg.JSON {
		if err := a.emit(payload); err != nil {
			return err
		}
	}

	if cacheable && result.Headers != nil {
		entry := cache.Entry{
			URL:          src.location,
			ETag:         result.Headers.Get("ETag"),
			LastModified: result.Headers.Get("Last-Modified"),
			Status:       result.Status,
			Body:         payload,
		}
		if err := a.store.Put(entry); err != nil {
			return err
		}
	}
	return nil
}

// emit serializes stdout writes across pool workers.
func (a *app) emit(payload []byte) error {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	_, err := os.Stdout.Write(payload)
	return err
}

func report(location string, result *feed.Result) {
	attrs := []any{
		"source", location,
		"version", result.Version,
		"entries", len(result.Entries),
	}
	if result.Feed.Title != "" {
		attrs = append(attrs, "title", result.Feed.Title)
	}
	if result.Bozo {
		attrs = append(attrs, "bozo", true, "bozo_exception", result.BozoException.Error())
		slog.Warn("Feed parsed with recoverable problems", attrs...)
		return
	}
	slog.Info("Feed parsed", attrs...)
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
