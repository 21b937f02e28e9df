package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/pagelm/study-cli/internal/ask"
	"github.com/pagelm/study-cli/internal/cache"
	"github.com/pagelm/study-cli/internal/llm"
	"github.com/pagelm/study-cli/internal/plan"
	"github.com/pagelm/study-cli/internal/podcast"
	"github.com/pagelm/study-cli/internal/snippet"
	"github.com/pagelm/study-cli/pkg/anthropic"
	"github.com/pagelm/study-cli/pkg/speech"
)

// env bundles the wired collaborators behind the commands.
type env struct {
	Store   snippet.Store
	Gateway llm.Gateway
	Ask     *ask.Orchestrator
	Podcast *podcast.Orchestrator
}

// initEnv wires the store, model gateway, tool runner, and orchestrators
// from config. mode is validated first so misconfiguration fails before any
// connection is opened.
func initEnv(ctx context.Context, mode string) (*env, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	var store snippet.Store
	if mode != "podcast" {
		var err error
		store, err = openStore(ctx)
		if err != nil {
			return nil, err
		}
	}

	client := anthropic.NewClient(cfg.Anthropic.Key)
	opts := llm.Options{
		Model:     cfg.Anthropic.Model,
		MaxTokens: int64(cfg.Anthropic.MaxTokens),
	}
	if cfg.Anthropic.Temperature > 0 {
		t := cfg.Anthropic.Temperature
		opts.Temperature = &t
	}
	gateway := llm.NewAnthropic(client, opts)

	runner := plan.NewRunner(podcast.NewScriptTool(gateway))
	if store != nil {
		runner.Register(snippet.NewSearchTool(store))
	}

	var answers *cache.Store
	if cfg.Cache.Enabled {
		answers = cache.New(cfg.Cache.Dir)
	}

	var renderer podcast.Renderer
	if cfg.Speech.Key != "" {
		speechOpts := []speech.Option{speech.WithDefaultVoice(cfg.Speech.Voice)}
		if cfg.Speech.BaseURL != "" {
			speechOpts = append(speechOpts, speech.WithBaseURL(cfg.Speech.BaseURL))
		}
		if cfg.Podcast.AudioFormat != "" {
			speechOpts = append(speechOpts, speech.WithFormat(cfg.Podcast.AudioFormat))
		}
		renderer = podcast.NewSpeechRenderer(
			speech.NewClient(cfg.Speech.Key, speechOpts...),
			cfg.Podcast.AudioFormat,
			cfg.Speech.RequestsPerSecond,
		)
	}

	return &env{
		Store:   store,
		Gateway: gateway,
		Ask:     ask.NewOrchestrator(runner, gateway, answers),
		Podcast: podcast.NewOrchestrator(runner, gateway, renderer),
	}, nil
}

// openStore opens the configured snippet backend and runs its migration.
func openStore(ctx context.Context) (snippet.Store, error) {
	var (
		store snippet.Store
		err   error
	)
	switch cfg.Snippets.Driver {
	case "sqlite":
		store, err = snippet.NewSQLite(cfg.Snippets.Path)
	case "postgres":
		store, err = snippet.NewPostgres(ctx, cfg.Snippets.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown snippets driver %q", cfg.Snippets.Driver)
	}
	if err != nil {
		return nil, eris.Wrap(err, "open snippet store")
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, eris.Wrap(err, "migrate snippet store")
	}
	return store, nil
}

// Close releases the store connection.
func (e *env) Close() {
	if e.Store != nil {
		e.Store.Close()
	}
}
