package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/agronomy-cli/internal/advisory"
	"github.com/sells-group/agronomy-cli/internal/assistant"
	"github.com/sells-group/agronomy-cli/internal/cost"
	"github.com/sells-group/agronomy-cli/internal/fetcher"
	"github.com/sells-group/agronomy-cli/internal/resilience"
	"github.com/sells-group/agronomy-cli/internal/soil"
	"github.com/sells-group/agronomy-cli/internal/store"
	anthropicpkg "github.com/sells-group/agronomy-cli/pkg/anthropic"
	"github.com/sells-group/agronomy-cli/pkg/openweather"
	"github.com/sells-group/agronomy-cli/pkg/translate"
)

// appEnv holds the dataset, store and provider-backed services shared by
// the serve command and the CLI subcommands. Any field may be nil.
type appEnv struct {
	Soil       *soil.Dataset
	Store      store.Store
	Guards     *resilience.Guards
	Composer   *advisory.Composer
	Translator advisory.Translator
	Assistant  *assistant.Assistant
	Costs      *cost.Calculator
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// envOptions selects which parts of the environment a command needs.
type envOptions struct {
	mode  string // "serve" or "cli"
	store bool
}

// initEnv loads the soil dataset, opens the store and builds the composer
// from the configured providers. A soil dataset that fails to load is
// logged and left nil. Callers should defer env.Close().
func initEnv(ctx context.Context, opts envOptions) (*appEnv, error) {
	if err := cfg.Validate(opts.mode); err != nil {
		return nil, err
	}

	settings := cfg.Resilience.Settings()
	env := &appEnv{Guards: resilience.NewGuards(settings)}

	ds, err := loadSoilDataset(ctx, settings)
	if err != nil {
		zap.L().Warn("soil dataset unavailable; using neutral soil profile",
			zap.String("path", cfg.Soil.Path),
			zap.Error(err),
		)
	} else {
		env.Soil = ds
	}

	if opts.store {
		st, err := store.Open(ctx, store.Config{Driver: cfg.Store.Driver, DatabaseURL: cfg.Store.DatabaseURL})
		if err != nil {
			return nil, eris.Wrap(err, "open store")
		}
		env.Store = st
	}

	var composerOpts []advisory.Option
	if cfg.OpenWeather.Key != "" {
		owOpts := []openweather.Option{
			openweather.WithBaseURL(cfg.OpenWeather.BaseURL),
			openweather.WithCountry(cfg.OpenWeather.Country),
		}
		if cfg.OpenWeather.RatePerSec > 0 {
			owOpts = append(owOpts, openweather.WithRateLimit(cfg.OpenWeather.RatePerSec))
		}
		client := openweather.NewClient(cfg.OpenWeather.Key, owOpts...)
		var cache advisory.GeocodeCache
		if env.Store != nil {
			cache = env.Store
		}
		ow := advisory.NewOpenWeather(client, env.Guards.For(resilience.ProviderOpenWeather), cache, cfg.Store.GeocodeTTL())
		composerOpts = append(composerOpts, advisory.WithGeocoder(ow), advisory.WithForecasts(ow))
	} else {
		zap.L().Info("openweather key not set; advisories will omit weather")
	}

	if cfg.Translate.BaseURL != "" {
		client := translate.NewClient(cfg.Translate.BaseURL,
			translate.WithAPIKey(cfg.Translate.Key),
			translate.WithSourceLanguage(cfg.Translate.SourceLanguage),
		)
		env.Translator = advisory.NewTranslateService(client, env.Guards.For(resilience.ProviderTranslate))
		composerOpts = append(composerOpts, advisory.WithTranslator(env.Translator))
	}

	env.Composer = advisory.NewComposer(env.Soil, composerOpts...)

	env.Costs = cost.NewCalculator(cost.DefaultRates())
	env.Assistant = newAssistant(env.Guards, env.Costs)

	return env, nil
}

// loadSoilDataset reads the configured soil dataset, downloading it when the
// path is a URL.
func loadSoilDataset(ctx context.Context, settings resilience.Settings) (*soil.Dataset, error) {
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{Backoff: settings.Backoff})
	return soil.Load(ctx, f, cfg.Soil.Path)
}

// newAssistant builds the farm assistant. Without an Anthropic key it
// answers with the unavailable message.
func newAssistant(guards *resilience.Guards, costs *cost.Calculator) *assistant.Assistant {
	var chat anthropicpkg.Client
	if cfg.Anthropic.Key != "" {
		chat = anthropicpkg.NewClient(cfg.Anthropic.Key)
	}
	return assistant.New(chat, guards.For(resilience.ProviderAnthropic), assistant.Config{
		Model:     cfg.Anthropic.Model,
		MaxTokens: cfg.Anthropic.MaxTokens,
		Costs:     costs,
	})
}
