// Package app wires the quote aggregator from its configuration.
package app

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"github.com/fleshka4/quote-aggregator/internal/config"
	"github.com/fleshka4/quote-aggregator/internal/correlator"
	"github.com/fleshka4/quote-aggregator/internal/eligibility"
	"github.com/fleshka4/quote-aggregator/internal/infra/erc20"
	"github.com/fleshka4/quote-aggregator/internal/infra/gas"
	"github.com/fleshka4/quote-aggregator/internal/infra/pool"
	"github.com/fleshka4/quote-aggregator/internal/model"
	"github.com/fleshka4/quote-aggregator/internal/normalize"
	"github.com/fleshka4/quote-aggregator/internal/providers/registry"
	"github.com/fleshka4/quote-aggregator/internal/resources"
	"github.com/fleshka4/quote-aggregator/internal/service"
	"github.com/fleshka4/quote-aggregator/internal/tokens"
)

const tokenCallTimeout = 10 * time.Second

// App holds the long-lived components of the service.
type App struct {
	Service *service.QuoteService

	cfg        *config.Config
	log        zerolog.Logger
	pool       *pool.Pool
	store      *tokens.Store
	resolver   *tokens.Resolver
	correlator *correlator.Correlator
}

// New loads the static resources and builds every component.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	chains, err := resources.LoadChains(cfg.Resources.Chains)
	if err != nil {
		return nil, errors.Wrap(err, "resources.LoadChains")
	}
	snapshot, err := resources.LoadTokens(cfg.Resources.Tokens)
	if err != nil {
		return nil, errors.Wrap(err, "resources.LoadTokens")
	}
	table, err := resources.LoadProviders(cfg.Resources.Providers)
	if err != nil {
		return nil, errors.Wrap(err, "resources.LoadProviders")
	}
	var proxies []resources.Proxy
	if cfg.Resources.Proxies != "" {
		proxies, err = resources.LoadProxies(cfg.Resources.Proxies)
		if err != nil {
			return nil, errors.Wrap(err, "resources.LoadProxies")
		}
	}

	p, err := pool.New(ctx, chains, proxies, pool.WithHTTPTimeout(cfg.HTTPTimeout))
	if err != nil {
		return nil, errors.Wrap(err, "pool.New")
	}

	a := &App{cfg: cfg, log: log, pool: p}

	reader, err := erc20.NewReader(p, tokenCallTimeout)
	if err != nil {
		_ = a.Close()
		return nil, errors.Wrap(err, "erc20.NewReader")
	}

	a.store, err = tokens.Open(cfg.TokenStore.Path, cfg.TokenStore.LockPath)
	if err != nil {
		_ = a.Close()
		return nil, errors.Wrap(err, "tokens.Open")
	}
	discovered, err := a.store.All(ctx)
	if err != nil {
		_ = a.Close()
		return nil, errors.Wrap(err, "a.store.All")
	}

	a.resolver = tokens.NewResolver(snapshot, chains, reader, a.store, log.With().Str("component", "tokens").Logger())
	a.resolver.Preload(discovered)

	reg, err := registry.New(table, cfg.Settings, registry.Shared{
		HTTP:       p,
		RPC:        p,
		Normalizer: normalize.New(gas.NewEstimator(p)),
		Log:        log,
	})
	if err != nil {
		_ = a.Close()
		return nil, errors.Wrap(err, "registry.New")
	}

	dispatcher := service.NewDispatcher(
		gas.NewSource(p, cfg.GasPriceAttempts, log.With().Str("component", "gas").Logger()),
		a.resolver,
		eligibility.NewFilter(table, chains),
		reg,
		log.With().Str("component", "dispatcher").Logger(),
	)

	a.correlator = correlator.New()
	a.Service = service.NewQuoteService(dispatcher, a.correlator, chains, table)

	log.Info().
		Int("chains", len(chains)).
		Int("tokens", len(snapshot)).
		Int("discovered_tokens", len(discovered)).
		Int("proxies", len(proxies)).
		Msg("resources loaded")

	return a, nil
}

// ReloadTokens refreshes the token snapshot from disk until ctx is done.
func (a *App) ReloadTokens(ctx context.Context) {
	a.resolver.ReloadLoop(ctx, a.cfg.TokenReloadInterval, func() ([]model.TokenInfo, error) {
		return resources.LoadTokens(a.cfg.Resources.Tokens)
	})
}

// Close releases the pool, the token store and every retained envelope.
func (a *App) Close() error {
	var err error
	if a.correlator != nil {
		a.correlator.Close()
	}
	if a.store != nil {
		err = multierr.Append(err, a.store.Close())
	}
	if a.pool != nil {
		a.pool.Close()
	}
	return err
}
