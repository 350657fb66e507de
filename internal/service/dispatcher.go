package service

import (
	"context"
	"math/big"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/fleshka4/quote-aggregator/internal/apperrors"
	"github.com/fleshka4/quote-aggregator/internal/eligibility"
	"github.com/fleshka4/quote-aggregator/internal/metrics"
	"github.com/fleshka4/quote-aggregator/internal/model"
	"github.com/fleshka4/quote-aggregator/internal/providers"
)

//go:generate mockgen -source=dispatcher.go -destination=mock/dispatcher.go -package=mock

// DefaultProviderTimeout bounds a single provider call.
const DefaultProviderTimeout = 30 * time.Second

// GasPriceSource returns the current gas price of a chain. It never fails.
type GasPriceSource interface {
	Fetch(ctx context.Context, chainID uint64) model.GasPrice
}

// TokenResolver resolves token metadata for every ref, in order.
type TokenResolver interface {
	Resolve(ctx context.Context, refs []model.TokenRef) ([]*model.TokenInfo, error)
}

// Eligibility selects the providers configured for a token and route.
type Eligibility interface {
	Eligible(token string, fromChainID, toChainID uint64) []string
}

// Dispatcher fans a quote request out to the candidate providers and ranks
// what comes back.
type Dispatcher struct {
	gas      GasPriceSource
	tokens   TokenResolver
	filter   Eligibility
	registry providers.Registry
	timeout  time.Duration
	log      zerolog.Logger
}

// DispatcherOption configures NewDispatcher.
type DispatcherOption func(*Dispatcher)

// WithProviderTimeout overrides DefaultProviderTimeout.
func WithProviderTimeout(d time.Duration) DispatcherOption {
	return func(disp *Dispatcher) { disp.timeout = d }
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(
	gas GasPriceSource,
	tokens TokenResolver,
	filter Eligibility,
	registry providers.Registry,
	log zerolog.Logger,
	opts ...DispatcherOption,
) *Dispatcher {
	d := &Dispatcher{
		gas:      gas,
		tokens:   tokens,
		filter:   filter,
		registry: registry,
		timeout:  DefaultProviderTimeout,
		log:      log,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type candidate struct {
	name    string
	builder providers.QuoteBuilder
}

type providerResult struct {
	name  string
	quote *model.CanonicalQuote
}

// Dispatch returns the ranked quotes of every provider that answered in time.
// It fails with apperrors.ErrNoProviders when no provider is eligible,
// apperrors.ErrNoValidQuotes when none answered and apperrors.ErrTokenMetadata
// when the request tokens cannot be resolved.
func (d *Dispatcher) Dispatch(ctx context.Context, req model.QuoteRequest) ([]model.RankedQuote, error) {
	candidates, err := d.candidates(req)
	if err != nil {
		return nil, err
	}

	req.GasPrice = d.gas.Fetch(ctx, req.FromChainID)
	req.QuoteOnly = true

	infos, err := d.tokens.Resolve(ctx, []model.TokenRef{
		{Address: req.FromTokenAddress, ChainID: req.FromChainID},
		{Address: req.ToTokenAddress, ChainID: req.ToChainID},
		{Address: model.ZeroAddress, ChainID: req.FromChainID},
	})
	if err != nil {
		return nil, errors.Wrap(err, "d.tokens.Resolve")
	}
	req.FromToken, req.ToToken, req.NativeToken = infos[0], infos[1], infos[2]

	results := make(chan providerResult, len(candidates))

	var wg sync.WaitGroup
	for _, c := range candidates {
		wg.Add(1)
		go func(c candidate) {
			defer wg.Done()
			if q, ok := d.call(ctx, c, req); ok {
				results <- providerResult{name: c.name, quote: q}
			}
		}(c)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var collected []providerResult
	for r := range results {
		collected = append(collected, r)
	}

	if len(collected) == 0 {
		return nil, apperrors.ErrNoValidQuotes
	}

	return rank(collected), nil
}

// candidates performs no I/O.
func (d *Dispatcher) candidates(req model.QuoteRequest) ([]candidate, error) {
	eligible := d.filter.Eligible(strings.ToLower(req.FromTokenAddress), req.FromChainID, req.ToChainID)
	if len(eligible) == 0 {
		return nil, apperrors.ErrNoProviders
	}

	var out []candidate
	for _, name := range eligibility.Intersect(eligible, req.Providers) {
		b, ok := d.registry.Lookup(name)
		if !ok {
			d.log.Warn().Str("provider", name).Msg("provider has no quote builder")
			continue
		}
		out = append(out, candidate{name: name, builder: b})
	}
	if len(out) == 0 {
		return nil, apperrors.ErrNoValidQuotes
	}
	return out, nil
}

type callResult struct {
	quote *model.CanonicalQuote
	err   error
}

// call runs one provider under its own deadline. A provider that ignores
// cancellation is abandoned once the deadline passes.
func (d *Dispatcher) call(ctx context.Context, c candidate, req model.QuoteRequest) (*model.CanonicalQuote, bool) {
	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan callResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- callResult{err: errors.Errorf("provider panicked: %v", r)}
			}
		}()
		q, err := c.builder.Build(callCtx, &req)
		done <- callResult{quote: q, err: err}
	}()

	var res callResult
	select {
	case res = <-done:
	case <-callCtx.Done():
		res = callResult{err: callCtx.Err()}
	}
	metrics.ProviderDuration.WithLabelValues(c.name).Observe(time.Since(start).Seconds())

	switch {
	case res.err != nil && errors.Is(res.err, context.DeadlineExceeded):
		metrics.ProviderResults.WithLabelValues(c.name, metrics.OutcomeTimeout).Inc()
		d.log.Warn().Str("provider", c.name).Err(res.err).Dur("timeout", d.timeout).Msg("provider timed out")
		return nil, false
	case res.err != nil:
		metrics.ProviderResults.WithLabelValues(c.name, metrics.OutcomeError).Inc()
		d.log.Warn().Str("provider", c.name).Err(res.err).Msg("provider failed")
		return nil, false
	}

	if err := validateShape(res.quote); err != nil {
		metrics.ProviderResults.WithLabelValues(c.name, metrics.OutcomeMalformed).Inc()
		d.log.Warn().Str("provider", c.name).Err(err).Msg("provider returned malformed quote")
		return nil, false
	}

	metrics.ProviderResults.WithLabelValues(c.name, metrics.OutcomeOK).Inc()
	return res.quote, true
}

func validateShape(q *model.CanonicalQuote) error {
	if q == nil {
		return errors.Wrap(apperrors.ErrMalformedQuote, "nil quote")
	}
	required := []struct {
		field string
		ok    bool
	}{
		{"tool", q.Tool != ""},
		{"fromChainId", q.FromChainID != 0},
		{"toChainId", q.ToChainID != 0},
		{"fromAmount", q.FromAmount != ""},
		{"toAmount", q.ToAmount != ""},
		{"fromToken.address", q.FromToken.Address != ""},
		{"toToken.address", q.ToToken.Address != ""},
		{"transaction.to", q.Transaction.To != ""},
	}
	for _, r := range required {
		if !r.ok {
			return errors.Wrapf(apperrors.ErrMalformedQuote, "missing %s", r.field)
		}
	}
	return nil
}

// rank orders results by toAmount, largest first. Amounts that are not
// integers sort last. Equal amounts keep their arrival order.
func rank(results []providerResult) []model.RankedQuote {
	amounts := make([]*big.Int, len(results))
	for i, r := range results {
		if v, ok := new(big.Int).SetString(r.quote.ToAmount, 10); ok {
			amounts[i] = v
		}
	}

	idx := make([]int, len(results))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		x, y := amounts[idx[a]], amounts[idx[b]]
		switch {
		case x == nil:
			return false
		case y == nil:
			return true
		}
		return x.Cmp(y) > 0
	})

	out := make([]model.RankedQuote, len(idx))
	for pos, i := range idx {
		out[pos] = model.RankedQuote{
			ID:   pos + 1,
			Name: results[i].name,
			Data: results[i].quote,
		}
	}
	return out
}
