package service

import (
	"context"

	"github.com/pkg/errors"

	"github.com/fleshka4/quote-aggregator/internal/apperrors"
	"github.com/fleshka4/quote-aggregator/internal/model"
	"github.com/fleshka4/quote-aggregator/internal/resources"
	"github.com/fleshka4/quote-aggregator/internal/service/validate"
)

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock

// Service represents interface for business logic.
type Service interface {
	Quote(ctx context.Context, req model.QuoteRequest) (*model.Envelope, error)
	Lookup(requestID string) (*model.Envelope, bool)
	Chains() resources.Chains
	Providers() []string
}

// Correlator retains aggregated envelopes under a request id.
type Correlator interface {
	Store(data []model.RankedQuote) *model.Envelope
	Lookup(id string) (*model.Envelope, bool)
}

// Aggregator produces the ranked quotes of a request.
type Aggregator interface {
	Dispatch(ctx context.Context, req model.QuoteRequest) ([]model.RankedQuote, error)
}

// QuoteService represents struct for business logic.
type QuoteService struct {
	aggregator Aggregator
	correlator Correlator
	chains     resources.Chains
	table      resources.ProviderTable
}

// NewQuoteService creates QuoteService.
func NewQuoteService(aggregator Aggregator, correlator Correlator, chains resources.Chains, table resources.ProviderTable) *QuoteService {
	return &QuoteService{
		aggregator: aggregator,
		correlator: correlator,
		chains:     chains,
		table:      table,
	}
}

// Quote validates req, aggregates the provider quotes and stores the result.
//
// Exhausted eligibility and total provider failure are reported as an
// unsuccessful envelope, not as an error. Invalid input wraps
// apperrors.ErrInvalidArgument and unresolvable tokens wrap
// apperrors.ErrTokenMetadata.
func (s *QuoteService) Quote(ctx context.Context, req model.QuoteRequest) (*model.Envelope, error) {
	if err := validate.QuoteRequestValidate(&req, s.chains); err != nil {
		return nil, err
	}

	data, err := s.aggregator.Dispatch(ctx, req)
	switch {
	case errors.Is(err, apperrors.ErrNoProviders):
		return model.Failure(apperrors.ErrNoProviders.Error()), nil
	case errors.Is(err, apperrors.ErrNoValidQuotes):
		return model.Failure(apperrors.ErrNoValidQuotes.Error()), nil
	case err != nil:
		return nil, errors.Wrap(err, "s.aggregator.Dispatch")
	}

	return s.correlator.Store(data), nil
}

// Lookup returns a stored envelope.
func (s *QuoteService) Lookup(requestID string) (*model.Envelope, bool) {
	return s.correlator.Lookup(requestID)
}

// Chains returns the supported chains.
func (s *QuoteService) Chains() resources.Chains {
	return s.chains
}

// Providers returns the names of the enabled providers.
func (s *QuoteService) Providers() []string {
	var out []string
	for _, name := range s.table.Names() {
		if s.table[name].Enabled {
			out = append(out, name)
		}
	}
	return out
}
