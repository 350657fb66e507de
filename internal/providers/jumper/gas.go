package jumper

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/fleshka4/quote-aggregator/internal/apperrors"
)

// gasLimit returns the gas limit of the first step, zero when absent.
func (r *quoteResponse) gasLimit() (*big.Int, error) {
	if len(r.Estimate.GasCosts) == 0 || r.Estimate.GasCosts[0].Limit == "" {
		return new(big.Int), nil
	}
	limit, err := r.Estimate.GasCosts[0].Limit.Big()
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrMalformedQuote, err.Error())
	}
	return limit, nil
}
