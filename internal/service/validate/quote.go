package validate

import (
	"math/big"
	"regexp"

	"github.com/pkg/errors"

	"github.com/fleshka4/quote-aggregator/internal/apperrors"
	"github.com/fleshka4/quote-aggregator/internal/dexmath"
	"github.com/fleshka4/quote-aggregator/internal/model"
	"github.com/fleshka4/quote-aggregator/internal/resources"
)

var addressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// QuoteRequestValidate checks req against the known chains and fills in the
// destination defaults. Every returned error wraps apperrors.ErrInvalidArgument.
func QuoteRequestValidate(req *model.QuoteRequest, chains resources.Chains) error {
	switch {
	case req.FromChainID == 0:
		return missing("fromChainId")
	case req.FromAddress == "":
		return missing("fromAddress")
	case req.Amount == "":
		return missing("amount")
	case req.FromTokenAddress == "":
		return missing("fromTokenAddress")
	case req.ToTokenAddress == "":
		return missing("toTokenAddress")
	}

	if _, ok := chains.ByID(req.FromChainID); !ok {
		return errors.Wrap(apperrors.ErrInvalidArgument, "Invalid fromChainId")
	}
	if req.ToChainID == 0 {
		req.ToChainID = req.FromChainID
	} else if _, ok := chains.ByID(req.ToChainID); !ok {
		return errors.Wrap(apperrors.ErrInvalidArgument, "Invalid toChainId")
	}

	if req.ToAddress == "" {
		req.ToAddress = req.FromAddress
	}
	for _, addr := range []string{req.FromTokenAddress, req.ToTokenAddress, req.FromAddress, req.ToAddress} {
		if !addressRe.MatchString(addr) {
			return errors.Wrap(apperrors.ErrInvalidArgument, "Invalid address format")
		}
	}

	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		return errors.Wrap(apperrors.ErrInvalidArgument, "Invalid amount")
	}
	req.Amount = amount.String()

	if req.SlippageBps < 0 || req.SlippageBps >= dexmath.BpsDenominator {
		return errors.Wrap(apperrors.ErrInvalidArgument, "Invalid slippage")
	}

	return nil
}

func missing(param string) error {
	return errors.Wrapf(apperrors.ErrInvalidArgument, "Missing mandatory parameter: %s", param)
}
