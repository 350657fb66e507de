package validate

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/fleshka4/quote-aggregator/internal/model"
	"github.com/fleshka4/quote-aggregator/internal/transport/http/dto"
)

const (
	defaultSlippage = "1"
	maxBodyBytes    = 1 << 20
)

var hundred = decimal.NewFromInt(100)

// QuoteQueryValidate parses GET /api/quote query parameters.
func QuoteQueryValidate(r *http.Request) (*model.QuoteRequest, int, error) {
	q := r.URL.Query()

	var dapps []string
	for _, v := range q["dapps"] {
		dapps = append(dapps, splitList(v)...)
	}

	return build(rawRequest{
		fromChainID:      q.Get("fromChainId"),
		toChainID:        q.Get("toChainId"),
		fromTokenAddress: q.Get("fromTokenAddress"),
		toTokenAddress:   q.Get("toTokenAddress"),
		fromAddress:      q.Get("fromAddress"),
		toAddress:        q.Get("toAddress"),
		amount:           q.Get("amount"),
		slippage:         q.Get("slippage"),
		dapps:            dapps,
	})
}

// QuoteBodyValidate parses the JSON body of POST /api/quote.
func QuoteBodyValidate(r *http.Request) (*model.QuoteRequest, int, error) {
	var body dto.QuoteRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		return nil, http.StatusBadRequest, errors.Wrap(err, "bad request body")
	}

	dapps := body.Options.Dapps
	if len(dapps) == 0 {
		dapps = body.Dapps
	}

	return build(rawRequest{
		fromChainID:      string(body.FromChainID),
		toChainID:        string(body.ToChainID),
		fromTokenAddress: body.FromTokenAddress,
		toTokenAddress:   body.ToTokenAddress,
		fromAddress:      body.FromAddress,
		toAddress:        body.ToAddress,
		amount:           string(body.Amount),
		slippage:         string(body.Options.Slippage),
		dapps:            dapps,
	})
}

type rawRequest struct {
	fromChainID      string
	toChainID        string
	fromTokenAddress string
	toTokenAddress   string
	fromAddress      string
	toAddress        string
	amount           string
	slippage         string
	dapps            []string
}

func build(raw rawRequest) (*model.QuoteRequest, int, error) {
	fromChainID, err := parseChainID(raw.fromChainID)
	if err != nil {
		return nil, http.StatusBadRequest, errors.Wrap(err, "bad fromChainId")
	}
	toChainID, err := parseChainID(raw.toChainID)
	if err != nil {
		return nil, http.StatusBadRequest, errors.Wrap(err, "bad toChainId")
	}
	bps, err := SlippageBps(raw.slippage)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	var providers []string
	for _, d := range raw.dapps {
		if d = strings.TrimSpace(d); d != "" {
			providers = append(providers, d)
		}
	}

	return &model.QuoteRequest{
		FromChainID:      fromChainID,
		ToChainID:        toChainID,
		FromTokenAddress: strings.TrimSpace(raw.fromTokenAddress),
		ToTokenAddress:   strings.TrimSpace(raw.toTokenAddress),
		FromAddress:      strings.TrimSpace(raw.fromAddress),
		ToAddress:        strings.TrimSpace(raw.toAddress),
		Amount:           strings.TrimSpace(raw.amount),
		SlippageBps:      bps,
		Providers:        providers,
	}, 0, nil
}

// parseChainID returns 0 for an empty value.
func parseChainID(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "strconv.ParseUint")
	}
	return id, nil
}

// SlippageBps converts a slippage percentage with at most two decimals to
// basis points. An empty value is 1%.
func SlippageBps(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		s = defaultSlippage
	}
	pct, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Errorf("bad slippage %q", s)
	}
	if pct.IsNegative() || pct.GreaterThanOrEqual(hundred) {
		return 0, errors.Errorf("slippage %s must be in [0, 100)", s)
	}
	bps := pct.Mul(hundred)
	if !bps.IsInteger() {
		return 0, errors.Errorf("slippage %s has more than two decimals", s)
	}
	return bps.IntPart(), nil
}

func splitList(s string) []string {
	return strings.Split(s, ",")
}
