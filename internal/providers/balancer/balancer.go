package balancer

import (
	"context"
	"encoding/json"
	"math/big"
	"strconv"

	"github.com/pkg/errors"

	"github.com/fleshka4/quote-aggregator/internal/apperrors"
	"github.com/fleshka4/quote-aggregator/internal/httpx"
	"github.com/fleshka4/quote-aggregator/internal/model"
	"github.com/fleshka4/quote-aggregator/internal/normalize"
	"github.com/fleshka4/quote-aggregator/internal/providers"
)

const defaultBaseURL = "https://api.balancer.fi"

type orderRequest struct {
	SellToken          string      `json:"sellToken"`
	BuyToken           string      `json:"buyToken"`
	OrderKind          string      `json:"orderKind"`
	Amount             string      `json:"amount"`
	GasPrice           string      `json:"gasPrice"`
	Sender             string      `json:"sender"`
	Receiver           string      `json:"receiver"`
	SlippagePercentage json.Number `json:"slippagePercentage"`
}

type orderResponse struct {
	Error json.RawMessage `json:"error"`
	To    string          `json:"to"`
	Data  string          `json:"data"`
	Price struct {
		BuyAmount struct {
			Hex string `json:"hex"`
		} `json:"buyAmount"`
		AllowanceTarget string `json:"allowanceTarget"`
	} `json:"price"`
}

// Provider quotes swaps through the Balancer order API.
type Provider struct {
	deps    providers.Deps
	baseURL string
}

// New creates the Balancer adapter.
func New(deps providers.Deps) *Provider {
	return &Provider{deps: deps, baseURL: deps.BaseURL(defaultBaseURL)}
}

// Build implements providers.QuoteBuilder.
func (p *Provider) Build(ctx context.Context, req *model.QuoteRequest) (*model.CanonicalQuote, error) {
	from, to := p.deps.Tokens(req)

	client, err := p.deps.Client()
	if err != nil {
		return nil, errors.Wrap(err, "p.deps.Client")
	}

	body := orderRequest{
		SellToken:          from,
		BuyToken:           to,
		OrderKind:          "sell",
		Amount:             req.Amount,
		GasPrice:           req.GasPrice.Wei,
		Sender:             req.FromAddress,
		Receiver:           req.ToAddress,
		SlippagePercentage: json.Number(req.SlippageFraction().String()),
	}

	var resp orderResponse
	endpoint := p.baseURL + "/order/" + strconv.FormatUint(req.FromChainID, 10)
	if err := httpx.PostJSON(ctx, client, endpoint, body, nil, &resp); err != nil {
		return nil, errors.Wrap(err, "fetch order")
	}
	if len(resp.Error) > 0 && string(resp.Error) != "null" {
		return nil, errors.Wrapf(apperrors.ErrProvider, "balancer error: %s", resp.Error)
	}
	if resp.Price.BuyAmount.Hex == "" {
		return nil, errors.Wrap(apperrors.ErrMalformedQuote, "missing price.buyAmount")
	}
	buyAmount, err := providers.HexToDecimal(resp.Price.BuyAmount.Hex)
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrMalformedQuote, err.Error())
	}

	value := "0"
	if from == model.ZeroAddress {
		value = req.Amount
	}

	in := normalize.Input{
		Provider: providers.Balancer.String(),
		Request:  req,
		Transaction: model.Transaction{
			From:    req.FromAddress,
			To:      resp.To,
			ChainID: req.FromChainID,
			Data:    resp.Data,
			Value:   value,
		},
		ToAmount:        buyAmount,
		ApprovalAddress: resp.Price.AllowanceTarget,
	}
	if req.QuoteOnly {
		in.GasEstimate = new(big.Int)
	}

	return p.deps.Normalizer.Normalize(ctx, in)
}
