package jumper

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/fleshka4/quote-aggregator/internal/apperrors"
	"github.com/fleshka4/quote-aggregator/internal/httpx"
	"github.com/fleshka4/quote-aggregator/internal/model"
	"github.com/fleshka4/quote-aggregator/internal/normalize"
	"github.com/fleshka4/quote-aggregator/internal/providers"
)

const defaultBaseURL = "https://li.quest/v1"

type quoteResponse struct {
	Estimate struct {
		ToAmount        model.Quantity `json:"toAmount"`
		ApprovalAddress string         `json:"approvalAddress"`
		GasCosts        []struct {
			Limit model.Quantity `json:"limit"`
		} `json:"gasCosts"`
	} `json:"estimate"`
	TransactionRequest struct {
		From    string `json:"from"`
		To      string `json:"to"`
		Data    string `json:"data"`
		Value   string `json:"value"`
		ChainID uint64 `json:"chainId"`
	} `json:"transactionRequest"`
	Message string `json:"message"`
}

// Provider quotes routes through the LI.FI API.
type Provider struct {
	deps    providers.Deps
	baseURL string
}

// New creates the Jumper adapter.
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

	var resp quoteResponse
	err = httpx.GetJSON(ctx, client, p.baseURL+"/quote", url.Values{
		"fromChain":   {strconv.FormatUint(req.FromChainID, 10)},
		"toChain":     {strconv.FormatUint(req.ToChainID, 10)},
		"fromToken":   {from},
		"toToken":     {to},
		"fromAmount":  {req.Amount},
		"fromAddress": {req.FromAddress},
		"toAddress":   {req.ToAddress},
		"slippage":    {req.SlippageFraction().String()},
		"fee":         {p.deps.Settings.Fee},
		"referrer":    {p.deps.Settings.Referrer},
	}, nil, &resp)
	if err != nil {
		return nil, errors.Wrap(err, "fetch quote")
	}
	if resp.Estimate.ToAmount == "" {
		msg := resp.Message
		if msg == "" {
			msg = "missing estimate.toAmount"
		}
		return nil, errors.Wrap(apperrors.ErrMalformedQuote, msg)
	}

	txr := resp.TransactionRequest
	value, err := providers.HexToDecimal(txr.Value)
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrMalformedQuote, err.Error())
	}

	in := normalize.Input{
		Provider: providers.Jumper.String(),
		Request:  req,
		Transaction: model.Transaction{
			From:    txr.From,
			To:      txr.To,
			ChainID: txr.ChainID,
			Data:    txr.Data,
			Value:   value,
		},
		ToAmount:        string(resp.Estimate.ToAmount),
		ApprovalAddress: resp.Estimate.ApprovalAddress,
	}
	if req.QuoteOnly {
		limit, err := resp.gasLimit()
		if err != nil {
			return nil, err
		}
		in.GasEstimate = limit
	}

	return p.deps.Normalizer.Normalize(ctx, in)
}
