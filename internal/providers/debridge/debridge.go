package debridge

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

const defaultBaseURL = "https://dln.debridge.finance/v1.0"

type createTxResponse struct {
	Tx struct {
		To    string         `json:"to"`
		Data  string         `json:"data"`
		Value model.Quantity `json:"value"`
	} `json:"tx"`
	Estimation struct {
		DstChainTokenOut struct {
			Amount model.Quantity `json:"amount"`
		} `json:"dstChainTokenOut"`
	} `json:"estimation"`
	FixFee       model.Quantity `json:"fixFee"`
	ErrorMessage string         `json:"errorMessage"`
}

// Provider quotes DLN orders.
type Provider struct {
	deps    providers.Deps
	baseURL string
}

// New creates the deBridge adapter.
func New(deps providers.Deps) *Provider {
	return &Provider{deps: deps, baseURL: deps.BaseURL(defaultBaseURL)}
}

// Build implements providers.QuoteBuilder.
func (p *Provider) Build(ctx context.Context, req *model.QuoteRequest) (*model.CanonicalQuote, error) {
	from, to := p.deps.Tokens(req)
	settings := p.deps.Settings

	query := url.Values{
		"srcChainId":                    {strconv.FormatUint(req.FromChainID, 10)},
		"srcChainTokenIn":               {from},
		"srcChainTokenInAmount":         {req.Amount},
		"dstChainId":                    {strconv.FormatUint(req.ToChainID, 10)},
		"dstChainTokenOut":              {to},
		"dstChainTokenOutAmount":        {"auto"},
		"senderAddress":                 {req.FromAddress},
		"dstChainTokenOutRecipient":     {req.ToAddress},
		"srcChainOrderAuthorityAddress": {req.FromAddress},
		"dstChainOrderAuthorityAddress": {req.FromAddress},
		"prependOperatingExpense":       {"true"},
		"slippage":                      {req.SlippagePercent().String()},
		"referralCode":                  {settings.ReferralCode},
	}
	if !settings.DisableFee {
		query.Set("affiliateFeePercent", settings.Fee)
		query.Set("affiliateFeeRecipient", settings.Referrer)
	}

	client, err := p.deps.Client()
	if err != nil {
		return nil, errors.Wrap(err, "p.deps.Client")
	}

	var resp createTxResponse
	if err := httpx.GetJSON(ctx, client, p.baseURL+"/dln/order/create-tx", query, nil, &resp); err != nil {
		return nil, errors.Wrap(err, "create order tx")
	}
	if resp.ErrorMessage != "" {
		return nil, errors.Wrap(apperrors.ErrProvider, resp.ErrorMessage)
	}
	if resp.Estimation.DstChainTokenOut.Amount == "" {
		return nil, errors.Wrap(apperrors.ErrMalformedQuote, "missing receive value in quote")
	}

	return p.deps.Normalizer.Normalize(ctx, normalize.Input{
		Provider: providers.Debridge.String(),
		Request:  req,
		Transaction: model.Transaction{
			From:    req.FromAddress,
			To:      resp.Tx.To,
			ChainID: req.FromChainID,
			Data:    resp.Tx.Data,
			Value:   string(resp.Tx.Value),
		},
		ToAmount:        string(resp.Estimation.DstChainTokenOut.Amount),
		ApprovalAddress: resp.Tx.To,
		SkipGasEstimate: req.QuoteOnly,
		AdditionalFee:   string(resp.FixFee),
	})
}
