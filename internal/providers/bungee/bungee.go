package bungee

import (
	"context"
	"encoding/json"
	"math/big"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/fleshka4/quote-aggregator/internal/apperrors"
	"github.com/fleshka4/quote-aggregator/internal/httpx"
	"github.com/fleshka4/quote-aggregator/internal/model"
	"github.com/fleshka4/quote-aggregator/internal/normalize"
	"github.com/fleshka4/quote-aggregator/internal/providers"
)

const (
	defaultBaseURL = "https://api.socket.tech/v2"
	apiKeyHeader   = "API-KEY"
)

type quoteResponse struct {
	Success bool `json:"success"`
	Result  struct {
		Routes []json.RawMessage `json:"routes"`
	} `json:"result"`
}

type route struct {
	UserTxs []struct {
		ToAmount model.Quantity `json:"toAmount"`
		GasFees  struct {
			GasLimit model.Quantity `json:"gasLimit"`
		} `json:"gasFees"`
	} `json:"userTxs"`
}

type buildTxResponse struct {
	Success bool `json:"success"`
	Result  struct {
		TxData       string `json:"txData"`
		TxTarget     string `json:"txTarget"`
		Value        string `json:"value"`
		ApprovalData *struct {
			AllowanceTarget string `json:"allowanceTarget"`
		} `json:"approvalData"`
	} `json:"result"`
}

// Provider quotes routes through the Socket API.
type Provider struct {
	deps    providers.Deps
	baseURL string
}

// New creates the Bungee adapter.
func New(deps providers.Deps) *Provider {
	return &Provider{deps: deps, baseURL: deps.BaseURL(defaultBaseURL)}
}

// Build implements providers.QuoteBuilder. The first route of the quote is
// turned into a transaction by a second call.
func (p *Provider) Build(ctx context.Context, req *model.QuoteRequest) (*model.CanonicalQuote, error) {
	from, to := p.deps.Tokens(req)
	settings := p.deps.Settings
	headers := map[string]string{apiKeyHeader: settings.APIKey}
	slippage := req.SlippagePercent().String()

	query := url.Values{
		"fromTokenAddress":      {from},
		"toTokenAddress":        {to},
		"fromAmount":            {req.Amount},
		"fromChainId":           {strconv.FormatUint(req.FromChainID, 10)},
		"toChainId":             {strconv.FormatUint(req.ToChainID, 10)},
		"userAddress":           {req.FromAddress},
		"recipient":             {req.ToAddress},
		"uniqueRoutesPerBridge": {"true"},
		"defaultBridgeSlippage": {slippage},
		"defaultSwapSlippage":   {slippage},
	}
	if !settings.DisableFee {
		query.Set("feeTakerAddress", settings.Referrer)
		query.Set("feePercent", settings.Fee)
	}

	client, err := p.deps.Client()
	if err != nil {
		return nil, errors.Wrap(err, "p.deps.Client")
	}

	var quote quoteResponse
	if err := httpx.GetJSON(ctx, client, p.baseURL+"/quote", query, headers, &quote); err != nil {
		return nil, errors.Wrap(err, "fetch quote")
	}
	if len(quote.Result.Routes) == 0 {
		return nil, errors.Wrap(apperrors.ErrProvider, "no valid routes found in quote")
	}
	raw := quote.Result.Routes[0]

	var best route
	if err := json.Unmarshal(raw, &best); err != nil {
		return nil, errors.Wrapf(apperrors.ErrMalformedQuote, "decode route: %v", err)
	}
	if len(best.UserTxs) == 0 || best.UserTxs[0].ToAmount == "" {
		return nil, errors.Wrap(apperrors.ErrMalformedQuote, "toAmount is missing in the quote")
	}

	var built buildTxResponse
	if err := httpx.PostJSON(ctx, client, p.baseURL+"/build-tx", map[string]json.RawMessage{"route": raw}, headers, &built); err != nil {
		return nil, errors.Wrap(err, "build transaction")
	}
	if !built.Success {
		return nil, errors.Wrap(apperrors.ErrProvider, "error building transaction")
	}
	tx := built.Result
	if tx.TxData == "" || tx.TxTarget == "" {
		return nil, errors.Wrap(apperrors.ErrMalformedQuote, "missing txData or txTarget")
	}

	value, err := providers.HexToDecimal(tx.Value)
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrMalformedQuote, err.Error())
	}

	approval := model.ZeroAddress
	if tx.ApprovalData != nil && tx.ApprovalData.AllowanceTarget != "" {
		approval = tx.ApprovalData.AllowanceTarget
	}

	in := normalize.Input{
		Provider: providers.Bungee.String(),
		Request:  req,
		Transaction: model.Transaction{
			From:    req.FromAddress,
			To:      tx.TxTarget,
			ChainID: req.FromChainID,
			Data:    tx.TxData,
			Value:   value,
		},
		ToAmount:        string(best.UserTxs[0].ToAmount),
		ApprovalAddress: approval,
	}
	if req.QuoteOnly {
		in.GasEstimate = gasLimit(best.UserTxs[0].GasFees.GasLimit)
	}

	return p.deps.Normalizer.Normalize(ctx, in)
}

// gasLimit accepts integral and fractional numbers, truncating the latter.
func gasLimit(q model.Quantity) *big.Int {
	if v, err := q.Big(); err == nil {
		return v
	}
	f, ok := new(big.Float).SetString(string(q))
	if !ok || f.Sign() < 0 {
		return new(big.Int)
	}
	v, _ := f.Int(nil)
	return v
}
