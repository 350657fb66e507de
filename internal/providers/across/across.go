package across

import (
	"context"
	"math/big"
	"net/url"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/fleshka4/quote-aggregator/internal/apperrors"
	"github.com/fleshka4/quote-aggregator/internal/httpx"
	"github.com/fleshka4/quote-aggregator/internal/model"
	"github.com/fleshka4/quote-aggregator/internal/normalize"
	"github.com/fleshka4/quote-aggregator/internal/providers"
)

const defaultBaseURL = "https://app.across.to/api"

const spokePoolABIJSON = `[
	{"inputs":[
		{"internalType":"address","name":"recipient","type":"address"},
		{"internalType":"address","name":"originToken","type":"address"},
		{"internalType":"uint256","name":"amount","type":"uint256"},
		{"internalType":"uint256","name":"destinationChainId","type":"uint256"},
		{"internalType":"int64","name":"relayerFeePct","type":"int64"},
		{"internalType":"uint32","name":"quoteTimestamp","type":"uint32"},
		{"internalType":"bytes","name":"message","type":"bytes"},
		{"internalType":"uint256","name":"maxCount","type":"uint256"}
	],"name":"deposit","outputs":[],"stateMutability":"payable","type":"function"}
]`

const depositMethod = "deposit"

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

type suggestedFees struct {
	RelayFeeTotal    model.Quantity `json:"relayFeeTotal"`
	RelayFeePct      model.Quantity `json:"relayFeePct"`
	Timestamp        model.Quantity `json:"timestamp"`
	SpokePoolAddress string         `json:"spokePoolAddress"`
}

type limits struct {
	MinDeposit        model.Quantity `json:"minDeposit"`
	MaxDepositInstant model.Quantity `json:"maxDepositInstant"`
}

// Provider quotes bridge transfers through the Across SpokePool.
type Provider struct {
	deps     providers.Deps
	baseURL  string
	spokeABI abi.ABI
}

// New creates the Across adapter.
func New(deps providers.Deps) (*Provider, error) {
	spokeABI, err := abi.JSON(strings.NewReader(spokePoolABIJSON))
	if err != nil {
		return nil, errors.Wrap(err, "abi.JSON")
	}
	return &Provider{
		deps:     deps,
		baseURL:  deps.BaseURL(defaultBaseURL),
		spokeABI: spokeABI,
	}, nil
}

// Build implements providers.QuoteBuilder.
func (p *Provider) Build(ctx context.Context, req *model.QuoteRequest) (*model.CanonicalQuote, error) {
	token, _ := p.deps.Tokens(req)

	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok {
		return nil, errors.Wrapf(apperrors.ErrInvalidArgument, "bad amount %q", req.Amount)
	}

	client, err := p.deps.Client()
	if err != nil {
		return nil, errors.Wrap(err, "p.deps.Client")
	}

	var fees suggestedFees
	err = httpx.GetJSON(ctx, client, p.baseURL+"/suggested-fees", url.Values{
		"token":              {token},
		"destinationChainId": {strconv.FormatUint(req.ToChainID, 10)},
		"amount":             {req.Amount},
		"originChainId":      {strconv.FormatUint(req.FromChainID, 10)},
		"recipient":          {req.ToAddress},
	}, nil, &fees)
	if err != nil {
		return nil, errors.Wrap(err, "fetch suggested fees")
	}
	if fees.SpokePoolAddress == "" {
		return nil, errors.Wrap(apperrors.ErrMalformedQuote, "missing spokePoolAddress")
	}

	relayFeeTotal, err := fees.RelayFeeTotal.Big()
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrMalformedQuote, err.Error())
	}
	amountOut := new(big.Int).Sub(amount, relayFeeTotal)
	if amountOut.Sign() < 0 {
		return nil, errors.Wrap(apperrors.ErrProvider, "relay fee exceeds amount")
	}

	var lim limits
	err = httpx.GetJSON(ctx, client, p.baseURL+"/limits", url.Values{
		"token":              {token},
		"destinationChainId": {strconv.FormatUint(req.ToChainID, 10)},
		"originChainId":      {strconv.FormatUint(req.FromChainID, 10)},
	}, nil, &lim)
	if err != nil {
		return nil, errors.Wrap(err, "fetch limits")
	}
	if !withinLimits(amount, lim) {
		return nil, errors.Wrap(apperrors.ErrProvider, "Amount is out of limits.")
	}

	relayFeePct, err := strconv.ParseInt(string(fees.RelayFeePct), 10, 64)
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrMalformedQuote, "bad relayFeePct")
	}
	timestamp, err := strconv.ParseUint(string(fees.Timestamp), 10, 32)
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrMalformedQuote, "bad timestamp")
	}

	data, err := p.spokeABI.Pack(
		depositMethod,
		common.HexToAddress(req.ToAddress),
		common.HexToAddress(token),
		amount,
		new(big.Int).SetUint64(req.ToChainID),
		relayFeePct,
		uint32(timestamp),
		[]byte{},
		maxUint256,
	)
	if err != nil {
		return nil, errors.Wrap(err, "p.spokeABI.Pack")
	}

	value := "0"
	if model.IsNative(req.FromTokenAddress) {
		value = req.Amount
	}

	return p.deps.Normalizer.Normalize(ctx, normalize.Input{
		Provider: providers.Across.String(),
		Request:  req,
		Transaction: model.Transaction{
			From:    req.FromAddress,
			To:      fees.SpokePoolAddress,
			ChainID: req.FromChainID,
			Data:    hexutil.Encode(data),
			Value:   value,
		},
		ToAmount:        amountOut.String(),
		ApprovalAddress: fees.SpokePoolAddress,
		SkipGasEstimate: req.QuoteOnly,
	})
}

// withinLimits reports whether minDeposit < amount < maxDepositInstant.
// Missing limits are zero.
func withinLimits(amount *big.Int, lim limits) bool {
	parse := func(q model.Quantity) *big.Int {
		if q == "" {
			return new(big.Int)
		}
		v, err := q.Big()
		if err != nil {
			return new(big.Int)
		}
		return v
	}
	return amount.Cmp(parse(lim.MinDeposit)) > 0 && amount.Cmp(parse(lim.MaxDepositInstant)) < 0
}
