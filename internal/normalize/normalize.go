package normalize

import (
	"context"
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/fleshka4/quote-aggregator/internal/apperrors"
	"github.com/fleshka4/quote-aggregator/internal/dexmath"
	"github.com/fleshka4/quote-aggregator/internal/model"
)

//go:generate mockgen -source=normalize.go -destination=mock/normalize.go -package=mock

const (
	weiDecimals = 18

	usdAmountPlaces  = 2
	usdCostPlaces    = 3
	nativeCostPlaces = 8
)

// Estimator estimates the gas limit of a transaction.
type Estimator interface {
	Estimate(ctx context.Context, chainID uint64, tx model.Transaction) (uint64, error)
}

// Input is the raw result of one provider attempt.
type Input struct {
	Provider        string
	Request         *model.QuoteRequest
	Transaction     model.Transaction
	ToAmount        string
	ApprovalAddress string
	// GasEstimate is used as-is when set.
	GasEstimate *big.Int
	// SkipGasEstimate marks the transaction as not estimable.
	SkipGasEstimate bool
	// AdditionalFee is the provider fee in source token base units.
	AdditionalFee string
	// NoSlippage makes toAmountMin equal toAmount.
	NoSlippage bool
}

// Normalizer converts provider results to canonical quotes.
type Normalizer struct {
	estimator Estimator
}

// New creates a Normalizer.
func New(estimator Estimator) *Normalizer {
	return &Normalizer{estimator: estimator}
}

// Normalize builds the canonical quote of in. A failed gas estimation fails
// the whole quote.
func (n *Normalizer) Normalize(ctx context.Context, in Input) (*model.CanonicalQuote, error) {
	req := in.Request
	if req == nil || req.FromToken == nil || req.ToToken == nil || req.NativeToken == nil {
		return nil, errors.Wrap(apperrors.ErrTokenMetadata, "request has no token metadata attached")
	}

	fromAmount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok || fromAmount.Sign() < 0 {
		return nil, errors.Wrapf(apperrors.ErrInvalidArgument, "bad amount %q", req.Amount)
	}

	toAmount, toAmountMin, err := n.amounts(in)
	if err != nil {
		return nil, err
	}

	tx := in.Transaction
	if tx.ChainID == 0 {
		tx.ChainID = req.FromChainID
	}

	gas, err := n.gasLimit(ctx, in, tx)
	if err != nil {
		return nil, err
	}

	gasPriceWei := parseUint(req.GasPrice.Wei)

	swapCostETH, swapCostUSD := model.None, model.None
	if gas != nil {
		costWei := new(big.Int).Mul(gas, gasPriceWei)
		eth := decimal.NewFromBigInt(costWei, -weiDecimals).Round(nativeCostPlaces)
		swapCostETH = eth.StringFixed(nativeCostPlaces)
		if req.NativeToken.PriceUSD.Valid {
			swapCostUSD = eth.Mul(req.NativeToken.PriceUSD.Decimal).StringFixed(usdCostPlaces)
		}
	}

	toAmountUSD := model.None
	if toAmount != nil {
		toAmountUSD = usdValue(toAmount, req.ToToken)
	}

	q := &model.CanonicalQuote{
		Tool:            in.Provider,
		FromChainID:     req.FromChainID,
		FromAmountUSD:   usdValue(fromAmount, req.FromToken),
		FromAmount:      fromAmount.String(),
		FromAddress:     req.FromAddress,
		ToAmount:        stringOrNone(toAmount),
		ToAmountMin:     stringOrNone(toAmountMin),
		SwapCostETH:     swapCostETH,
		SwapCostUSD:     swapCostUSD,
		ToChainID:       req.ToChainID,
		ToAmountUSD:     toAmountUSD,
		FromToken:       quoteToken(req.FromToken, req.FromChainID, false),
		ToToken:         quoteToken(req.ToToken, req.ToChainID, true),
		Options:         req.Options(),
		ToAddress:       req.ToAddress,
		ApprovalAddress: orDefault(in.ApprovalAddress, model.None),
		GasGwei:         orDefault(req.GasPrice.Gwei, model.None),
		Transaction: model.Transaction{
			Value:    orDefault(tx.Value, "0"),
			To:       orDefault(tx.To, model.None),
			From:     orDefault(tx.From, model.None),
			Data:     orDefault(tx.Data, model.None),
			ChainID:  tx.ChainID,
			GasPrice: gasPriceWei.String(),
			Gas:      "0",
		},
	}
	if gas != nil {
		q.Transaction.Gas = gas.String()
	}
	if in.AdditionalFee != "" {
		q.AdditionalFee = &model.AdditionalFee{
			Symbol:   req.FromToken.Symbol,
			Decimals: req.FromToken.Decimals,
			Amount:   in.AdditionalFee,
		}
	}

	return q, nil
}

// amounts returns nil amounts when the provider reported none.
func (n *Normalizer) amounts(in Input) (*big.Int, *big.Int, error) {
	if in.ToAmount == model.None {
		return nil, nil, nil
	}
	toAmount, ok := new(big.Int).SetString(in.ToAmount, 10)
	if !ok || toAmount.Sign() < 0 {
		return nil, nil, errors.Wrapf(apperrors.ErrMalformedQuote, "bad toAmount %q", in.ToAmount)
	}
	if in.NoSlippage {
		return toAmount, new(big.Int).Set(toAmount), nil
	}
	minAmount, ok := dexmath.MinAmountOut(toAmount, in.Request.SlippageBps)
	if !ok {
		return nil, nil, errors.Wrapf(apperrors.ErrInvalidArgument, "bad slippage %d bps", in.Request.SlippageBps)
	}
	return toAmount, minAmount, nil
}

// gasLimit returns nil when estimation is skipped.
func (n *Normalizer) gasLimit(ctx context.Context, in Input, tx model.Transaction) (*big.Int, error) {
	if in.GasEstimate != nil {
		return in.GasEstimate, nil
	}
	if in.SkipGasEstimate || isPlaceholder(tx) {
		return nil, nil
	}

	estimate, err := n.estimator.Estimate(ctx, tx.ChainID, tx)
	if err != nil {
		if errors.Is(err, apperrors.ErrGasEstimation) {
			return nil, err
		}
		return nil, errors.Wrapf(apperrors.ErrGasEstimation, "%s: %v", in.Provider, err)
	}
	return dexmath.PadGasLimit(new(big.Int).SetUint64(estimate)), nil
}

func isPlaceholder(tx model.Transaction) bool {
	for _, v := range []string{tx.Value, tx.To, tx.From, tx.Data, tx.GasPrice, tx.Gas} {
		if v == model.QuotePlaceholder {
			return true
		}
	}
	return false
}

func usdValue(amount *big.Int, tok *model.TokenInfo) string {
	if !tok.PriceUSD.Valid {
		return model.None
	}
	return decimal.NewFromBigInt(amount, -int32(tok.Decimals)).
		Mul(tok.PriceUSD.Decimal).
		StringFixed(usdAmountPlaces)
}

func quoteToken(tok *model.TokenInfo, chainID uint64, withCoinKey bool) model.QuoteToken {
	qt := model.QuoteToken{
		Address:  tok.Address,
		ChainID:  chainID,
		Symbol:   tok.Symbol,
		Decimals: tok.Decimals,
		Name:     tok.Name,
		LogoURI:  tok.LogoURI,
		PriceUSD: model.None,
	}
	if withCoinKey {
		qt.CoinKey = tok.CoinKey
	}
	if tok.PriceUSD.Valid {
		qt.PriceUSD = tok.PriceUSD.Decimal.String()
	}
	return qt
}

func parseUint(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return new(big.Int)
	}
	return v
}

func stringOrNone(v *big.Int) string {
	if v == nil {
		return model.None
	}
	return v.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
