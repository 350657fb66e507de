package normalize

import (
	"context"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fleshka4/quote-aggregator/internal/apperrors"
	"github.com/fleshka4/quote-aggregator/internal/model"
	"github.com/fleshka4/quote-aggregator/internal/normalize/mock"
)

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func testRequest() *model.QuoteRequest {
	return &model.QuoteRequest{
		FromChainID:      1,
		ToChainID:        1,
		FromTokenAddress: model.ZeroAddress,
		ToTokenAddress:   "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
		FromAddress:      "0x1111111111111111111111111111111111111111",
		ToAddress:        "0x1111111111111111111111111111111111111111",
		Amount:           "1000000000000000000",
		SlippageBps:      100,
		QuoteOnly:        true,
		GasPrice:         model.GasPrice{Wei: "20000000000", Gwei: "20.000000000"},
		FromToken: &model.TokenInfo{
			Address: model.ZeroAddress, ChainID: 1, Symbol: "ETH", Decimals: 18, Name: "Ether",
			PriceUSD: price("2500"),
		},
		ToToken: &model.TokenInfo{
			Address: "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", ChainID: 1, Symbol: "USDC", Decimals: 6,
			Name: "USD Coin", CoinKey: "USDC", PriceUSD: price("1"),
		},
		NativeToken: &model.TokenInfo{
			Address: model.ZeroAddress, ChainID: 1, Symbol: "ETH", Decimals: 18, Name: "Ether",
			PriceUSD: price("2500"),
		},
	}
}

func testTx() model.Transaction {
	return model.Transaction{
		To:    "0x2222222222222222222222222222222222222222",
		From:  "0x1111111111111111111111111111111111111111",
		Data:  "0xdeadbeef",
		Value: "1000000000000000000",
	}
}

func TestNormalizeEstimatesGas(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	est := mock.NewMockEstimator(ctrl)
	est.EXPECT().Estimate(gomock.Any(), uint64(1), gomock.Any()).Return(uint64(100000), nil)

	q, err := New(est).Normalize(context.Background(), Input{
		Provider:        "jumper",
		Request:         testRequest(),
		Transaction:     testTx(),
		ToAmount:        "2500000000",
		ApprovalAddress: "0x3333333333333333333333333333333333333333",
	})
	require.NoError(t, err)

	assert.Equal(t, "jumper", q.Tool)
	assert.Equal(t, "1000000000000000000", q.FromAmount)
	assert.Equal(t, "2500000000", q.ToAmount)
	assert.Equal(t, "2475000000", q.ToAmountMin)
	assert.Equal(t, "2500.00", q.FromAmountUSD)
	assert.Equal(t, "2500.00", q.ToAmountUSD)
	// 150000 gas * 20 gwei = 0.003 ETH
	assert.Equal(t, "150000", q.Transaction.Gas)
	assert.Equal(t, "0.00300000", q.SwapCostETH)
	assert.Equal(t, "7.500", q.SwapCostUSD)
	assert.Equal(t, "20.000000000", q.GasGwei)
	assert.Equal(t, "20000000000", q.Transaction.GasPrice)
	assert.Equal(t, uint64(1), q.Transaction.ChainID)
	assert.Equal(t, "0x3333333333333333333333333333333333333333", q.ApprovalAddress)
	assert.Equal(t, "1", q.Options.Slippage)
	assert.Equal(t, "USDC", q.ToToken.CoinKey)
	assert.Empty(t, q.FromToken.CoinKey)
	assert.Equal(t, "2500", q.FromToken.PriceUSD)
	assert.Nil(t, q.AdditionalFee)
}

func TestNormalizeSuppliedGas(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	q, err := New(mock.NewMockEstimator(ctrl)).Normalize(context.Background(), Input{
		Provider:    "bungee",
		Request:     testRequest(),
		Transaction: testTx(),
		ToAmount:    "2500000000",
		GasEstimate: big.NewInt(210000),
	})
	require.NoError(t, err)
	assert.Equal(t, "210000", q.Transaction.Gas)
	assert.Equal(t, "0.00420000", q.SwapCostETH)
	assert.Equal(t, "10.500", q.SwapCostUSD)
	assert.Equal(t, model.None, q.ApprovalAddress)
}

func TestNormalizeSkipsPlaceholder(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	n := New(mock.NewMockEstimator(ctrl))

	tx := testTx()
	tx.Data = model.QuotePlaceholder
	tx.Value = model.QuotePlaceholder

	for _, in := range []Input{
		{Provider: "koi", Request: testRequest(), Transaction: tx, ToAmount: "2500000000"},
		{Provider: "across", Request: testRequest(), Transaction: testTx(), ToAmount: "2500000000", SkipGasEstimate: true},
	} {
		q, err := n.Normalize(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, model.None, q.SwapCostETH, in.Provider)
		assert.Equal(t, model.None, q.SwapCostUSD, in.Provider)
		assert.Equal(t, "0", q.Transaction.Gas, in.Provider)
	}
}

func TestNormalizeGasFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	est := mock.NewMockEstimator(ctrl)
	est.EXPECT().Estimate(gomock.Any(), gomock.Any(), gomock.Any()).Return(uint64(0), errors.New("execution reverted"))

	_, err := New(est).Normalize(context.Background(), Input{
		Provider:    "debridge",
		Request:     testRequest(),
		Transaction: testTx(),
		ToAmount:    "1",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrGasEstimation))
}

func TestNormalizeSlippage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		toAmount   string
		bps        int64
		noSlippage bool
		wantMin    string
	}{
		{name: "one percent", toAmount: "2500000000", bps: 100, wantMin: "2475000000"},
		{name: "floored", toAmount: "999", bps: 50, wantMin: "994"},
		{name: "zero slippage", toAmount: "1000", bps: 0, wantMin: "1000"},
		{name: "no slippage flag", toAmount: "2500000000", bps: 300, noSlippage: true, wantMin: "2500000000"},
		{name: "none", toAmount: model.None, bps: 100, wantMin: model.None},
	}

	ctrl := gomock.NewController(t)
	n := New(mock.NewMockEstimator(ctrl))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testRequest()
			req.SlippageBps = tt.bps

			q, err := n.Normalize(context.Background(), Input{
				Provider:        "balancer",
				Request:         req,
				Transaction:     testTx(),
				ToAmount:        tt.toAmount,
				SkipGasEstimate: true,
				NoSlippage:      tt.noSlippage,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.toAmount, q.ToAmount)
			assert.Equal(t, tt.wantMin, q.ToAmountMin)

			if tt.toAmount != model.None {
				minAmount, _ := new(big.Int).SetString(q.ToAmountMin, 10)
				toAmount, _ := new(big.Int).SetString(q.ToAmount, 10)
				assert.LessOrEqual(t, minAmount.Cmp(toAmount), 0)
			}
		})
	}
}

func TestNormalizeMissingPrices(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := testRequest()
	req.ToToken.PriceUSD = decimal.NullDecimal{}
	req.NativeToken.PriceUSD = decimal.NullDecimal{}
	req.GasPrice = model.GasPrice{}

	q, err := New(mock.NewMockEstimator(ctrl)).Normalize(context.Background(), Input{
		Provider:    "across",
		Request:     req,
		Transaction: model.Transaction{},
		ToAmount:    "990000000000000000",
		GasEstimate: big.NewInt(0),
	})
	require.NoError(t, err)
	assert.Equal(t, model.None, q.ToAmountUSD)
	assert.Equal(t, model.None, q.ToToken.PriceUSD)
	assert.Equal(t, model.None, q.SwapCostUSD)
	assert.Equal(t, "0.00000000", q.SwapCostETH)
	assert.Equal(t, model.None, q.GasGwei)
	assert.Equal(t, "0", q.Transaction.Value)
	assert.Equal(t, model.None, q.Transaction.To)
	assert.Equal(t, model.None, q.Transaction.From)
	assert.Equal(t, model.None, q.Transaction.Data)
	assert.Equal(t, "0", q.Transaction.GasPrice)
}

func TestNormalizeAdditionalFee(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	q, err := New(mock.NewMockEstimator(ctrl)).Normalize(context.Background(), Input{
		Provider:        "debridge",
		Request:         testRequest(),
		Transaction:     testTx(),
		ToAmount:        "2500000000",
		SkipGasEstimate: true,
		AdditionalFee:   "1000000000000000",
	})
	require.NoError(t, err)
	require.NotNil(t, q.AdditionalFee)
	assert.Equal(t, model.AdditionalFee{Symbol: "ETH", Decimals: 18, Amount: "1000000000000000"}, *q.AdditionalFee)
}

func TestNormalizeRejectsBadInput(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	n := New(mock.NewMockEstimator(ctrl))

	_, err := n.Normalize(context.Background(), Input{Provider: "x", Request: &model.QuoteRequest{}})
	assert.True(t, errors.Is(err, apperrors.ErrTokenMetadata))

	_, err = n.Normalize(context.Background(), Input{
		Provider: "x", Request: testRequest(), ToAmount: "12.5", SkipGasEstimate: true,
	})
	assert.True(t, errors.Is(err, apperrors.ErrMalformedQuote))
}
