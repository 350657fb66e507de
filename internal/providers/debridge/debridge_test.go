package debridge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleshka4/quote-aggregator/internal/apperrors"
	"github.com/fleshka4/quote-aggregator/internal/config"
	"github.com/fleshka4/quote-aggregator/internal/model"
	"github.com/fleshka4/quote-aggregator/internal/providers/providertest"
	"github.com/fleshka4/quote-aggregator/internal/resources"
)

const dlnSource = "0xef4fb24ad0916217251f553c0596f8edc630eb66"

func TestBuild(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dln/order/create-tx", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, model.ZeroAddress, q.Get("srcChainTokenIn"))
		assert.Equal(t, providertest.USDC, q.Get("dstChainTokenOut"))
		assert.Equal(t, "auto", q.Get("dstChainTokenOutAmount"))
		assert.Equal(t, "1", q.Get("slippage"))
		assert.Equal(t, "ref", q.Get("referralCode"))
		assert.Equal(t, "0.1", q.Get("affiliateFeePercent"))
		assert.Equal(t, providertest.Sender, q.Get("affiliateFeeRecipient"))

		_, _ = w.Write([]byte(`{
			"tx": {"to": "` + dlnSource + `", "data": "0xfbe16ca7", "value": "1001000000000000000"},
			"estimation": {"dstChainTokenOut": {"amount": "2500000000"}},
			"fixFee": "1000000000000000"
		}`))
	}))
	defer srv.Close()

	p := New(providertest.Deps(srv.URL, resources.ProviderConfig{}, config.ProviderSettings{
		ReferralCode: "ref",
		Fee:          "0.1",
		Referrer:     providertest.Sender,
	}, nil))

	q, err := p.Build(context.Background(), providertest.Request())
	require.NoError(t, err)

	assert.Equal(t, "debridge", q.Tool)
	assert.Equal(t, "2500000000", q.ToAmount)
	assert.Equal(t, "2475000000", q.ToAmountMin)
	assert.Equal(t, "2500.00", q.ToAmountUSD)
	assert.Equal(t, dlnSource, q.ApprovalAddress)
	assert.Equal(t, "1001000000000000000", q.Transaction.Value)
	assert.Equal(t, "0xfbe16ca7", q.Transaction.Data)
	require.NotNil(t, q.AdditionalFee)
	assert.Equal(t, "1000000000000000", q.AdditionalFee.Amount)
	assert.Equal(t, "ETH", q.AdditionalFee.Symbol)
}

func TestBuildFeeDisabled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("affiliateFeePercent"))
		assert.False(t, r.URL.Query().Has("affiliateFeeRecipient"))
		_, _ = w.Write([]byte(`{"tx":{"to":"` + dlnSource + `","data":"0x","value":"0"},"estimation":{"dstChainTokenOut":{"amount":"1"}}}`))
	}))
	defer srv.Close()

	p := New(providertest.Deps(srv.URL, resources.ProviderConfig{}, config.ProviderSettings{DisableFee: true}, nil))

	q, err := p.Build(context.Background(), providertest.Request())
	require.NoError(t, err)
	assert.Nil(t, q.AdditionalFee)
}

func TestBuildMissingAmount(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"tx":{"to":"` + dlnSource + `"},"estimation":{}}`))
	}))
	defer srv.Close()

	p := New(providertest.Deps(srv.URL, resources.ProviderConfig{}, config.ProviderSettings{}, nil))

	_, err := p.Build(context.Background(), providertest.Request())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrMalformedQuote))
}

func TestBuildUpstreamMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errorCode":0,"errorMessage":"ERROR_LOW_GIVE_AMOUNT"}`))
	}))
	defer srv.Close()

	p := New(providertest.Deps(srv.URL, resources.ProviderConfig{}, config.ProviderSettings{}, nil))

	_, err := p.Build(context.Background(), providertest.Request())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrProvider))
	assert.Contains(t, err.Error(), "ERROR_LOW_GIVE_AMOUNT")
}
