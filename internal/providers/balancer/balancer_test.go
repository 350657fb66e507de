package balancer

import (
	"context"
	"encoding/json"
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

const relayer = "0xba12222222228d8ba445958a75a0704d566bf2c8"

func TestBuild(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/order/1", r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sell", body["orderKind"])
		assert.Equal(t, model.ZeroAddress, body["sellToken"])
		assert.Equal(t, providertest.USDC, body["buyToken"])
		assert.Equal(t, "20000000000", body["gasPrice"])
		assert.InDelta(t, 0.01, body["slippagePercentage"], 1e-12)

		_, _ = w.Write([]byte(`{
			"to": "` + relayer + `",
			"data": "0x52bbbe29",
			"price": {"buyAmount": {"type": "BigNumber", "hex": "0x9502f900"}, "allowanceTarget": "` + relayer + `"}
		}`))
	}))
	defer srv.Close()

	p := New(providertest.Deps(srv.URL, resources.ProviderConfig{}, config.ProviderSettings{}, nil))

	q, err := p.Build(context.Background(), providertest.Request())
	require.NoError(t, err)

	assert.Equal(t, "balancer", q.Tool)
	assert.Equal(t, "2500000000", q.ToAmount)
	assert.Equal(t, "2475000000", q.ToAmountMin)
	assert.Equal(t, relayer, q.ApprovalAddress)
	assert.Equal(t, "1000000000000000000", q.Transaction.Value)
	assert.Equal(t, "0", q.Transaction.Gas)
	assert.Equal(t, "0.00000000", q.SwapCostETH)
}

func TestBuildErrorField(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"No route found"}`))
	}))
	defer srv.Close()

	p := New(providertest.Deps(srv.URL, resources.ProviderConfig{}, config.ProviderSettings{}, nil))

	_, err := p.Build(context.Background(), providertest.Request())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrProvider))
}

func TestBuildERC20ValueIsZero(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"to":"` + relayer + `","data":"0x","price":{"buyAmount":{"hex":"0x01"}}}`))
	}))
	defer srv.Close()

	p := New(providertest.Deps(srv.URL, resources.ProviderConfig{}, config.ProviderSettings{}, nil))

	req := providertest.Request()
	req.FromTokenAddress, req.ToTokenAddress = providertest.USDC, model.ZeroAddress
	req.FromToken, req.ToToken = req.ToToken, req.FromToken

	q, err := p.Build(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "0", q.Transaction.Value)
	assert.Equal(t, "1", q.ToAmount)
	assert.Equal(t, model.None, q.ApprovalAddress)
}
