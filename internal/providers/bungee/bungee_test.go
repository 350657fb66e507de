package bungee

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleshka4/quote-aggregator/internal/apperrors"
	"github.com/fleshka4/quote-aggregator/internal/config"
	"github.com/fleshka4/quote-aggregator/internal/providers/providertest"
	"github.com/fleshka4/quote-aggregator/internal/resources"
)

const (
	gateway   = "0x3a23f943181408eac424116af7b7790c94cb97a5"
	routeJSON = `{"routeId":"r-1","userTxs":[{"toAmount":"2500000000","gasFees":{"gasLimit":210000.7}}]}`
)

func newServer(t *testing.T, buildOK bool) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/quote", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get(apiKeyHeader))
		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("uniqueRoutesPerBridge"))
		assert.Equal(t, "1", q.Get("defaultSwapSlippage"))
		assert.Equal(t, providertest.Sender, q.Get("recipient"))
		assert.False(t, q.Has("feePercent"))
		_, _ = w.Write([]byte(`{"success":true,"result":{"routes":[` + routeJSON + `,{"routeId":"r-2"}]}}`))
	})
	mux.HandleFunc("/build-tx", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get(apiKeyHeader))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var got struct {
			Route map[string]any `json:"route"`
		}
		assert.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, "r-1", got.Route["routeId"])

		if !buildOK {
			_, _ = w.Write([]byte(`{"success":false}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"result":{
			"txData":"0xabcdef","txTarget":"` + gateway + `","value":"0xde0b6b3a7640000",
			"approvalData":null}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestBuild(t *testing.T) {
	t.Parallel()

	srv := newServer(t, true)
	p := New(providertest.Deps(srv.URL, resources.ProviderConfig{}, config.ProviderSettings{APIKey: "secret", DisableFee: true}, nil))

	q, err := p.Build(context.Background(), providertest.Request())
	require.NoError(t, err)

	assert.Equal(t, "bungee", q.Tool)
	assert.Equal(t, "2500000000", q.ToAmount)
	assert.Equal(t, gateway, q.Transaction.To)
	assert.Equal(t, "0xabcdef", q.Transaction.Data)
	assert.Equal(t, "1000000000000000000", q.Transaction.Value)
	assert.Equal(t, "210000", q.Transaction.Gas)
	assert.Equal(t, "0x0000000000000000000000000000000000000000", q.ApprovalAddress)
}

func TestBuildTxFailure(t *testing.T) {
	t.Parallel()

	srv := newServer(t, false)
	p := New(providertest.Deps(srv.URL, resources.ProviderConfig{}, config.ProviderSettings{APIKey: "secret", DisableFee: true}, nil))

	_, err := p.Build(context.Background(), providertest.Request())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrProvider))
}

func TestBuildNoRoutes(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0.3", r.URL.Query().Get("feePercent"))
		_, _ = w.Write([]byte(`{"success":true,"result":{"routes":[]}}`))
	}))
	defer srv.Close()

	p := New(providertest.Deps(srv.URL, resources.ProviderConfig{}, config.ProviderSettings{Fee: "0.3"}, nil))

	_, err := p.Build(context.Background(), providertest.Request())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid routes")
}

func TestGasLimit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "210000", gasLimit("210000").String())
	assert.Equal(t, "210000", gasLimit("210000.7").String())
	assert.Equal(t, "0", gasLimit("").String())
}
