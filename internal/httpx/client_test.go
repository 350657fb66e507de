package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/fleshka4/quote-aggregator/internal/apperrors"
)

func TestGetJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			require.Equal(t, "1", r.URL.Query().Get("chain"))
			require.Equal(t, "secret", r.Header.Get("API-KEY"))
			require.Equal(t, "application/json", r.Header.Get("Accept"))
			_, _ = w.Write([]byte(`{"amount":"42"}`))
		case "/empty":
		case "/bad":
			_, _ = w.Write([]byte(`{"amount":`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`upstream down`))
		}
	}))
	defer srv.Close()

	var out struct {
		Amount string `json:"amount"`
	}

	err := GetJSON(context.Background(), srv.Client(), srv.URL+"/ok", url.Values{"chain": {"1"}}, map[string]string{"API-KEY": "secret"}, &out)
	require.NoError(t, err)
	require.Equal(t, "42", out.Amount)

	for _, path := range []string{"/empty", "/bad", "/down"} {
		err := GetJSON(context.Background(), srv.Client(), srv.URL+path, nil, nil, &out)
		require.Error(t, err, path)
		require.True(t, errors.Is(err, apperrors.ErrProvider), path)
	}

	err = GetJSON(context.Background(), srv.Client(), srv.URL+"/down", nil, nil, &out)
	require.Contains(t, err.Error(), "502")
	require.Contains(t, err.Error(), "upstream down")
}

func TestPostJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["sellToken"]})
	}))
	defer srv.Close()

	var out map[string]string
	err := PostJSON(context.Background(), srv.Client(), srv.URL, map[string]string{"sellToken": "0xabc"}, nil, &out)
	require.NoError(t, err)
	require.Equal(t, "0xabc", out["echo"])
}

func TestDoJSONTimeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := GetJSON(ctx, srv.Client(), srv.URL, nil, nil, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, apperrors.ErrProvider))
}
