package providers

import (
	"context"
	"math/big"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/fleshka4/quote-aggregator/internal/apperrors"
	"github.com/fleshka4/quote-aggregator/internal/config"
	"github.com/fleshka4/quote-aggregator/internal/eligibility"
	"github.com/fleshka4/quote-aggregator/internal/infra/pool"
	"github.com/fleshka4/quote-aggregator/internal/model"
	"github.com/fleshka4/quote-aggregator/internal/normalize"
	"github.com/fleshka4/quote-aggregator/internal/resources"
)

//go:generate mockgen -source=providers.go -destination=mock/providers.go -package=mock

// Name identifies an integrated provider.
type Name string

// Integrated providers.
const (
	Across   Name = "across"
	Debridge Name = "debridge"
	Jumper   Name = "jumper"
	Bungee   Name = "bungee"
	Balancer Name = "balancer"
	Koi      Name = "koi"
)

// All lists every integrated provider.
var All = []Name{Across, Debridge, Jumper, Bungee, Balancer, Koi}

func (n Name) String() string { return string(n) }

// QuoteBuilder builds a canonical quote for a request.
type QuoteBuilder interface {
	Build(ctx context.Context, req *model.QuoteRequest) (*model.CanonicalQuote, error)
}

// QuoteBuilderFunc adapts a function to QuoteBuilder.
type QuoteBuilderFunc func(ctx context.Context, req *model.QuoteRequest) (*model.CanonicalQuote, error)

// Build calls f.
func (f QuoteBuilderFunc) Build(ctx context.Context, req *model.QuoteRequest) (*model.CanonicalQuote, error) {
	return f(ctx, req)
}

// Registry maps provider names to their builders.
type Registry map[Name]QuoteBuilder

// Lookup returns the builder registered under name.
func (r Registry) Lookup(name string) (QuoteBuilder, bool) {
	b, ok := r[Name(strings.ToLower(name))]
	return b, ok
}

// HTTPClients hands out outbound HTTP clients.
type HTTPClients interface {
	HTTPClient() (*http.Client, error)
}

// RPCClients hands out chain clients.
type RPCClients interface {
	RPC(chainID uint64) (pool.RPCClient, error)
}

// Normalizer converts raw provider results to canonical quotes.
type Normalizer interface {
	Normalize(ctx context.Context, in normalize.Input) (*model.CanonicalQuote, error)
}

// Deps are the collaborators shared by every adapter.
type Deps struct {
	HTTP       HTTPClients
	RPC        RPCClients
	Normalizer Normalizer
	Config     resources.ProviderConfig
	Settings   config.ProviderSettings
	Log        zerolog.Logger
}

// BaseURL returns the configured base URL override or def.
func (d Deps) BaseURL(def string) string {
	if d.Settings.BaseURL != "" {
		return strings.TrimRight(d.Settings.BaseURL, "/")
	}
	return def
}

// Tokens returns the request token addresses as the provider expects them.
func (d Deps) Tokens(req *model.QuoteRequest) (string, string) {
	return eligibility.ReplaceNative(d.Config, req.FromTokenAddress, req.ToTokenAddress, req.FromChainID, req.ToChainID)
}

// Client returns an HTTP client from the pool.
func (d Deps) Client() (*http.Client, error) {
	if d.HTTP == nil {
		return nil, errors.Wrap(apperrors.ErrNoEndpoint, "no http clients")
	}
	return d.HTTP.HTTPClient()
}

// HexToDecimal converts a 0x-prefixed quantity to a decimal string. Decimal
// input is returned unchanged and an empty value is "0".
func HexToDecimal(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "0", nil
	}
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return "", errors.Errorf("bad quantity %q", s)
		}
		return v.String(), nil
	}
	digits := strings.TrimLeft(s[2:], "0")
	if digits == "" {
		return "0", nil
	}
	v, err := hexutil.DecodeBig("0x" + digits)
	if err != nil {
		return "", errors.Wrapf(err, "hexutil.DecodeBig %q", s)
	}
	return v.String(), nil
}
