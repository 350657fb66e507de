// Package registry wires every provider adapter to its configuration.
package registry

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/fleshka4/quote-aggregator/internal/config"
	"github.com/fleshka4/quote-aggregator/internal/providers"
	"github.com/fleshka4/quote-aggregator/internal/providers/across"
	"github.com/fleshka4/quote-aggregator/internal/providers/balancer"
	"github.com/fleshka4/quote-aggregator/internal/providers/bungee"
	"github.com/fleshka4/quote-aggregator/internal/providers/debridge"
	"github.com/fleshka4/quote-aggregator/internal/providers/jumper"
	"github.com/fleshka4/quote-aggregator/internal/providers/koi"
	"github.com/fleshka4/quote-aggregator/internal/resources"
)

// Shared are the collaborators handed to every adapter.
type Shared struct {
	HTTP       providers.HTTPClients
	RPC        providers.RPCClients
	Normalizer providers.Normalizer
	Log        zerolog.Logger
}

type constructor func(providers.Deps) (providers.QuoteBuilder, error)

var constructors = map[providers.Name]constructor{
	providers.Across: func(d providers.Deps) (providers.QuoteBuilder, error) { return across.New(d) },
	providers.Koi:    func(d providers.Deps) (providers.QuoteBuilder, error) { return koi.New(d) },
	providers.Debridge: func(d providers.Deps) (providers.QuoteBuilder, error) {
		return debridge.New(d), nil
	},
	providers.Jumper: func(d providers.Deps) (providers.QuoteBuilder, error) {
		return jumper.New(d), nil
	},
	providers.Bungee: func(d providers.Deps) (providers.QuoteBuilder, error) {
		return bungee.New(d), nil
	},
	providers.Balancer: func(d providers.Deps) (providers.QuoteBuilder, error) {
		return balancer.New(d), nil
	},
}

// New builds the adapter of every integrated provider. Providers missing from
// table get a zero configuration and are never eligible.
func New(table resources.ProviderTable, settings map[string]config.ProviderSettings, shared Shared) (providers.Registry, error) {
	reg := make(providers.Registry, len(providers.All))
	for _, name := range providers.All {
		build, ok := constructors[name]
		if !ok {
			return nil, errors.Errorf("no constructor for provider %s", name)
		}
		b, err := build(providers.Deps{
			HTTP:       shared.HTTP,
			RPC:        shared.RPC,
			Normalizer: shared.Normalizer,
			Config:     table[name.String()],
			Settings:   settings[name.String()],
			Log:        shared.Log.With().Str("provider", name.String()).Logger(),
		})
		if err != nil {
			return nil, errors.Wrapf(err, "build provider %s", name)
		}
		reg[name] = b
	}
	return reg, nil
}
