package eligibility

import (
	"strings"

	"github.com/fleshka4/quote-aggregator/internal/model"
	"github.com/fleshka4/quote-aggregator/internal/resources"
)

// Filter selects the providers configured for a token and chain pair.
type Filter struct {
	table  resources.ProviderTable
	chains resources.Chains
}

// NewFilter creates a Filter over the loaded provider table. chains resolves
// symbolic chain names used in the table.
func NewFilter(table resources.ProviderTable, chains resources.Chains) *Filter {
	return &Filter{table: table, chains: chains}
}

// Config returns the configuration of the named provider.
func (f *Filter) Config(name string) (resources.ProviderConfig, bool) {
	cfg, ok := f.table[name]
	return cfg, ok
}

// Eligible returns the names of the providers that support token on the
// fromChainID to toChainID route, sorted by name.
func (f *Filter) Eligible(token string, fromChainID, toChainID uint64) []string {
	out := make([]string, 0, len(f.table))
	for _, name := range f.table.Names() {
		cfg := f.table[name]
		if !cfg.Enabled {
			continue
		}
		if !f.supportsToken(cfg, token, fromChainID) {
			continue
		}
		if !f.accepts(cfg.FromChainIDs, fromChainID) || !f.accepts(cfg.ToChainIDs, toChainID) {
			continue
		}
		if !cfg.AllowsCrossChain() && fromChainID != toChainID {
			continue
		}
		out = append(out, name)
	}
	return out
}

func (f *Filter) supportsToken(cfg resources.ProviderConfig, token string, chainID uint64) bool {
	if len(cfg.Tokens) == 0 {
		return false
	}
	for _, t := range cfg.Tokens {
		if strings.EqualFold(t, resources.Wildcard) || sameToken(t, token) {
			return true
		}
	}
	alias := cfg.NativeAddress(chainID, "")
	return alias != "" && sameToken(alias, token)
}

// sameToken compares addresses case-insensitively; the zero address and the
// 0xeeee marker both name the native asset.
func sameToken(a, b string) bool {
	return strings.EqualFold(a, b) || (model.IsNative(a) && model.IsNative(b))
}

func (f *Filter) accepts(list resources.ChainList, chainID uint64) bool {
	for _, ref := range list {
		switch {
		case ref.All:
			return true
		case ref.Name != "":
			if id, ok := f.chains.IDByName(ref.Name); ok && id == chainID {
				return true
			}
		case ref.ID == chainID:
			return true
		}
	}
	return false
}

// ReplaceNative substitutes the native asset markers in from and to with the
// address the provider expects on the respective chain.
func ReplaceNative(cfg resources.ProviderConfig, from, to string, fromChainID, toChainID uint64) (string, string) {
	if model.IsNative(from) {
		from = cfg.NativeAddress(fromChainID, model.ZeroAddress)
	}
	if model.IsNative(to) {
		to = cfg.NativeAddress(toChainID, model.ZeroAddress)
	}
	return from, to
}

// Intersect keeps the names of requested that are present in eligible,
// preserving the order of eligible. An empty requested list keeps everything.
func Intersect(eligible, requested []string) []string {
	if len(requested) == 0 {
		return eligible
	}
	want := make(map[string]struct{}, len(requested))
	for _, name := range requested {
		want[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	out := make([]string, 0, len(eligible))
	for _, name := range eligible {
		if _, ok := want[strings.ToLower(name)]; ok {
			out = append(out, name)
		}
	}
	return out
}
