package resources

import (
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Wildcard accepts any token or chain.
const Wildcard = "all"

// ChainRef is an entry of a provider chain list: a numeric id, a chain
// key or name, or the wildcard.
type ChainRef struct {
	ID   uint64
	Name string
	All  bool
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *ChainRef) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: chain reference must be a scalar", value.Line)
	}
	s := strings.TrimSpace(value.Value)
	if strings.EqualFold(s, Wildcard) {
		*r = ChainRef{All: true}
		return nil
	}
	if id, err := strconv.ParseUint(s, 10, 64); err == nil {
		*r = ChainRef{ID: id}
		return nil
	}
	*r = ChainRef{Name: s}
	return nil
}

// StringList accepts either a YAML sequence or a single scalar.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*l = StringList{value.Value}
		return nil
	}
	var list []string
	if err := value.Decode(&list); err != nil {
		return errors.Wrap(err, "value.Decode")
	}
	*l = list
	return nil
}

// ChainList accepts either a YAML sequence of chain references or a single one.
type ChainList []ChainRef

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *ChainList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var r ChainRef
		if err := r.UnmarshalYAML(value); err != nil {
			return err
		}
		*l = ChainList{r}
		return nil
	}
	var list []ChainRef
	if err := value.Decode(&list); err != nil {
		return errors.Wrap(err, "value.Decode")
	}
	*l = list
	return nil
}

// ChainOverride overrides provider settings for one chain.
type ChainOverride struct {
	EthAddress string `yaml:"ethAddress"`
}

// ProviderConfig is the static configuration of one provider.
type ProviderConfig struct {
	Enabled      bool       `yaml:"enabled"`
	Bridge       *bool      `yaml:"bridge"`
	Tokens       StringList `yaml:"tokens"`
	FromChainIDs ChainList  `yaml:"fromChainIds"`
	ToChainIDs   ChainList  `yaml:"toChainIds"`
	// EthAddress is the address the provider uses for the native asset.
	EthAddress string `yaml:"ethAddress"`
	// Chains is keyed by decimal chain id.
	Chains map[string]ChainOverride `yaml:"chains"`
}

// AllowsCrossChain reports whether source and destination chains may differ.
// An unset bridge flag is permissive.
func (p ProviderConfig) AllowsCrossChain() bool {
	return p.Bridge == nil || *p.Bridge
}

// NativeAddress returns the native asset address for chainID, falling back to
// the provider-wide address and finally the zero address.
func (p ProviderConfig) NativeAddress(chainID uint64, zero string) string {
	if o, ok := p.Chains[strconv.FormatUint(chainID, 10)]; ok && o.EthAddress != "" {
		return o.EthAddress
	}
	if p.EthAddress != "" {
		return p.EthAddress
	}
	return zero
}

// ProviderTable is the provider configuration keyed by provider name.
type ProviderTable map[string]ProviderConfig

// Names returns the provider names in lexical order.
func (t ProviderTable) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadProviders reads the provider table from a YAML file.
func LoadProviders(path string) (ProviderTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "os.ReadFile")
	}
	var table ProviderTable
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, errors.Wrapf(err, "yaml.Unmarshal %s", path)
	}
	return table, nil
}
