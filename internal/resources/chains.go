package resources

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Chain is a supported network as described in chains.json.
type Chain struct {
	ID       uint64   `json:"id"`
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Coin     string   `json:"coin"`
	Metamask Metamask `json:"metamask"`
}

// Metamask holds the wallet-facing network parameters of a chain.
type Metamask struct {
	RPCURLs        []string       `json:"rpcUrls"`
	NativeCurrency NativeCurrency `json:"nativeCurrency"`
}

// NativeCurrency describes the native asset of a chain.
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// Chains is the loaded chain list.
type Chains []Chain

// ByID returns the chain with the given id.
func (c Chains) ByID(id uint64) (Chain, bool) {
	for _, ch := range c {
		if ch.ID == id {
			return ch, true
		}
	}
	return Chain{}, false
}

// IDByName resolves a chain key or name, case-insensitively.
func (c Chains) IDByName(name string) (uint64, bool) {
	for _, ch := range c {
		if strings.EqualFold(ch.Key, name) || strings.EqualFold(ch.Name, name) {
			return ch.ID, true
		}
	}
	return 0, false
}

// LoadChains reads chains.json.
func LoadChains(path string) (Chains, error) {
	var doc struct {
		Chains Chains `json:"chains"`
	}
	if err := readJSON(path, &doc); err != nil {
		return nil, err
	}
	if len(doc.Chains) == 0 {
		return nil, errors.Errorf("no chains in %s", path)
	}
	return doc.Chains, nil
}

func readJSON(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "os.ReadFile")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "json.Unmarshal %s", path)
	}
	return nil
}
