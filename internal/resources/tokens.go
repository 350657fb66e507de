package resources

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/fleshka4/quote-aggregator/internal/model"
)

// LoadTokens reads a tokens.json snapshot of the form {"tokens":{"<chainId>":[...]}}.
// Addresses are normalized and the chain id is taken from the enclosing key.
func LoadTokens(path string) ([]model.TokenInfo, error) {
	var doc struct {
		Tokens map[string][]model.TokenInfo `json:"tokens"`
	}
	if err := readJSON(path, &doc); err != nil {
		return nil, err
	}

	var out []model.TokenInfo
	for key, list := range doc.Tokens {
		chainID, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad chain id %q", key)
		}
		for _, tok := range list {
			if tok.Address == "" {
				continue
			}
			tok.ChainID = chainID
			tok.Address = model.NormalizeAddress(tok.Address)
			out = append(out, tok)
		}
	}
	return out, nil
}
