package model

import (
	"bytes"
	"encoding/json"
	"math/big"

	"github.com/pkg/errors"
)

// Quantity is a value encoded either as a JSON string or as a JSON number.
// The literal text is kept; null decodes to the empty string.
type Quantity string

// UnmarshalJSON implements json.Unmarshaler.
func (q *Quantity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*q = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return errors.Wrap(err, "json.Unmarshal")
		}
		*q = Quantity(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.Errorf("expected string or number, got %s", b)
	}
	*q = Quantity(n.String())
	return nil
}

// Big parses q as a base-10 integer.
func (q Quantity) Big() (*big.Int, error) {
	v, ok := new(big.Int).SetString(string(q), 10)
	if !ok {
		return nil, errors.Errorf("bad integer %q", string(q))
	}
	return v, nil
}
