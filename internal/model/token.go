package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// ZeroAddress is the canonical address of a chain's native asset.
	ZeroAddress = "0x0000000000000000000000000000000000000000"
	// NativeMarkerAddress is the alternative native asset sentinel used by many providers.
	NativeMarkerAddress = "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"
)

// TokenInfo describes a token on a specific chain.
type TokenInfo struct {
	Address  string              `json:"address"`
	ChainID  uint64              `json:"chainId"`
	Symbol   string              `json:"symbol"`
	Decimals uint8               `json:"decimals"`
	Name     string              `json:"name"`
	CoinKey  string              `json:"coinKey,omitempty"`
	LogoURI  string              `json:"logoURI,omitempty"`
	PriceUSD decimal.NullDecimal `json:"priceUSD"`
}

// TokenRef identifies a token to be resolved.
type TokenRef struct {
	Address string
	ChainID uint64
}

// IsNative reports whether addr is one of the native asset sentinels.
func IsNative(addr string) bool {
	a := strings.ToLower(addr)
	return a == ZeroAddress || a == NativeMarkerAddress
}

// NormalizeAddress lower-cases addr and collapses native sentinels to ZeroAddress.
func NormalizeAddress(addr string) string {
	if IsNative(addr) {
		return ZeroAddress
	}
	return strings.ToLower(addr)
}
