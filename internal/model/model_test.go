package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAddress(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ZeroAddress, NormalizeAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"))
	assert.Equal(t, ZeroAddress, NormalizeAddress(ZeroAddress))
	assert.Equal(t, "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", NormalizeAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"))
	assert.True(t, IsNative(NativeMarkerAddress))
	assert.False(t, IsNative("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"))
}

func TestQuoteRequestSlippage(t *testing.T) {
	t.Parallel()

	r := &QuoteRequest{SlippageBps: 50, Providers: []string{"koi"}}
	assert.Equal(t, "0.5", r.SlippagePercent().String())
	assert.Equal(t, "0.005", r.SlippageFraction().String())
	assert.Equal(t, QuoteOptions{Slippage: "0.5", Dapps: []string{"koi"}}, r.Options())

	r.SlippageBps = 100
	assert.Equal(t, "1", r.SlippagePercent().String())
	assert.Equal(t, "0.01", r.SlippageFraction().String())
}

func TestFailure(t *testing.T) {
	t.Parallel()

	env := Failure("No dApps available")
	assert.False(t, env.Success)
	assert.Empty(t, env.RequestID)
	assert.Equal(t, "No dApps available", env.Message)
}
