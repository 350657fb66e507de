// Package providertest holds fixtures shared by the adapter tests.
package providertest

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fleshka4/quote-aggregator/internal/config"
	"github.com/fleshka4/quote-aggregator/internal/infra/pool"
	"github.com/fleshka4/quote-aggregator/internal/model"
	"github.com/fleshka4/quote-aggregator/internal/normalize"
	"github.com/fleshka4/quote-aggregator/internal/providers"
	"github.com/fleshka4/quote-aggregator/internal/resources"
)

const (
	Sender = "0x1111111111111111111111111111111111111111"
	USDC   = "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"
	WETH   = "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"
)

// Request returns a quote-only request swapping 1 ETH to USDC on mainnet,
// with metadata and gas price attached.
func Request() *model.QuoteRequest {
	eth := &model.TokenInfo{
		Address: model.ZeroAddress, ChainID: 1, Symbol: "ETH", Decimals: 18, Name: "Ether",
		PriceUSD: decimal.NewNullDecimal(decimal.RequireFromString("2500")),
	}
	return &model.QuoteRequest{
		FromChainID:      1,
		ToChainID:        1,
		FromTokenAddress: model.ZeroAddress,
		ToTokenAddress:   USDC,
		FromAddress:      Sender,
		ToAddress:        Sender,
		Amount:           "1000000000000000000",
		SlippageBps:      100,
		QuoteOnly:        true,
		GasPrice:         model.GasPrice{Wei: "20000000000", Gwei: "20.000000000"},
		FromToken:        eth,
		ToToken: &model.TokenInfo{
			Address: USDC, ChainID: 1, Symbol: "USDC", Decimals: 6, Name: "USD Coin", CoinKey: "USDC",
			PriceUSD: decimal.NewNullDecimal(decimal.RequireFromString("1")),
		},
		NativeToken: eth,
	}
}

// Deps returns adapter dependencies pointing at baseURL. est may be nil for
// quote-only requests.
func Deps(baseURL string, cfg resources.ProviderConfig, settings config.ProviderSettings, est normalize.Estimator) providers.Deps {
	settings.BaseURL = baseURL
	return providers.Deps{
		HTTP:       pool.NewStatic([]*http.Client{{}}, nil),
		Normalizer: normalize.New(est),
		Config:     cfg,
		Settings:   settings,
		Log:        zerolog.Nop(),
	}
}
