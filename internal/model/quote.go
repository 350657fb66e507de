package model

import "github.com/shopspring/decimal"

const (
	// None marks a value that is unknown, as opposed to zero.
	None = "none"
	// QuotePlaceholder marks transaction fields of a quote-only transaction
	// that cannot be executed or estimated.
	QuotePlaceholder = "quote"
)

// GasPrice holds the gas price of a chain in wei and gwei.
type GasPrice struct {
	Wei  string
	Gwei string
}

// QuoteRequest is a validated swap request. The fields after Providers are
// filled in by the dispatcher before the request reaches a provider.
type QuoteRequest struct {
	FromChainID      uint64
	ToChainID        uint64
	FromTokenAddress string
	ToTokenAddress   string
	FromAddress      string
	ToAddress        string
	// Amount is a base-unit integer encoded as a decimal string.
	Amount      string
	SlippageBps int64
	Providers   []string

	QuoteOnly   bool
	GasPrice    GasPrice
	FromToken   *TokenInfo
	ToToken     *TokenInfo
	NativeToken *TokenInfo
}

// SlippagePercent returns the slippage as a percentage, e.g. 100 bps is "1".
func (r *QuoteRequest) SlippagePercent() decimal.Decimal {
	return decimal.New(r.SlippageBps, -2)
}

// SlippageFraction returns the slippage as a fraction, e.g. 100 bps is "0.01".
func (r *QuoteRequest) SlippageFraction() decimal.Decimal {
	return decimal.New(r.SlippageBps, -4)
}

// Options returns the request options echoed in every quote.
func (r *QuoteRequest) Options() QuoteOptions {
	return QuoteOptions{
		Slippage: r.SlippagePercent().String(),
		Dapps:    r.Providers,
	}
}

// QuoteOptions are the caller options of a quote request.
type QuoteOptions struct {
	Slippage string   `json:"slippage"`
	Dapps    []string `json:"dapps,omitempty"`
}

// Transaction is an unsigned transaction descriptor.
type Transaction struct {
	Value    string `json:"value"`
	To       string `json:"to"`
	From     string `json:"from"`
	Data     string `json:"data"`
	ChainID  uint64 `json:"chainId"`
	GasPrice string `json:"gasPrice"`
	Gas      string `json:"gas"`
}

// QuoteToken is the token descriptor embedded in a quote.
type QuoteToken struct {
	Address  string `json:"address"`
	ChainID  uint64 `json:"chainId"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	Name     string `json:"name"`
	CoinKey  string `json:"coinKey,omitempty"`
	LogoURI  string `json:"logoURI"`
	PriceUSD string `json:"priceUSD"`
}

// AdditionalFee is a fee charged by the provider on top of the swap, in source token units.
type AdditionalFee struct {
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	Amount   string `json:"amount"`
}

// CanonicalQuote is a provider quote in the common schema.
type CanonicalQuote struct {
	Tool            string         `json:"tool"`
	FromChainID     uint64         `json:"fromChainId"`
	FromAmountUSD   string         `json:"fromAmountUSD"`
	FromAmount      string         `json:"fromAmount"`
	FromAddress     string         `json:"fromAddress"`
	ToAmount        string         `json:"toAmount"`
	ToAmountMin     string         `json:"toAmountMin"`
	SwapCostETH     string         `json:"swapCostETH"`
	SwapCostUSD     string         `json:"swapCostUSD"`
	ToChainID       uint64         `json:"toChainId"`
	ToAmountUSD     string         `json:"toAmountUSD"`
	FromToken       QuoteToken     `json:"fromToken"`
	ToToken         QuoteToken     `json:"toToken"`
	Options         QuoteOptions   `json:"options"`
	ToAddress       string         `json:"toAddress"`
	ApprovalAddress string         `json:"approvalAddress"`
	GasGwei         string         `json:"gasGwei"`
	Transaction     Transaction    `json:"transaction"`
	AdditionalFee   *AdditionalFee `json:"additionalFee,omitempty"`
}

// RankedQuote is a quote with its 1-based rank position.
type RankedQuote struct {
	ID   int             `json:"id"`
	Name string          `json:"name"`
	Data *CanonicalQuote `json:"data"`
}

// Envelope is the aggregated response of a quote request.
type Envelope struct {
	RequestID string        `json:"requestId,omitempty"`
	Success   bool          `json:"success"`
	Data      []RankedQuote `json:"data,omitempty"`
	Message   string        `json:"message,omitempty"`
}

// Failure returns an unsuccessful envelope carrying msg.
func Failure(msg string) *Envelope {
	return &Envelope{Success: false, Message: msg}
}
