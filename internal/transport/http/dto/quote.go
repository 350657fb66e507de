package dto

import "github.com/fleshka4/quote-aggregator/internal/model"

// QuoteRequest is the JSON body of POST /api/quote.
type QuoteRequest struct {
	FromChainID      model.Quantity `json:"fromChainId"`
	ToChainID        model.Quantity `json:"toChainId"`
	FromTokenAddress string         `json:"fromTokenAddress"`
	ToTokenAddress   string         `json:"toTokenAddress"`
	FromAddress      string         `json:"fromAddress"`
	ToAddress        string         `json:"toAddress"`
	Amount           model.Quantity `json:"amount"`
	Dapps            []string       `json:"dapps"`
	Options          QuoteOptions   `json:"options"`
}

// QuoteOptions are the optional request settings.
type QuoteOptions struct {
	Slippage model.Quantity `json:"slippage"`
	Dapps    []string       `json:"dapps"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
