package gas

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fleshka4/quote-aggregator/internal/apperrors"
	"github.com/fleshka4/quote-aggregator/internal/infra/pool"
	"github.com/fleshka4/quote-aggregator/internal/model"
)

// DefaultAttempts is the number of gas price attempts before the zero fallback.
const DefaultAttempts = 10

// Endpoints selects an RPC handle for a chain.
type Endpoints interface {
	RPC(chainID uint64) (pool.RPCClient, error)
}

// Source fetches the current gas price of a chain.
type Source struct {
	endpoints Endpoints
	attempts  int
	log       zerolog.Logger
}

// NewSource creates a gas price Source.
func NewSource(endpoints Endpoints, attempts int, log zerolog.Logger) *Source {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	return &Source{endpoints: endpoints, attempts: attempts, log: log}
}

// Fetch returns the gas price of chainID. Each attempt uses a random RPC
// handle; after the last failed attempt, or when the chain has no handle at
// all, it returns a zero price. Fetch never fails.
func (s *Source) Fetch(ctx context.Context, chainID uint64) model.GasPrice {
	for attempt := 1; attempt <= s.attempts; attempt++ {
		client, err := s.endpoints.RPC(chainID)
		if err != nil {
			s.log.Error().Err(err).Uint64("chain_id", chainID).Msg("no provider available for gas price")
			break
		}

		price, err := client.SuggestGasPrice(ctx)
		if err != nil {
			s.log.Error().Err(err).Uint64("chain_id", chainID).Int("attempt", attempt).Msg("gas price attempt failed")
			if ctx.Err() != nil {
				break
			}
			continue
		}

		gp := model.GasPrice{
			Wei:  price.String(),
			Gwei: decimal.NewFromBigInt(price, -9).StringFixed(9),
		}
		s.log.Info().Uint64("chain_id", chainID).Str("wei", gp.Wei).Str("gwei", gp.Gwei).Msg("gas price fetched")
		return gp
	}

	s.log.Error().Uint64("chain_id", chainID).Int("attempts", s.attempts).Msg("falling back to zero gas price")
	return model.GasPrice{Wei: "0", Gwei: "0"}
}

// Estimator estimates the gas limit of unsigned transactions.
type Estimator struct {
	endpoints Endpoints
}

// NewEstimator creates an Estimator.
func NewEstimator(endpoints Endpoints) *Estimator {
	return &Estimator{endpoints: endpoints}
}

// Estimate returns the gas units tx needs on chainID.
func (e *Estimator) Estimate(ctx context.Context, chainID uint64, tx model.Transaction) (uint64, error) {
	msg, err := callMsg(tx)
	if err != nil {
		return 0, errors.Wrap(apperrors.ErrGasEstimation, err.Error())
	}

	client, err := e.endpoints.RPC(chainID)
	if err != nil {
		return 0, errors.Wrap(err, "e.endpoints.RPC")
	}

	gas, err := client.EstimateGas(ctx, msg)
	if err != nil {
		return 0, errors.Wrapf(apperrors.ErrGasEstimation, "client.EstimateGas: %v", err)
	}
	return gas, nil
}

func callMsg(tx model.Transaction) (ethereum.CallMsg, error) {
	if !common.IsHexAddress(tx.From) {
		return ethereum.CallMsg{}, errors.Errorf("invalid from address %q", tx.From)
	}
	if !common.IsHexAddress(tx.To) {
		return ethereum.CallMsg{}, errors.Errorf("invalid to address %q", tx.To)
	}
	to := common.HexToAddress(tx.To)

	value := new(big.Int)
	if tx.Value != "" {
		if _, ok := value.SetString(tx.Value, 10); !ok {
			return ethereum.CallMsg{}, errors.Errorf("invalid value %q", tx.Value)
		}
	}

	var data []byte
	if tx.Data != "" && tx.Data != "0x" {
		raw := tx.Data
		if !strings.HasPrefix(raw, "0x") {
			raw = "0x" + raw
		}
		decoded, err := hexutil.Decode(raw)
		if err != nil {
			return ethereum.CallMsg{}, errors.Wrap(err, "hexutil.Decode")
		}
		data = decoded
	}

	return ethereum.CallMsg{
		From:  common.HexToAddress(tx.From),
		To:    &to,
		Value: value,
		Data:  data,
	}, nil
}
