package erc20

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/fleshka4/quote-aggregator/internal/infra/pool"
)

const erc20ABIJSON = `[
	{"inputs":[],"name":"symbol","outputs":[{"internalType":"string","name":"","type":"string"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"decimals","outputs":[{"internalType":"uint8","name":"","type":"uint8"}],"stateMutability":"view","type":"function"}
]`

const (
	symbolMethod   = "symbol"
	decimalsMethod = "decimals"
)

// Metadata is the on-chain metadata of an ERC20 token.
type Metadata struct {
	Symbol   string
	Decimals uint8
}

// Endpoints selects an RPC handle for a chain.
type Endpoints interface {
	RPC(chainID uint64) (pool.RPCClient, error)
}

// Reader reads ERC20 metadata from the chain.
type Reader struct {
	endpoints Endpoints
	tokenABI  abi.ABI

	callTimeout time.Duration
}

// NewReader creates a Reader that picks a random RPC handle per lookup.
func NewReader(endpoints Endpoints, callTimeout time.Duration) (*Reader, error) {
	tokenABI, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		return nil, errors.Wrap(err, "abi.JSON")
	}

	return &Reader{
		endpoints: endpoints,
		tokenABI:  tokenABI,

		callTimeout: callTimeout,
	}, nil
}

func (r *Reader) call(ctx context.Context, caller ethereum.ContractCaller, to common.Address, method string) ([]interface{}, error) {
	data, err := r.tokenABI.Pack(method)
	if err != nil {
		return nil, errors.Wrap(err, "r.tokenABI.Pack")
	}

	res, err := caller.CallContract(
		ctx,
		ethereum.CallMsg{
			To:   &to,
			Data: data,
		},
		nil,
	)
	if err != nil {
		return nil, errors.Wrap(err, "caller.CallContract")
	}

	out, err := r.tokenABI.Unpack(method, res)
	if err != nil {
		return nil, errors.Wrap(err, "r.tokenABI.Unpack")
	}
	if len(out) == 0 {
		return nil, errors.Errorf("empty %s output", method)
	}

	return out, nil
}

// Metadata reads symbol and decimals of token on chainID concurrently.
func (r *Reader) Metadata(ctx context.Context, chainID uint64, token common.Address) (Metadata, error) {
	caller, err := r.endpoints.RPC(chainID)
	if err != nil {
		return Metadata{}, errors.Wrap(err, "r.endpoints.RPC")
	}

	const numCalls = 2

	type callResult struct {
		name string
		out  interface{}
		err  error
	}

	var wg sync.WaitGroup
	ch := make(chan callResult, numCalls)

	read := func(method string) {
		defer wg.Done()

		ctxCall, cancel := context.WithTimeout(ctx, r.callTimeout)
		defer cancel()

		out, err := r.call(ctxCall, caller, token, method)
		if err != nil {
			ch <- callResult{err: errors.Wrapf(err, "failed to call %s", method)}
			return
		}
		ch <- callResult{name: method, out: out[0]}
	}

	wg.Add(numCalls)
	go read(symbolMethod)
	go read(decimalsMethod)

	go func() {
		wg.Wait()
		close(ch)
	}()

	var (
		md          Metadata
		combinedErr error
	)

	for result := range ch {
		if result.err != nil {
			combinedErr = multierr.Append(combinedErr, result.err)
			continue
		}

		switch result.name {
		case symbolMethod:
			symbol, ok := result.out.(string)
			if !ok {
				combinedErr = multierr.Append(combinedErr, errors.New("failed to cast symbol result to string"))
				continue
			}
			md.Symbol = symbol
		case decimalsMethod:
			decimals, ok := result.out.(uint8)
			if !ok {
				combinedErr = multierr.Append(combinedErr, errors.New("failed to cast decimals result to uint8"))
				continue
			}
			md.Decimals = decimals
		}
	}

	if combinedErr != nil {
		return Metadata{}, errors.Wrap(combinedErr, "failed to read token metadata")
	}

	return md, nil
}
