package koi

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/fleshka4/quote-aggregator/internal/apperrors"
	"github.com/fleshka4/quote-aggregator/internal/dexmath"
	"github.com/fleshka4/quote-aggregator/internal/model"
	"github.com/fleshka4/quote-aggregator/internal/normalize"
	"github.com/fleshka4/quote-aggregator/internal/providers"
)

// RouterAddress is the Koi router on zkSync Era.
const RouterAddress = "0x8B791913eB07C32779a16750e3868aA8495F5964"

const deadlineWindow = 30 * time.Minute

const routerABIJSON = `[
	{"inputs":[
		{"internalType":"address","name":"tokenA","type":"address"},
		{"internalType":"address","name":"tokenB","type":"address"},
		{"internalType":"bool","name":"stable","type":"bool"}
	],"name":"getReserves","outputs":[
		{"internalType":"uint256","name":"reserveA","type":"uint256"},
		{"internalType":"uint256","name":"reserveB","type":"uint256"}
	],"stateMutability":"view","type":"function"},
	{"inputs":[
		{"internalType":"uint256","name":"amountOutMin","type":"uint256"},
		{"internalType":"address[]","name":"path","type":"address[]"},
		{"internalType":"address","name":"to","type":"address"},
		{"internalType":"uint256","name":"deadline","type":"uint256"},
		{"internalType":"bool[]","name":"stable","type":"bool[]"}
	],"name":"swapExactETHForTokens","outputs":[
		{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}
	],"stateMutability":"payable","type":"function"},
	{"inputs":[
		{"internalType":"uint256","name":"amountIn","type":"uint256"},
		{"internalType":"uint256","name":"amountOutMin","type":"uint256"},
		{"internalType":"address[]","name":"path","type":"address[]"},
		{"internalType":"address","name":"to","type":"address"},
		{"internalType":"uint256","name":"deadline","type":"uint256"},
		{"internalType":"bool[]","name":"stable","type":"bool[]"}
	],"name":"swapExactTokensForETH","outputs":[
		{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}
	],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[
		{"internalType":"uint256","name":"amountIn","type":"uint256"},
		{"internalType":"uint256","name":"amountOutMin","type":"uint256"},
		{"internalType":"address[]","name":"path","type":"address[]"},
		{"internalType":"address","name":"to","type":"address"},
		{"internalType":"uint256","name":"deadline","type":"uint256"},
		{"internalType":"bool[]","name":"stable","type":"bool[]"}
	],"name":"swapExactTokensForTokens","outputs":[
		{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}
	],"stateMutability":"nonpayable","type":"function"}
]`

const (
	getReservesMethod      = "getReserves"
	swapETHForTokensMethod = "swapExactETHForTokens"
	swapTokensForETHMethod = "swapExactTokensForETH"
	swapTokensMethod       = "swapExactTokensForTokens"
)

// Provider quotes swaps against the volatile pools of the Koi router.
// Reserves are read on chain and the output amount is computed locally.
type Provider struct {
	deps      providers.Deps
	routerABI abi.ABI
	router    common.Address
	now       func() time.Time
}

// New creates the Koi adapter.
func New(deps providers.Deps) (*Provider, error) {
	routerABI, err := abi.JSON(strings.NewReader(routerABIJSON))
	if err != nil {
		return nil, errors.Wrap(err, "abi.JSON")
	}
	return &Provider{
		deps:      deps,
		routerABI: routerABI,
		router:    common.HexToAddress(RouterAddress),
		now:       time.Now,
	}, nil
}

// Build implements providers.QuoteBuilder.
func (p *Provider) Build(ctx context.Context, req *model.QuoteRequest) (*model.CanonicalQuote, error) {
	if p.deps.RPC == nil {
		return nil, errors.Wrap(apperrors.ErrNoEndpoint, "no rpc clients")
	}

	fromAddr, toAddr := p.deps.Tokens(req)
	if !common.IsHexAddress(fromAddr) || !common.IsHexAddress(toAddr) {
		return nil, errors.Wrapf(apperrors.ErrInvalidArgument, "bad token pair %s/%s", fromAddr, toAddr)
	}
	tokenA, tokenB := common.HexToAddress(fromAddr), common.HexToAddress(toAddr)

	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok {
		return nil, errors.Wrapf(apperrors.ErrInvalidArgument, "bad amount %q", req.Amount)
	}

	reserveA, reserveB, err := p.reserves(ctx, req.FromChainID, tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	amountOut, ok := dexmath.Quote(amount, reserveA, reserveB)
	if !ok {
		return nil, errors.Wrap(apperrors.ErrProvider, "pool has no liquidity")
	}

	in := normalize.Input{
		Provider:        providers.Koi.String(),
		Request:         req,
		ToAmount:        amountOut.String(),
		ApprovalAddress: RouterAddress,
	}

	if req.QuoteOnly {
		in.Transaction = model.Transaction{
			From:    req.FromAddress,
			To:      RouterAddress,
			ChainID: req.FromChainID,
			Data:    model.QuotePlaceholder,
			Value:   model.QuotePlaceholder,
		}
		return p.deps.Normalizer.Normalize(ctx, in)
	}

	amountOutMin, ok := dexmath.MinAmountOut(amountOut, req.SlippageBps)
	if !ok {
		return nil, errors.Wrapf(apperrors.ErrInvalidArgument, "bad slippage %d bps", req.SlippageBps)
	}

	data, err := p.swapCalldata(req, amount, amountOutMin, []common.Address{tokenA, tokenB})
	if err != nil {
		return nil, err
	}

	value := "0"
	if model.IsNative(req.FromTokenAddress) {
		value = req.Amount
	}
	in.Transaction = model.Transaction{
		From:    req.FromAddress,
		To:      RouterAddress,
		ChainID: req.FromChainID,
		Data:    hexutil.Encode(data),
		Value:   value,
	}
	return p.deps.Normalizer.Normalize(ctx, in)
}

func (p *Provider) reserves(ctx context.Context, chainID uint64, tokenA, tokenB common.Address) (*big.Int, *big.Int, error) {
	client, err := p.deps.RPC.RPC(chainID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "p.deps.RPC.RPC")
	}

	input, err := p.routerABI.Pack(getReservesMethod, tokenA, tokenB, false)
	if err != nil {
		return nil, nil, errors.Wrap(err, "p.routerABI.Pack")
	}
	out, err := client.CallContract(ctx, ethereum.CallMsg{To: &p.router, Data: input}, nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "client.CallContract getReserves")
	}

	values, err := p.routerABI.Unpack(getReservesMethod, out)
	if err != nil {
		return nil, nil, errors.Wrap(apperrors.ErrMalformedQuote, err.Error())
	}
	if len(values) != 2 {
		return nil, nil, errors.Wrap(apperrors.ErrMalformedQuote, "getReserves returned unexpected outputs")
	}
	reserveA, okA := values[0].(*big.Int)
	reserveB, okB := values[1].(*big.Int)
	if !okA || !okB {
		return nil, nil, errors.Wrap(apperrors.ErrMalformedQuote, "getReserves returned non-integer reserves")
	}
	return reserveA, reserveB, nil
}

func (p *Provider) swapCalldata(req *model.QuoteRequest, amountIn, amountOutMin *big.Int, path []common.Address) ([]byte, error) {
	recipient := common.HexToAddress(req.ToAddress)
	deadline := big.NewInt(p.now().Add(deadlineWindow).Unix())
	stable := []bool{false}

	var (
		data []byte
		err  error
	)
	switch {
	case model.IsNative(req.FromTokenAddress):
		data, err = p.routerABI.Pack(swapETHForTokensMethod, amountOutMin, path, recipient, deadline, stable)
	case model.IsNative(req.ToTokenAddress):
		data, err = p.routerABI.Pack(swapTokensForETHMethod, amountIn, amountOutMin, path, recipient, deadline, stable)
	default:
		data, err = p.routerABI.Pack(swapTokensMethod, amountIn, amountOutMin, path, recipient, deadline, stable)
	}
	if err != nil {
		return nil, errors.Wrap(err, "p.routerABI.Pack")
	}
	return data, nil
}
