package erc20

import (
	"bytes"
	"context"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fleshka4/quote-aggregator/internal/infra/pool"
	"github.com/fleshka4/quote-aggregator/internal/infra/pool/mock"
)

var usdc = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")

func mustPack(t *testing.T, method string, v interface{}) []byte {
	t.Helper()

	a, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	require.NoError(t, err)
	out, err := a.Methods[method].Outputs.Pack(v)
	require.NoError(t, err)
	return out
}

func selector(t *testing.T, method string) []byte {
	t.Helper()

	a, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	require.NoError(t, err)
	return a.Methods[method].ID
}

func TestReaderMetadata(t *testing.T) {
	t.Parallel()

	symbolOut := mustPack(t, symbolMethod, "USDC")
	decimalsOut := mustPack(t, decimalsMethod, uint8(6))
	symbolID := selector(t, symbolMethod)

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		caller := mock.NewMockRPCClient(ctrl)
		caller.EXPECT().
			CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
			DoAndReturn(func(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
				require.Equal(t, usdc, *msg.To)
				if bytes.Equal(msg.Data, symbolID) {
					return symbolOut, nil
				}
				return decimalsOut, nil
			}).
			Times(2)

		r, err := NewReader(pool.NewStatic(nil, map[uint64][]pool.RPCClient{1: {caller}}), time.Second)
		require.NoError(t, err)

		md, err := r.Metadata(context.Background(), 1, usdc)
		require.NoError(t, err)
		require.Equal(t, Metadata{Symbol: "USDC", Decimals: 6}, md)
	})

	t.Run("call error", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		caller := mock.NewMockRPCClient(ctrl)
		caller.EXPECT().
			CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
			DoAndReturn(func(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
				if bytes.Equal(msg.Data, symbolID) {
					return nil, errors.New("execution reverted")
				}
				return decimalsOut, nil
			}).
			Times(2)

		r, err := NewReader(pool.NewStatic(nil, map[uint64][]pool.RPCClient{1: {caller}}), time.Second)
		require.NoError(t, err)

		_, err = r.Metadata(context.Background(), 1, usdc)
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to call symbol")
	})

	t.Run("unpack error", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		caller := mock.NewMockRPCClient(ctrl)
		caller.EXPECT().
			CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
			Return([]byte{0x01}, nil).
			Times(2)

		r, err := NewReader(pool.NewStatic(nil, map[uint64][]pool.RPCClient{1: {caller}}), time.Second)
		require.NoError(t, err)

		_, err = r.Metadata(context.Background(), 1, usdc)
		require.Error(t, err)
	})

	t.Run("no endpoint", func(t *testing.T) {
		t.Parallel()

		r, err := NewReader(pool.NewStatic(nil, nil), time.Second)
		require.NoError(t, err)

		_, err = r.Metadata(context.Background(), 1, usdc)
		require.Error(t, err)
	})
}
