package tokens

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/fleshka4/quote-aggregator/internal/model"
)

func TestStorePutAll(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	store, err := Open(filepath.Join(tmp, "tokens.db"), filepath.Join(tmp, "tokens.lock"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	dai := model.TokenInfo{Address: "0x6b175474e89094c44da98b954eedeac495271d0f", ChainID: 1, Symbol: "DAI", Decimals: 18, Name: "DAI", CoinKey: "DAI"}
	require.NoError(t, store.Put(ctx, dai))

	dai.Name = "Dai Stablecoin"
	require.NoError(t, store.Put(ctx, dai))

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, dai, all[0])
}

func TestStoreSurvivesReopen(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	dbPath, lockPath := filepath.Join(tmp, "tokens.db"), filepath.Join(tmp, "tokens.lock")

	store, err := Open(dbPath, lockPath)
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), model.TokenInfo{Address: "0xabc", ChainID: 10, Symbol: "OP", Decimals: 18}))
	require.NoError(t, store.Close())

	store, err = Open(dbPath, lockPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	all, err := store.All(context.Background())
	require.NoError(t, err)

	r := NewResolver(nil, nil, nil, store, zerolog.Nop())
	r.Preload(all)
	tok, ok := r.Cached(model.TokenRef{Address: "0xABC", ChainID: 10})
	require.True(t, ok)
	require.Equal(t, "OP", tok.Symbol)
}

func TestStoreConcurrentPut(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	store, err := Open(filepath.Join(tmp, "tokens.db"), filepath.Join(tmp, "tokens.lock"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	const workers = 8

	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errCh <- store.Put(context.Background(), model.TokenInfo{
				Address: "0x" + string(rune('a'+i)),
				ChainID: 1,
				Symbol:  "T",
			})
		}(i)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	all, err := store.All(context.Background())
	require.NoError(t, err)
	require.Len(t, all, workers)
}
