package tokens

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/fleshka4/quote-aggregator/internal/apperrors"
	"github.com/fleshka4/quote-aggregator/internal/infra/erc20"
	"github.com/fleshka4/quote-aggregator/internal/metrics"
	"github.com/fleshka4/quote-aggregator/internal/model"
	"github.com/fleshka4/quote-aggregator/internal/resources"
)

//go:generate mockgen -source=resolver.go -destination=mock/resolver.go -package=mock

// MetadataReader reads token metadata from the chain.
type MetadataReader interface {
	Metadata(ctx context.Context, chainID uint64, token common.Address) (erc20.Metadata, error)
}

// Persister durably stores discovered tokens.
type Persister interface {
	Put(ctx context.Context, tok model.TokenInfo) error
}

type snapshot map[string]model.TokenInfo

// Resolver resolves token metadata from a static snapshot, a write-through
// layer of tokens discovered on chain, and finally the chain itself.
type Resolver struct {
	snapshot   atomic.Pointer[snapshot]
	discovered sync.Map
	natives    map[uint64]model.TokenInfo

	reader    MetadataReader
	persister Persister
	group     singleflight.Group
	log       zerolog.Logger

	lookupTimeout time.Duration
}

// DefaultLookupTimeout bounds one on-chain metadata lookup.
const DefaultLookupTimeout = 15 * time.Second

// NewResolver creates a Resolver. persister may be nil.
func NewResolver(
	tokens []model.TokenInfo,
	chains resources.Chains,
	reader MetadataReader,
	persister Persister,
	log zerolog.Logger,
) *Resolver {
	r := &Resolver{
		natives:   make(map[uint64]model.TokenInfo, len(chains)),
		reader:    reader,
		persister: persister,
		log:       log,

		lookupTimeout: DefaultLookupTimeout,
	}
	for _, ch := range chains {
		nc := ch.Metamask.NativeCurrency
		if nc.Symbol == "" {
			continue
		}
		r.natives[ch.ID] = model.TokenInfo{
			Address:  model.ZeroAddress,
			ChainID:  ch.ID,
			Symbol:   nc.Symbol,
			Decimals: nc.Decimals,
			Name:     nc.Name,
			CoinKey:  nc.Symbol,
		}
	}
	r.ReplaceSnapshot(tokens)
	return r
}

func key(chainID uint64, address string) string {
	return strconv.FormatUint(chainID, 10) + ":" + address
}

// ReplaceSnapshot atomically swaps the static snapshot.
func (r *Resolver) ReplaceSnapshot(tokens []model.TokenInfo) {
	s := make(snapshot, len(tokens))
	for _, tok := range tokens {
		tok.Address = model.NormalizeAddress(tok.Address)
		s[key(tok.ChainID, tok.Address)] = tok
	}
	r.snapshot.Store(&s)
}

// Preload adds previously discovered tokens to the write-through layer.
func (r *Resolver) Preload(tokens []model.TokenInfo) {
	for _, tok := range tokens {
		tok.Address = model.NormalizeAddress(tok.Address)
		r.discovered.LoadOrStore(key(tok.ChainID, tok.Address), tok)
	}
}

// ReloadLoop replaces the snapshot with the result of load every interval
// until ctx is done. Failed loads keep the current snapshot.
func (r *Resolver) ReloadLoop(ctx context.Context, interval time.Duration, load func() ([]model.TokenInfo, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tokens, err := load()
			if err != nil {
				r.log.Error().Err(err).Msg("failed to reload token snapshot")
				continue
			}
			r.ReplaceSnapshot(tokens)
			r.log.Debug().Int("tokens", len(tokens)).Msg("token snapshot reloaded")
		}
	}
}

// Cached returns the token without touching the network.
func (r *Resolver) Cached(ref model.TokenRef) (model.TokenInfo, bool) {
	tok, _, ok := r.cached(ref.ChainID, model.NormalizeAddress(ref.Address))
	return tok, ok
}

func (r *Resolver) cached(chainID uint64, address string) (model.TokenInfo, string, bool) {
	k := key(chainID, address)
	if s := r.snapshot.Load(); s != nil {
		if tok, ok := (*s)[k]; ok {
			return tok, metrics.SourceSnapshot, true
		}
	}
	if v, ok := r.discovered.Load(k); ok {
		return v.(model.TokenInfo), metrics.SourceCache, true
	}
	if address == model.ZeroAddress {
		if tok, ok := r.natives[chainID]; ok {
			return tok, metrics.SourceSnapshot, true
		}
	}
	return model.TokenInfo{}, "", false
}

// Resolve returns the metadata of every ref, in order. Any unresolvable
// token fails the whole call with apperrors.ErrTokenMetadata.
func (r *Resolver) Resolve(ctx context.Context, refs []model.TokenRef) ([]*model.TokenInfo, error) {
	out := make([]*model.TokenInfo, len(refs))
	errs := make([]error, len(refs))

	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref model.TokenRef) {
			defer wg.Done()
			out[i], errs[i] = r.resolveOne(ctx, ref)
		}(i, ref)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *Resolver) resolveOne(ctx context.Context, ref model.TokenRef) (*model.TokenInfo, error) {
	address := model.NormalizeAddress(ref.Address)
	if tok, source, ok := r.cached(ref.ChainID, address); ok {
		metrics.TokenLookups.WithLabelValues(source).Inc()
		return &tok, nil
	}

	if !common.IsHexAddress(address) {
		return nil, errors.Wrapf(apperrors.ErrTokenMetadata, "bad token address %q", ref.Address)
	}

	k := key(ref.ChainID, address)
	ch := r.group.DoChan(k, func() (interface{}, error) {
		// Shared by every waiter; detached from the caller's cancellation.
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.lookupTimeout)
		defer cancel()

		md, err := r.reader.Metadata(lookupCtx, ref.ChainID, common.HexToAddress(address))
		if err != nil {
			return nil, err
		}
		metrics.TokenLookups.WithLabelValues(metrics.SourceNetwork).Inc()

		tok := model.TokenInfo{
			Address:  address,
			ChainID:  ref.ChainID,
			Symbol:   md.Symbol,
			Decimals: md.Decimals,
			Name:     md.Symbol,
			CoinKey:  md.Symbol,
		}
		actual, _ := r.discovered.LoadOrStore(k, tok)

		if r.persister != nil {
			if err := r.persister.Put(lookupCtx, tok); err != nil {
				r.log.Warn().Err(err).Str("token", k).Msg("failed to persist token")
			}
		}
		return actual.(model.TokenInfo), nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, errors.Wrapf(apperrors.ErrTokenMetadata, "token %s: %v", k, ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, errors.Wrapf(apperrors.ErrTokenMetadata, "token %s: %v", k, res.Err)
	}

	tok := res.Val.(model.TokenInfo)
	return &tok, nil
}
