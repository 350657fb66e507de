package pool

import (
	"context"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/fleshka4/quote-aggregator/internal/apperrors"
	"github.com/fleshka4/quote-aggregator/internal/resources"
)

//go:generate mockgen -source=pool.go -destination=mock/pool.go -package=mock

// RPCClient is the subset of an Ethereum JSON-RPC client used by the service.
type RPCClient interface {
	ethereum.ContractCaller
	ethereum.GasEstimator
	ethereum.GasPricer
}

// Endpoint is one RPC handle of a chain.
type Endpoint struct {
	ChainID uint64
	// ID identifies the endpoint as "<rpcURL>|<proxy>".
	ID     string
	Client RPCClient
}

// Pool holds interchangeable outbound HTTP clients and per-chain RPC handles.
// It is built once and never mutated afterwards.
type Pool struct {
	http []*http.Client
	rpc  map[uint64][]Endpoint

	closeOnce sync.Once
	closers   []func()
}

type options struct {
	httpTimeout time.Duration
}

// Option configures New.
type Option func(*options)

// WithHTTPTimeout sets the timeout of every outbound HTTP client.
func WithHTTPTimeout(d time.Duration) Option {
	return func(o *options) { o.httpTimeout = d }
}

// New builds one HTTP client per proxy, or a single direct client when
// proxies is empty, and one RPC handle per chain RPC URL and HTTP client.
func New(ctx context.Context, chains resources.Chains, proxies []resources.Proxy, opts ...Option) (*Pool, error) {
	o := options{httpTimeout: 30 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	type httpEntry struct {
		client *http.Client
		label  string
	}

	var clients []httpEntry
	if len(proxies) == 0 {
		clients = append(clients, httpEntry{client: &http.Client{Timeout: o.httpTimeout}, label: "direct"})
	}
	for _, p := range proxies {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = http.ProxyURL(p.URL())
		clients = append(clients, httpEntry{
			client: &http.Client{Timeout: o.httpTimeout, Transport: transport},
			label:  p.String(),
		})
	}

	p := &Pool{rpc: make(map[uint64][]Endpoint)}
	for _, c := range clients {
		p.http = append(p.http, c.client)
	}

	var combinedErr error
	for _, ch := range chains {
		for _, url := range ch.Metamask.RPCURLs {
			for _, c := range clients {
				rc, err := rpc.DialOptions(ctx, url, rpc.WithHTTPClient(c.client))
				if err != nil {
					combinedErr = multierr.Append(combinedErr, errors.Wrapf(err, "rpc.DialOptions %s", url))
					continue
				}
				client := ethclient.NewClient(rc)
				p.closers = append(p.closers, client.Close)
				p.rpc[ch.ID] = append(p.rpc[ch.ID], Endpoint{
					ChainID: ch.ID,
					ID:      url + "|" + c.label,
					Client:  client,
				})
			}
		}
	}

	if combinedErr != nil {
		p.Close()
		return nil, errors.Wrap(combinedErr, "failed to build rpc endpoints")
	}

	return p, nil
}

// NewStatic builds a pool from already constructed clients.
func NewStatic(httpClients []*http.Client, rpcByChain map[uint64][]RPCClient) *Pool {
	p := &Pool{
		http: httpClients,
		rpc:  make(map[uint64][]Endpoint, len(rpcByChain)),
	}
	for chainID, list := range rpcByChain {
		for _, c := range list {
			p.rpc[chainID] = append(p.rpc[chainID], Endpoint{ChainID: chainID, Client: c})
		}
	}
	return p
}

// HTTPClient returns a uniformly random outbound HTTP client.
func (p *Pool) HTTPClient() (*http.Client, error) {
	if len(p.http) == 0 {
		return nil, errors.Wrap(apperrors.ErrNoEndpoint, "no http client")
	}
	return p.http[rand.IntN(len(p.http))], nil
}

// RPC returns a uniformly random RPC handle of chainID.
func (p *Pool) RPC(chainID uint64) (RPCClient, error) {
	list := p.rpc[chainID]
	if len(list) == 0 {
		return nil, errors.Wrapf(apperrors.ErrNoEndpoint, "no rpc endpoint for chain %d", chainID)
	}
	return list[rand.IntN(len(list))].Client, nil
}

// Endpoints returns the number of RPC handles of chainID.
func (p *Pool) Endpoints(chainID uint64) int {
	return len(p.rpc[chainID])
}

// Close releases every RPC handle. It is safe to call more than once.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		for _, c := range p.closers {
			c()
		}
	})
}
