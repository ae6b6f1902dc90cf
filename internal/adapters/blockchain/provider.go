package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/puzpuzpuz/xsync/v4"

	domainconfig "github.com/voteagora/agora-tally/internal/domain/config"
	"github.com/voteagora/agora-tally/internal/governance"
)

// Dialer opens a ChainReader for an RPC URL and reports its chain id
type Dialer func(ctx context.Context, rpcURL string) (ChainReader, uint64, error)

// DialEthClient is the production Dialer backed by ethclient
func DialEthClient(ctx context.Context, rpcURL string) (ChainReader, uint64, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, 0, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return client, chainID.Uint64(), nil
}

// ProviderAdapter hands out governor readers, keeping one connection per tenant
type ProviderAdapter struct {
	dial    Dialer
	timeout time.Duration
	logger  *slog.Logger
	clients *xsync.Map[string, ChainReader]
}

// NewProviderAdapter creates a chain provider using the ethclient dialer.
// The returned cleanup closes every connection it opened.
func NewProviderAdapter(cfg *domainconfig.RuntimeConfig, logger *slog.Logger) (*ProviderAdapter, func()) {
	p := NewProviderAdapterWithDialer(DialEthClient, cfg.Timeout, logger)
	return p, p.Close
}

// NewProviderAdapterWithDialer creates a chain provider with a custom dialer
func NewProviderAdapterWithDialer(dial Dialer, timeout time.Duration, logger *slog.Logger) *ProviderAdapter {
	return &ProviderAdapter{
		dial:    dial,
		timeout: timeout,
		logger:  logger.With("component", "chain"),
		clients: xsync.NewMap[string, ChainReader](),
	}
}

// Governor returns a reader for the tenant's governor contract
func (p *ProviderAdapter) Governor(ctx context.Context, tenant *domainconfig.TenantConfig) (governance.GovernorReader, error) {
	if tenant.RPCURL == "" {
		return nil, fmt.Errorf("tenant %s has no rpc_url configured", tenant.Namespace)
	}
	if tenant.Governor == "" || !common.IsHexAddress(tenant.Governor) {
		return nil, fmt.Errorf("tenant %s has no valid governor address", tenant.Namespace)
	}

	client, err := p.client(ctx, tenant)
	if err != nil {
		return nil, err
	}
	return NewGovernorAdapter(client, common.HexToAddress(tenant.Governor), p.timeout), nil
}

func (p *ProviderAdapter) client(ctx context.Context, tenant *domainconfig.TenantConfig) (ChainReader, error) {
	if c, ok := p.clients.Load(tenant.Namespace); ok {
		return c, nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c, chainID, err := p.dial(dialCtx, tenant.RPCURL)
	if err != nil {
		return nil, err
	}
	// Verify chain ID matches
	if tenant.ChainID != 0 && chainID != tenant.ChainID {
		closeReader(c)
		return nil, fmt.Errorf("chain ID mismatch for %s: expected %d, got %d", tenant.Namespace, tenant.ChainID, chainID)
	}
	p.logger.Debug("connected to rpc", "tenant", tenant.Namespace, "chain_id", chainID)

	actual, loaded := p.clients.LoadOrStore(tenant.Namespace, c)
	if loaded {
		closeReader(c)
	}
	return actual, nil
}

// Close releases all cached connections
func (p *ProviderAdapter) Close() {
	p.clients.Range(func(ns string, c ChainReader) bool {
		closeReader(c)
		p.clients.Delete(ns)
		return true
	})
}

func closeReader(c ChainReader) {
	if closer, ok := c.(interface{ Close() }); ok {
		closer.Close()
	}
}

var _ governance.ChainProvider = (*ProviderAdapter)(nil)
