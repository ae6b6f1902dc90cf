package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/voteagora/agora-tally/internal/governance"
)

// governorABI covers the read-only quorum entry points shared by the
// supported governor flavours.
const governorABI = `[
	{"type":"function","name":"quorum","stateMutability":"view",
	 "inputs":[{"name":"blockNumber","type":"uint256"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"quorumVotes","stateMutability":"view",
	 "inputs":[],
	 "outputs":[{"name":"","type":"uint256"}]}
]`

var parsedGovernorABI = mustParseABI(governorABI)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("invalid governor ABI: %v", err))
	}
	return parsed
}

// ChainReader is the part of ethclient.Client the governor adapter uses
type ChainReader interface {
	ethereum.ContractCaller
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// GovernorAdapter reads a governor contract through an RPC client
type GovernorAdapter struct {
	client  ChainReader
	address common.Address
	timeout time.Duration
}

// NewGovernorAdapter creates a governor reader bound to address
func NewGovernorAdapter(client ChainReader, address common.Address, timeout time.Duration) *GovernorAdapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &GovernorAdapter{client: client, address: address, timeout: timeout}
}

// Quorum calls quorum(uint256)
func (g *GovernorAdapter) Quorum(ctx context.Context, blockOrProposalID *big.Int) (*big.Int, error) {
	return g.callUint(ctx, "quorum", blockOrProposalID)
}

// QuorumVotes calls quorumVotes()
func (g *GovernorAdapter) QuorumVotes(ctx context.Context) (*big.Int, error) {
	return g.callUint(ctx, "quorumVotes")
}

// GetBlock returns the header at number, or the latest one when number is nil
func (g *GovernorAdapter) GetBlock(ctx context.Context, number *big.Int) (*governance.Block, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	header, err := g.client.HeaderByNumber(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get block header: %w", err)
	}
	return &governance.Block{
		Number:    header.Number.Uint64(),
		Timestamp: int64(header.Time),
	}, nil
}

func (g *GovernorAdapter) callUint(ctx context.Context, method string, args ...any) (*big.Int, error) {
	data, err := parsedGovernorABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	out, err := g.client.CallContract(ctx, ethereum.CallMsg{To: &g.address, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}

	values, err := parsedGovernorABI.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s result: %w", method, err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("%s returned %d values", method, len(values))
	}
	v, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s returned %T", method, values[0])
	}
	return v, nil
}

var _ governance.GovernorReader = (*GovernorAdapter)(nil)
