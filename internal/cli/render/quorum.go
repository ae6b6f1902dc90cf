package render

import (
	"fmt"
	"io"

	"github.com/voteagora/agora-tally/internal/governance"
	"github.com/voteagora/agora-tally/internal/usecase"
)

// QuorumRenderer renders the quorum breakdown of a proposal
type QuorumRenderer struct {
	out io.Writer
}

// NewQuorumRenderer creates a new quorum renderer
func NewQuorumRenderer(out io.Writer) *QuorumRenderer {
	return &QuorumRenderer{out: out}
}

func (r *QuorumRenderer) Render(info *usecase.QuorumInfo) error {
	decimals := info.Tenant.TokenDecimals

	fmt.Fprintf(r.out, "%s %s on %s\n\n", headerStyle.Sprint("Quorum for proposal"), idStyle.Sprint(info.ProposalID), info.Tenant.Name)
	fmt.Fprintf(r.out, "Strategy:  %s\n", info.Strategy)
	if info.Quorum == nil {
		fmt.Fprintf(r.out, "Quorum:    %s\n", labelStyle.Sprint("none"))
	} else {
		fmt.Fprintf(r.out, "Quorum:    %s\n", FormatTokens(info.Quorum.String(), decimals))
	}
	if info.VotableSupply != nil {
		fmt.Fprintf(r.out, "Votable:   %s\n", FormatTokens(info.VotableSupply.String(), decimals))
	} else {
		fmt.Fprintf(r.out, "Votable:   %s\n", labelStyle.Sprint("unavailable"))
	}
	if info.SupplyBps != nil {
		fmt.Fprintf(r.out, "Share:     %s\n", FormatPercent(float64(info.SupplyBps.Int64())/float64(governance.BasisPoints)*100))
	}
	return nil
}
