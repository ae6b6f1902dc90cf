package models

// Bundle is a self-contained set of proposals, votes and the votable supply
// for one tenant, as exported by an indexer or kept as a test fixture.
type Bundle struct {
	Tenant        string
	Proposals     []*Proposal
	Votes         []*Vote
	VotableSupply string
	// SupplyBlock is the block the votable supply was measured at
	SupplyBlock uint64
}

// VotesFor returns the votes cast on one proposal
func (b *Bundle) VotesFor(proposalID string) []*Vote {
	var out []*Vote
	for _, v := range b.Votes {
		if v.ProposalID == proposalID {
			out = append(out, v)
		}
	}
	return out
}
