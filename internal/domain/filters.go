package domain

import (
	"github.com/voteagora/agora-tally/internal/domain/models"
)

// ProposalFilter defines filtering options for stored proposals
type ProposalFilter struct {
	Tenant   string
	Type     models.ProposalType
	Proposer string
	// Limit of zero means no limit
	Limit int
}

// ResultFilter narrows resolved results after status resolution
type ResultFilter struct {
	Status models.ProposalStatus
}

// Matches reports whether a resolved view passes the filter
func (f ResultFilter) Matches(view *models.ResultView) bool {
	return f.Status == "" || view.Status == f.Status
}
