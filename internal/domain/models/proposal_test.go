package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProposalStatus(t *testing.T) {
	s, err := ParseProposalStatus("succeeded")
	require.NoError(t, err)
	assert.Equal(t, ProposalStatusSucceeded, s)

	s, err = ParseProposalStatus("")
	require.NoError(t, err)
	assert.Empty(t, s)

	_, err = ParseProposalStatus("passed")
	assert.ErrorContains(t, err, `unknown proposal status "passed"`)
}

func TestParseProposalType(t *testing.T) {
	typ, err := ParseProposalType(" Approval ")
	require.NoError(t, err)
	assert.Equal(t, ProposalTypeApproval, typ)

	_, err = ParseProposalType("ranked")
	assert.Error(t, err)
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, ProposalStatusExecuted.Terminal())
	assert.True(t, ProposalStatusVetoed.Terminal())
	assert.False(t, ProposalStatusQueued.Terminal())
	assert.False(t, ProposalStatusActive.Terminal())
}
