package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"

	"github.com/voteagora/agora-tally/internal/domain/config"
	"github.com/voteagora/agora-tally/internal/domain/models"
	"github.com/voteagora/agora-tally/internal/usecase"
)

const maxDescription = 60

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectProposal lets the user pick one of the given proposals
func (s *SelectorAdapter) SelectProposal(ctx context.Context, proposals []*models.Proposal) (*models.Proposal, error) {
	// In non-interactive mode, we can't select
	if s.config.NonInteractive {
		return nil, fmt.Errorf("interactive selection not available in non-interactive mode")
	}

	if len(proposals) == 0 {
		return nil, fmt.Errorf("no proposals to select from")
	}

	if len(proposals) == 1 {
		return proposals[0], nil
	}

	options := formatProposalOptions(proposals)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Type to search, arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             "Select a proposal",
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(plainProposalOptions(proposals)),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return proposals[index], nil
}

// formatProposalOptions renders "[TYPE] description (id)" lines
func formatProposalOptions(proposals []*models.Proposal) []string {
	options := make([]string, len(proposals))
	for i, p := range proposals {
		typeStr := color.New(color.FgYellow).Sprintf("[%s]", p.Type)
		title := color.New(color.FgWhite, color.Bold).Sprint(title(p))
		idStr := color.New(color.FgBlue).Sprint(p.ID)
		options[i] = fmt.Sprintf("%s %s (%s)", typeStr, title, idStr)
	}
	return options
}

// plainProposalOptions is the uncolored text the searcher matches against
func plainProposalOptions(proposals []*models.Proposal) []string {
	options := make([]string, len(proposals))
	for i, p := range proposals {
		options[i] = fmt.Sprintf("[%s] %s (%s)", p.Type, title(p), p.ID)
	}
	return options
}

// title is the first line of the description, truncated for display
func title(p *models.Proposal) string {
	line, _, _ := strings.Cut(strings.TrimSpace(p.Description), "\n")
	line = strings.TrimLeft(line, "# ")
	if line == "" {
		return "(no description)"
	}
	if r := []rune(line); len(r) > maxDescription {
		return string(r[:maxDescription-1]) + "…"
	}
	return line
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		// Empty search shows all items
		if input == "" {
			return true
		}

		// Convert to lowercase for case-insensitive search
		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		// First try simple substring match
		if strings.Contains(item, input) {
			return true
		}

		// Then try fuzzy match
		pattern := fuzzy.Find(input, []string{item})
		return len(pattern) > 0
	}
}

// Ensure the adapter implements the interface
var _ usecase.ProposalSelector = (*SelectorAdapter)(nil)
