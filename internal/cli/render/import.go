package render

import (
	"fmt"
	"io"

	"github.com/voteagora/agora-tally/internal/usecase"
)

// ImportRenderer renders the outcome of a bundle import
type ImportRenderer struct {
	out io.Writer
}

// NewImportRenderer creates a new import renderer
func NewImportRenderer(out io.Writer) *ImportRenderer {
	return &ImportRenderer{out: out}
}

func (r *ImportRenderer) Render(result *usecase.ImportBundleResult) error {
	msg := fmt.Sprintf("Imported %d proposals and %d votes into %s", result.Proposals, result.Votes, result.Tenant)
	if result.DryRun {
		msg = fmt.Sprintf("Validated %d proposals and %d votes for %s (dry run, nothing written)", result.Proposals, result.Votes, result.Tenant)
	}
	fmt.Fprintln(r.out, FormatSuccess(msg))
	if result.Supply != "" {
		fmt.Fprintf(r.out, "   Votable supply: %s\n", result.Supply)
	}
	return nil
}
