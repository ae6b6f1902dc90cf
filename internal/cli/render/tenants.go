package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/voteagora/agora-tally/internal/usecase"
)

// TenantsRenderer renders configured tenants
type TenantsRenderer struct {
	out io.Writer
}

// NewTenantsRenderer creates a new tenants renderer
func NewTenantsRenderer(out io.Writer) *TenantsRenderer {
	return &TenantsRenderer{out: out}
}

func (r *TenantsRenderer) Render(result *usecase.ListTenantsResult) error {
	if len(result.Tenants) == 0 {
		fmt.Fprintln(r.out, "No tenants configured")
		return nil
	}

	fmt.Fprintf(r.out, "🏛️  Tenants %s\n\n", labelStyle.Sprintf("(from %s)", result.Source))

	t := newTable()
	t.AppendHeader(table.Row{"", "NAMESPACE", "NAME", "CHAIN", "QUORUM", "TIMING", "RPC"})
	for _, tenant := range result.Tenants {
		marker := ""
		if tenant.Namespace == result.Current {
			marker = approvedStyle.Sprint("▸")
		}
		timing := "blocks"
		if tenant.UseTimestamps {
			timing = "timestamps"
		}
		rpc := yesNo(tenant.RPCURL != "", "✓", "✗")
		t.AppendRow(table.Row{marker, tenant.Namespace, tenant.Name, tenant.ChainID, tenant.QuorumStrategy, timing, rpc})
	}
	t.SetColumnConfigs(nil)
	fmt.Fprintln(r.out, t.Render())
	return nil
}
