package render

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/voteagora/agora-tally/internal/domain/models"
)

// Color styles shared by the renderers
var (
	headerStyle   = color.New(color.Bold, color.FgHiWhite)
	labelStyle    = color.New(color.Faint)
	idStyle       = color.New(color.FgBlue)
	typeStyle     = color.New(color.FgYellow)
	approvedStyle = color.New(color.FgGreen)
	rejectedStyle = color.New(color.FgRed)
)

var statusStyles = map[models.ProposalStatus]*color.Color{
	models.ProposalStatusPending:   color.New(color.FgWhite),
	models.ProposalStatusActive:    color.New(color.FgCyan, color.Bold),
	models.ProposalStatusSucceeded: color.New(color.FgGreen, color.Bold),
	models.ProposalStatusDefeated:  color.New(color.FgRed, color.Bold),
	models.ProposalStatusQueued:    color.New(color.FgYellow),
	models.ProposalStatusExecuted:  color.New(color.FgGreen),
	models.ProposalStatusCancelled: color.New(color.Faint),
	models.ProposalStatusExpired:   color.New(color.Faint),
	models.ProposalStatusVetoed:    color.New(color.FgMagenta, color.Bold),
}

// FormatStatus colors a status label
func FormatStatus(status models.ProposalStatus, label string) string {
	if style, ok := statusStyles[status]; ok {
		return style.Sprint(label)
	}
	return label
}

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(msg string) string {
	// Capitalize first letter
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// FormatTokens renders a base-unit amount as whole tokens with digit
// grouping and two truncated decimals, e.g. "1,234,567.89".
func FormatTokens(amount string, decimals int) string {
	if amount == "" {
		return "-"
	}
	v, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		return amount
	}
	p := message.NewPrinter(language.English)
	if decimals <= 0 {
		return groupDigits(p, v)
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, rem := new(big.Int).QuoRem(v, scale, new(big.Int))
	cents := rem.Mul(rem, big.NewInt(100))
	cents.Quo(cents, scale)
	return fmt.Sprintf("%s.%02d", groupDigits(p, whole), cents.Int64())
}

func groupDigits(p *message.Printer, v *big.Int) string {
	if v.IsInt64() {
		return p.Sprintf("%d", v.Int64())
	}
	return v.String()
}

// FormatPercent renders a percentage with two decimals
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.2f%%", pct)
}

// ShortID abbreviates long decimal proposal ids for tables
func ShortID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:8] + "…" + id[len(id)-6:]
}

func yesNo(ok bool, yes, no string) string {
	if ok {
		return approvedStyle.Sprint(yes)
	}
	return rejectedStyle.Sprint(no)
}
