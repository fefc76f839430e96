package cli

import (
	"fmt"
	"strings"

	"github.com/ix-ath/shelf-sense/internal/delivery/view"
	"github.com/ix-ath/shelf-sense/internal/domain"
)

// renderResult draws the result card for a terminal
func renderResult(r *view.Result, theme domain.ThemeConfig) string {
	var b strings.Builder

	top := badgeStyle(r.Badge.Tone).Render(strings.ToUpper(r.Badge.Label))
	if r.ScoreLabel != "" {
		top += "  " + r.ScoreLabel
	}
	b.WriteString(top + "\n")
	b.WriteString(headingStyle.Render(r.Heading) + "\n")

	if r.Verified != nil {
		b.WriteString(verifiedStyle.Render("✓ "+r.Verified.Label) + " " + mutedStyle.Render(r.Verified.URI) + "\n")
	}

	b.WriteString("\n" + r.LocationDescription + "\n")

	if len(r.Chips) > 0 {
		chips := make([]string, len(r.Chips))
		for i, c := range r.Chips {
			chips[i] = "[" + c + "]"
		}
		b.WriteString(strings.Join(chips, " ") + "\n")
	}

	if m := r.Marker; m != nil {
		fmt.Fprintf(&b, "%s at top %g%%, left %g%% (%g%% x %g%%)\n",
			badgeStyle(m.Tone).Render(m.Label), m.Top, m.Left, m.Width, m.Height)
	}

	if len(r.Switcher) > 1 {
		entries := make([]string, len(r.Switcher))
		for i, e := range r.Switcher {
			label := fmt.Sprintf("%d: %s", e.Index, e.Label)
			if e.Active {
				label = selectedStyle.Render("> " + label)
			}
			entries[i] = label
		}
		b.WriteString("\n" + strings.Join(entries, "  |  ") + "\n")
	}

	d := r.Details
	if d.Reasoning != "" {
		b.WriteString("\n" + headingStyle.Render("Why") + "\n" + d.Reasoning + "\n")
	}
	if len(d.HealthHighlights) > 0 {
		b.WriteString("\n" + headingStyle.Render("Health") + "\n")
		for _, h := range d.HealthHighlights {
			b.WriteString("  • " + h + "\n")
		}
	}
	if d.NutritionalComparison != "" {
		b.WriteString(mutedStyle.Render(d.NutritionalComparison) + "\n")
	}
	if d.ShowStats {
		fmt.Fprintf(&b, "\nItems analyzed: %d  Alternatives: %d\n", d.DetectedItemCount, d.AlternativeCount)
		for _, c := range d.RejectedCandidates {
			b.WriteString(rejectedStyle.Render("  ✗ "+c.Name) + ": " + c.ReasonExcluded + "\n")
		}
	}

	return cardStyle(theme).Render(strings.TrimRight(b.String(), "\n"))
}
