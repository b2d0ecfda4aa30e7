package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Economy Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Savegame: %s\n\n", r.SourcePath))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Game Time (hours) | %.2f |\n", r.GameTimeHours))
	sb.WriteString(fmt.Sprintf("| Player Entities | %d |\n", r.EntityCount))
	sb.WriteString(fmt.Sprintf("| Ledger Rows | %d |\n", r.LedgerRowCount))
	sb.WriteString(fmt.Sprintf("| Skipped Log Entries | %d |\n", r.SkippedEntries))
	sb.WriteString(fmt.Sprintf("| Total Profit | %.0f |\n", r.TotalProfit))
	sb.WriteString("\n")

	sb.WriteString("## Per Commander\n\n")
	sb.WriteString("| Commander | Value | Revenue | Cost | Volume | Margin |\n")
	sb.WriteString("|-----------|-------|---------|------|--------|--------|\n")
	for _, a := range r.PerCommander {
		sb.WriteString(fmt.Sprintf("| %s | %.0f | %.0f | %.0f | %.0f | %.4f |\n",
			a.CommanderName, a.Value, a.Revenue, a.Cost, a.Volume, a.Margin))
	}
	sb.WriteString("\n")

	sb.WriteString("## Per Entity\n\n")
	sb.WriteString("| Name | Code | Class | Commander | Order | Value | Revenue | Cost | Volume | Margin |\n")
	sb.WriteString("|------|------|-------|-----------|-------|-------|---------|------|--------|--------|\n")
	for _, a := range r.PerEntity {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %.0f | %.0f | %.0f | %.0f | %.4f |\n",
			a.Name, a.Code, a.Class, a.CommanderName, strOrEmpty(a.DefaultOrder),
			a.Value, a.Revenue, a.Cost, a.Volume, a.Margin))
	}
	sb.WriteString("\n")

	sb.WriteString("## Idle Traders and Miners\n\n")
	if len(r.IdleAssets) == 0 {
		sb.WriteString("None. Every tasked ship produced value.\n")
	} else {
		sb.WriteString("| Name | Code | Class | Order |\n")
		sb.WriteString("|------|------|-------|-------|\n")
		for _, a := range r.IdleAssets {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				a.Name, a.Code, a.Class, strOrEmpty(a.DefaultOrder)))
		}
	}
	sb.WriteString("\n")

	return sb.String()
}
