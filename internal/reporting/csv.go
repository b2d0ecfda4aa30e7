package reporting

import (
	"fmt"
	"strings"

	"x4-ledger/internal/domain"
)

// RenderAggregatesCSV renders aggregates as CSV string.
func RenderAggregatesCSV(aggs []domain.Aggregate) string {
	var sb strings.Builder

	sb.WriteString("entity_id,entity_type,class,name,code,commander_name,default_order,value,revenue,cost,volume,margin\n")

	for _, a := range aggs {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%s,%s,%.0f,%.0f,%.0f,%.0f,%.4f\n",
			csvField(a.EntityID),
			csvField(a.EntityType),
			csvField(string(a.Class)),
			csvField(a.Name),
			csvField(a.Code),
			csvField(a.CommanderName),
			csvField(strOrEmpty(a.DefaultOrder)),
			a.Value,
			a.Revenue,
			a.Cost,
			a.Volume,
			a.Margin,
		))
	}

	return sb.String()
}

// RenderLedgerCSV renders raw ledger rows as CSV string.
func RenderLedgerCSV(rows []domain.LedgerRow) string {
	var sb strings.Builder

	sb.WriteString("entity_id,class,name,code,commander_name,time,hours_since_event,ware,value,revenue,cost,volume\n")

	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%.2f,%d,%s,%.2f,%.2f,%.2f,%.2f\n",
			csvField(r.EntityID),
			csvField(string(r.Class)),
			csvField(r.Name),
			csvField(r.Code),
			csvField(r.CommanderName),
			r.Time,
			r.HoursSinceEvent,
			csvField(r.Ware),
			r.Value,
			r.Revenue,
			r.Cost,
			r.Volume,
		))
	}

	return sb.String()
}

// csvField quotes a value when it contains a separator. Ship names are
// player-chosen and can contain anything.
func csvField(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
