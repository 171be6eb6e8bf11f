package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/maxviazov/winmix-match-service/internal/model"
)

// UTF8BOM prefixes every export so spreadsheet tools pick up the encoding of accented names.
const UTF8BOM = "\uFEFF"

// Column describes one exported column. Format, when set, turns the raw field value
// into text; nil values are always written as an empty quoted field.
type Column struct {
	Key    string
	Label  string
	Format func(v any) string
}

// ToCSV renders matches with a header row. Every field is quoted with inner quotes doubled,
// fields are comma separated and rows newline separated. An empty input yields the header only.
func ToCSV(matches []model.Match, columns []Column) string {
	var b strings.Builder
	b.WriteString(UTF8BOM)

	for i, col := range columns {
		if i > 0 {
			b.WriteByte(',')
		}
		writeQuoted(&b, col.Label)
	}

	for _, m := range matches {
		b.WriteByte('\n')
		for i, col := range columns {
			if i > 0 {
				b.WriteByte(',')
			}
			v, _ := FieldValue(m, col.Key)
			if v == nil {
				b.WriteString(`""`)
				continue
			}
			if col.Format != nil {
				writeQuoted(&b, col.Format(v))
				continue
			}
			writeQuoted(&b, fmt.Sprint(v))
		}
	}
	return b.String()
}

func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('"')
	b.WriteString(strings.ReplaceAll(s, `"`, `""`))
	b.WriteByte('"')
}

// FieldValue exposes a match field by export key. Unknown keys report false and a nil value.
func FieldValue(m model.Match, key string) (any, bool) {
	switch key {
	case "id":
		return m.ID, true
	case "homeTeam":
		return m.HomeTeam, true
	case "awayTeam":
		return m.AwayTeam, true
	case "halfTimeScore":
		return Scoreline(m.HalfTimeHomeGoals, m.HalfTimeAwayGoals), true
	case "fullTimeScore":
		return Scoreline(m.FullTimeHomeGoals, m.FullTimeAwayGoals), true
	case "result":
		return m.Result, true
	case "btts":
		return m.BothTeamsScored, true
	case "comeback":
		return m.Comeback, true
	case "date":
		if m.Date.IsZero() {
			return nil, true
		}
		return m.Date, true
	case "league":
		return optional(m.League), true
	case "season":
		return optional(m.Season), true
	default:
		return nil, false
	}
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// DefaultColumns is the Hungarian export layout used by the dashboard.
func DefaultColumns() []Column {
	return []Column{
		{Key: "homeTeam", Label: "Hazai csapat"},
		{Key: "awayTeam", Label: "Vendég csapat"},
		{Key: "halfTimeScore", Label: "Félidő"},
		{Key: "fullTimeScore", Label: "Végeredmény"},
		{Key: "result", Label: "Eredmény", Format: formatOutcome},
		{Key: "btts", Label: "Mindkét csapat gólt szerzett", Format: formatYesNo},
		{Key: "comeback", Label: "Fordítás", Format: formatYesNo},
		{Key: "date", Label: "Dátum", Format: formatDate},
		{Key: "league", Label: "Liga"},
		{Key: "season", Label: "Szezon"},
	}
}

func formatOutcome(v any) string {
	switch v {
	case model.OutcomeHome:
		return "Hazai"
	case model.OutcomeAway:
		return "Vendég"
	case model.OutcomeDraw:
		return "Döntetlen"
	default:
		return fmt.Sprint(v)
	}
}

func formatYesNo(v any) string {
	if b, ok := v.(bool); ok && b {
		return "Igen"
	}
	return "Nem"
}

func formatDate(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.Format(time.DateOnly)
	}
	return fmt.Sprint(v)
}
