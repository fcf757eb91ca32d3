package display

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/standardbeagle/shortform/internal/matcher"
	"github.com/standardbeagle/shortform/internal/types"
)

// MatchFormatter renders match results for a terminal or a pipe.
type MatchFormatter struct {
	options   FormatterOptions
	highlight func(a ...interface{}) string
	entity    func(a ...interface{}) string
	language  func(a ...interface{}) string
}

// FormatterOptions controls match formatting
type FormatterOptions struct {
	Format    string // "text", "json", "compact"
	Color     bool   // ANSI colour for highlights; brackets otherwise
	Indent    string // Indentation string
	OpenMark  string // highlight start when Color is off
	CloseMark string // highlight end when Color is off
}

// NewMatchFormatter creates a new match formatter
func NewMatchFormatter(options FormatterOptions) *MatchFormatter {
	if options.Indent == "" {
		options.Indent = "  "
	}
	if options.OpenMark == "" {
		options.OpenMark = "["
	}
	if options.CloseMark == "" {
		options.CloseMark = "]"
	}

	mf := &MatchFormatter{options: options}
	mf.highlight = colorFunc(options.Color, color.FgYellow, color.Bold)
	mf.entity = colorFunc(options.Color, color.FgCyan)
	mf.language = colorFunc(options.Color, color.Faint)
	return mf
}

// colorFunc returns a Sprint that always emits escapes when enabled,
// regardless of whether stdout is a terminal.
func colorFunc(enabled bool, attrs ...color.Attribute) func(a ...interface{}) string {
	if !enabled {
		return fmt.Sprint
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.SprintFunc()
}

// Format formats results for display
func (mf *MatchFormatter) Format(results []matcher.EntityMatches) string {
	switch mf.options.Format {
	case "json":
		return mf.formatJSON(results)
	case "compact":
		return mf.formatCompact(results)
	default:
		return mf.formatText(results)
	}
}

func (mf *MatchFormatter) formatText(results []matcher.EntityMatches) string {
	if len(results) == 0 {
		return "No matches\n"
	}

	var sb strings.Builder
	for _, em := range results {
		sb.WriteString(mf.entity(string(em.Entity)))
		sb.WriteString("\n")
		for _, m := range em.Matches {
			sb.WriteString(mf.options.Indent)
			sb.WriteString(mf.Highlight(m))
			sb.WriteString(" ")
			sb.WriteString(mf.language("(" + m.Language.Key() + ")"))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// formatCompact writes one tab separated line per match:
// entity, language key, short form, positions.
func (mf *MatchFormatter) formatCompact(results []matcher.EntityMatches) string {
	var sb strings.Builder
	for _, em := range results {
		for _, m := range em.Matches {
			spans := make([]string, len(m.Positions))
			for i, p := range m.Positions {
				spans[i] = fmt.Sprintf("%d-%d", p.Start, p.End)
			}
			fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\n", em.Entity, m.Language.Key(), m.ShortForm, strings.Join(spans, ","))
		}
	}
	return sb.String()
}

func (mf *MatchFormatter) formatJSON(results []matcher.EntityMatches) string {
	if results == nil {
		results = []matcher.EntityMatches{}
	}
	data, err := json.MarshalIndent(results, "", mf.options.Indent)
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(data) + "\n"
}

// Highlight returns the short form with its matched spans marked.
// Overlapping spans are marked once.
func (mf *MatchFormatter) Highlight(m types.ShortFormMatch) string {
	var sb strings.Builder
	last := 0
	for _, span := range MergePositions(m.Positions) {
		if span.Start < last || !span.Within(m.ShortForm) {
			continue
		}
		sb.WriteString(m.ShortForm[last:span.Start])
		if mf.options.Color {
			sb.WriteString(mf.highlight(span.Text(m.ShortForm)))
		} else {
			sb.WriteString(mf.options.OpenMark)
			sb.WriteString(span.Text(m.ShortForm))
			sb.WriteString(mf.options.CloseMark)
		}
		last = span.End
	}
	sb.WriteString(m.ShortForm[last:])
	return sb.String()
}

// MergePositions collapses sorted positions that overlap or touch into
// single spans, e.g. (0,3),(0,5),(5,8) becomes (0,8).
func MergePositions(positions []types.ShortFormMatchPosition) []types.ShortFormMatchPosition {
	if len(positions) == 0 {
		return nil
	}
	sorted := make([]types.ShortFormMatchPosition, len(positions))
	copy(sorted, positions)
	types.SortPositions(sorted)

	out := []types.ShortFormMatchPosition{sorted[0]}
	for _, p := range sorted[1:] {
		cur := &out[len(out)-1]
		if p.Start <= cur.End {
			if p.End > cur.End {
				cur.End = p.End
			}
			continue
		}
		out = append(out, p)
	}
	return out
}
