// Package render formats report trees for terminal output.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/eykd/cukereport/internal/report"
)

// TableOptions controls Table output.
type TableOptions struct {
	Title     string
	ShowHooks bool // include hidden hook steps
	Color     bool // color the status column
}

// Table renders r as an ASCII table with one row per feature, scenario and
// step, in tree order.
func Table(r *report.Report, opts TableOptions) string {
	var buf bytes.Buffer

	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.SetTitle(opts.Title)
	t.AppendHeader(table.Row{"Type", "Name", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Type", AutoMerge: true},
		{Name: "Name", WidthMax: 120, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, f := range r.Features {
		t.AppendRow(table.Row{"Feature", displayName(f.Keyword, f.Name), ""})
		for _, s := range f.Elements {
			t.AppendRow(table.Row{"Scenario", fmt.Sprintf("├── %s", s.Name), ""})
			for _, st := range s.Steps {
				if st.Hidden && !opts.ShowHooks {
					continue
				}
				kind := "Step"
				if st.Hidden {
					kind = "Hook"
				}
				t.AppendRow(table.Row{
					kind,
					fmt.Sprintf("│   ├── %s", displayName(st.Keyword, st.Name)),
					statusString(st.Result.Status, opts.Color),
				})
			}
		}
		t.AppendSeparator()
	}

	t.SetStyle(table.StyleLight)
	t.Render()
	return buf.String()
}

func displayName(keyword, name string) string {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return name
	}
	return keyword + " " + name
}

func statusString(status string, color bool) string {
	if status == "" {
		status = "unknown"
	}
	if !color {
		return status
	}
	switch status {
	case "passed":
		return text.FgGreen.Sprint(status)
	case "failed":
		return text.FgRed.Sprint(status)
	case "skipped", "pending":
		return text.FgYellow.Sprint(status)
	default:
		return status
	}
}
