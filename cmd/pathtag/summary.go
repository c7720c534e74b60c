package main

import (
	"strings"
	"time"

	"github.com/handiism/pathtag/internal/batch"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// maxErrorWidth wraps long error messages in the failures table.
const maxErrorWidth = 60

// renderSummary formats the run counts and, when any file failed, a second
// table listing each failure.
func renderSummary(s *batch.Summary) string {
	out := renderCounts(s)
	if len(s.Failures) == 0 {
		return out
	}

	var b strings.Builder
	b.WriteString(out)
	b.WriteString("\n")
	b.WriteString(renderFailures(s.Failures))
	return b.String()
}

func renderCounts(s *batch.Summary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Files", "Count"})
	tw.AppendRows([]table.Row{
		{"Discovered", s.Discovered},
		{"Written", s.Written},
		{"Dry run", s.DryRun},
		{"Skipped", s.Skipped},
		{"Failed", s.Failed},
	})
	tw.AppendFooter(table.Row{"Elapsed", s.Elapsed.Round(time.Millisecond).String()})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	return tw.Render()
}

func renderFailures(failures []batch.Failure) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Path", "Error"})
	for _, f := range failures {
		tw.AppendRow(table.Row{f.Path, f.Err.Error()})
	}
	// Workers finish in any order.
	tw.SortBy([]table.SortBy{{Number: 1, Mode: table.Asc}})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: maxErrorWidth},
	})
	return tw.Render()
}
