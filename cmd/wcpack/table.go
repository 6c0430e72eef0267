package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"wcpack/internal/manifest"
	"wcpack/internal/registry"
)

// renderComponentTable lists entries in the given order with the version kind
// reported by registry.ClassifyVersion.
func renderComponentTable(entries []manifest.Entry) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Component", "Version", "Kind"})
	for _, entry := range entries {
		tw.AppendRow(table.Row{entry.Name, entry.Version, registry.ClassifyVersion(entry.Version)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Version", Align: text.AlignLeft, WidthMax: 40},
	})
	tw.SetCaption("%d component(s)", len(entries))
	return tw.Render()
}
