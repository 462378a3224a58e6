package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column describes one column of a listing table
type column struct {
	Header   string
	Align    text.Align
	WidthMax int
}

var (
	cardColumns = []column{
		{Header: "#", Align: text.AlignRight},
		{Header: "ID"},
		{Header: "Name", WidthMax: 32},
		{Header: "Author", WidthMax: 20},
		{Header: ""},
		{Header: "Description", WidthMax: 60},
	}
	categoryColumns = []column{
		{Header: "Name"},
		{Header: "Display", WidthMax: 40},
		{Header: "Cards", Align: text.AlignRight},
	}
	entryColumns = []column{
		{Header: "File"},
		{Header: "Name", WidthMax: 32},
		{Header: "Summary", WidthMax: 50},
	}
)

// renderTable lays rows out under columns. Short rows are padded and cells
// wider than WidthMax wrap at word boundaries.
func renderTable(columns []column, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.Header
		configs[i] = table.ColumnConfig{
			Number:           i + 1,
			Align:            col.Align,
			AlignHeader:      text.AlignLeft,
			WidthMax:         col.WidthMax,
			WidthMaxEnforcer: text.WrapSoft,
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range r {
			r[i] = ""
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}
