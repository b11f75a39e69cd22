package cmd

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeTable renders rows under header as a left-aligned table.
func writeTable(writer io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewTable(writer,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
	)

	headerAny := make([]any, len(header))
	for i, column := range header {
		headerAny[i] = column
	}

	table.Header(headerAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, value := range row {
			rowAny[i] = value
		}

		err := table.Append(rowAny...)
		if err != nil {
			return fmt.Errorf("append table row: %w", err)
		}
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}

	return nil
}
