package main

import (
	"fmt"
	"io"
	"strings"
)

// OutputFormatter renders a QueryResult for the CLI.
type OutputFormatter interface {
	FormatResult(result *QueryResult) string
}

// ConsoleFormatter renders rows as pipe-separated columns, one row per
// line: no header row, no trailing column separator.
type ConsoleFormatter struct {
	io.Writer
}

// NewConsoleFormatter creates a console formatter writing to w.
func NewConsoleFormatter(w io.Writer) *ConsoleFormatter {
	return &ConsoleFormatter{Writer: w}
}

// FormatResult renders a count result as a single decimal line, or a
// column-list result as one pipe-joined line per row. An aggregate result
// for an unrecognized function name renders nothing.
func (cf *ConsoleFormatter) FormatResult(result *QueryResult) string {
	if result.NoAggOut {
		return ""
	}
	if result.IsCount {
		return fmt.Sprintf("%d\n", result.Count)
	}

	var b strings.Builder
	for _, row := range result.Rows {
		b.WriteString(strings.Join(row.values, "|"))
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteResult renders result and writes it to the formatter's underlying
// writer.
func (cf *ConsoleFormatter) WriteResult(result *QueryResult) error {
	_, err := io.WriteString(cf.Writer, cf.FormatResult(result))
	return err
}
