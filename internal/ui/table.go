package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

// Table renders rows in aligned columns. Cells may contain styled text;
// widths are measured without escape sequences.
type Table struct {
	out     io.Writer
	color   bool
	headers []string
	rows    [][]string
}

// Table creates a table printing to the console's output.
func (c *Console) Table(headers ...string) *Table {
	return &Table{out: c.out, color: c.color, headers: headers}
}

// NewTable creates a plain table writing to out.
func NewTable(out io.Writer, headers ...string) *Table {
	return &Table{out: out, headers: headers}
}

// Row appends a row of values.
func (t *Table) Row(values ...any) {
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = fmt.Sprint(v)
	}
	t.rows = append(t.rows, row)
}

// Flush writes the header and all rows.
func (t *Table) Flush() error {
	widths := make([]int, len(t.headers))
	measure := func(row []string) {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	measure(t.headers)
	for _, r := range t.rows {
		measure(r)
	}

	header := t.format(t.headers, widths)
	if t.color {
		header = headerStyle.Render(header)
	}
	if _, err := fmt.Fprintln(t.out, header); err != nil {
		return err
	}
	for _, r := range t.rows {
		if _, err := fmt.Fprintln(t.out, t.format(r, widths)); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) format(row []string, widths []int) string {
	var b strings.Builder
	for i, cell := range row {
		b.WriteString(cell)
		if i < len(row)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+2))
		}
	}
	return b.String()
}
