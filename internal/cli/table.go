package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// fieldTable lists settings as aligned columns. Every row must have as many
// cells as there are headers.
type fieldTable struct {
	headers []string
	rows    [][]string
}

func newFieldTable(headers ...string) *fieldTable {
	return &fieldTable{headers: headers}
}

func (t *fieldTable) add(cells ...string) {
	if len(cells) != len(t.headers) {
		panic(fmt.Sprintf("field table row has %d cells, want %d", len(cells), len(t.headers)))
	}
	t.rows = append(t.rows, cells)
}

func (t *fieldTable) write(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(t.headers, "\t"))
	for _, row := range t.rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func formatOnOff(value bool) string {
	if value {
		return "on"
	}
	return "off"
}
