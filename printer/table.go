// Package printer renders command results for the terminal: aligned tables
// and (optionally colorized) JSON documents.
package printer

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

var headerColor = color.New(color.Bold)

// Table writes the given header and rows as an aligned, tab-separated table.
func Table(out io.Writer, header []string, rows [][]string) {
	w := tabwriter.NewWriter(out, 0, 4, 3, ' ', 0)

	fmt.Fprintln(w, headerColor.Sprint(strings.Join(header, "\t")))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}
