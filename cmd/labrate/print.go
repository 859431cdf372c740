package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"craftlab.ai/internal/crafting/lab"
	"craftlab.ai/internal/crafting/stats"
)

// printRows writes one table per experiment line. Stat columns follow game
// order and only show the stats the line's class constrains.
func printRows(out io.Writer, rows []lab.Row) error {
	for _, group := range lab.Group(rows) {
		head := group[0]
		l := head.Line
		fmt.Fprintf(out, "\n%s  [%s]  %s\n", l.Name(), l.Class.Token(), l.Weights)
		if len(group) == 1 {
			fmt.Fprintln(out, "  (no candidates)")
			continue
		}

		var cols []stats.Stat
		for _, s := range stats.GameOrder() {
			if l.Class.Has(s) {
				cols = append(cols, s)
			}
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
		hdr := []string{"#", "stock", "score", "id", "name", "class"}
		for _, s := range cols {
			hdr = append(hdr, s.String())
		}
		fmt.Fprintln(tw, strings.Join(hdr, "\t")+"\t")
		for i, r := range group[1:] {
			mark := r.Marker.String()
			if r.Marker.Highlighted() {
				mark = "*" + mark
			}
			cells := []string{
				strconv.Itoa(i + 1),
				mark,
				strconv.FormatFloat(r.Score, 'f', 1, 64),
				strconv.FormatInt(r.Resource.ID, 10),
				r.Resource.Name,
				r.Resource.Class.Token(),
			}
			for _, s := range cols {
				cells = append(cells, strconv.Itoa(r.Resource.Stats.Value(s)))
			}
			fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
