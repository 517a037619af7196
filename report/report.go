// Package report - renders an evaluation aggregate for terminals and disk.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ui-lab/go-detect-eval/evaluation"
)

// WriteTable renders the aggregate as a fixed-width, pipe-delimited table.
// Rates are shown as percentages with 2 decimal digits; the display rounding
// never touches the aggregate itself.
func WriteTable(w io.Writer, agg *evaluation.Aggregate) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	fmt.Fprintln(tw, "Tag\t| GT Count\t| Pred Count\t| TP\t| FP\t| FN\t| Precision\t| Recall\t| F1-Score")
	for _, c := range agg.Categories {
		writeRow(tw, string(c), agg.PerCategory[c])
	}
	writeRow(tw, "Overall", agg.Overall)

	return tw.Flush()
}

func writeRow(w io.Writer, tag string, m evaluation.Metrics) {
	fmt.Fprintf(w, "%s\t| %d\t| %d\t| %d\t| %d\t| %d\t| %.2f%%\t| %.2f%%\t| %.2f%%\n",
		tag,
		m.GroundTruthCount,
		m.PredictedCount,
		m.TruePositives,
		m.FalsePositives,
		m.FalseNegatives,
		m.Precision*100,
		m.Recall*100,
		m.F1Score*100,
	)
}
