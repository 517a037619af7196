package evaluation

import (
	"github.com/ui-lab/go-detect-eval/labels"
	"github.com/ui-lab/go-detect-eval/matcher"
)

// EvaluatePair runs the matcher on a single ground-truth/prediction pair and
// returns the per-image aggregate. Both the interactive export path and the
// batch tool go through the same matcher; the only difference is how many
// results end up in the accumulator.
func EvaluatePair(gt, pred *labels.LabelSet, categories labels.CategorySet, iouThreshold float32) *Aggregate {
	acc := NewAccumulator(categories, iouThreshold)
	acc.Add(matcher.Match(gt, pred, categories, iouThreshold))

	agg := acc.Aggregate()
	agg.ImageFilename = gt.ImageFilename
	return agg
}
