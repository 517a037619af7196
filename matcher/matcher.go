// Package matcher - greedy assignment between ground-truth and predicted labels.
package matcher

import (
	"github.com/ui-lab/go-detect-eval/geometry"
	"github.com/ui-lab/go-detect-eval/labels"
)

// DefaultIoUThreshold is the overlap a prediction must reach against a
// ground-truth box to count as a true positive.
const DefaultIoUThreshold float32 = 0.5

// Pair is one matched ground-truth/prediction couple. Indices refer to the
// original (unfiltered) label sets.
type Pair struct {
	GroundTruthIndex int
	PredictionIndex  int
	IoU              float32
}

// Outcome is the partition produced by matching one category of one image
// pair: matched pairs plus the leftover indices on either side. It is a plain
// value; the matcher never mutates shared state, so outcomes from different
// image pairs can be computed concurrently.
type Outcome struct {
	Category             labels.Category
	Pairs                []Pair
	UnmatchedGroundTruth []int
	UnmatchedPredictions []int
}

// TruePositives returns the number of matched pairs.
func (o Outcome) TruePositives() int { return len(o.Pairs) }

// FalsePositives returns the number of predictions left unmatched.
func (o Outcome) FalsePositives() int { return len(o.UnmatchedPredictions) }

// FalseNegatives returns the number of ground truths left unmatched.
func (o Outcome) FalseNegatives() int { return len(o.UnmatchedGroundTruth) }

// GroundTruthCount returns the total ground-truth boxes of this category.
// By construction it always equals TruePositives + FalseNegatives.
func (o Outcome) GroundTruthCount() int { return len(o.Pairs) + len(o.UnmatchedGroundTruth) }

// PredictedCount returns the total predicted boxes of this category.
// By construction it always equals TruePositives + FalsePositives.
func (o Outcome) PredictedCount() int { return len(o.Pairs) + len(o.UnmatchedPredictions) }

// Result holds the per-category outcomes for one image pair.
type Result struct {
	ImageFilename string
	Outcomes      []Outcome
}

// Match computes the greedy best-first assignment between a ground-truth and
// a prediction label set, independently for each category in the set.
//
// The assignment is deliberately greedy, not a globally optimal bipartite
// matching: ground-truth boxes are processed in their given order, each
// claims the not-yet-used prediction with the highest IoU (strict > when
// updating the best candidate, so ties keep the earliest prediction), and a
// claim at or above the threshold is never revisited. Reproducibility of
// this exact order-dependent behavior matters more than squeezing out the
// occasional extra true positive an optimal assignment would find.
func Match(gt, pred *labels.LabelSet, categories labels.CategorySet, iouThreshold float32) Result {
	res := Result{
		ImageFilename: gt.ImageFilename,
		Outcomes:      make([]Outcome, 0, categories.Len()),
	}
	for _, c := range categories.List() {
		res.Outcomes = append(res.Outcomes, matchCategory(gt, pred, c, iouThreshold))
	}
	return res
}

// matchCategory runs one greedy pass over the boxes of a single category.
func matchCategory(gt, pred *labels.LabelSet, c labels.Category, iouThreshold float32) Outcome {
	gtIdx := gt.FilterTag(c)
	predIdx := pred.FilterTag(c)

	out := Outcome{Category: c}
	used := make([]bool, len(predIdx))

	for _, gi := range gtIdx {
		gtBox := gt.Labels[gi].Box

		best := -1
		var bestIoU float32
		for j, pi := range predIdx {
			if used[j] {
				continue
			}
			iou := geometry.CalculateIoU(gtBox, pred.Labels[pi].Box)
			if iou > bestIoU {
				bestIoU = iou
				best = j
			}
		}

		if best >= 0 && bestIoU >= iouThreshold {
			used[best] = true
			out.Pairs = append(out.Pairs, Pair{
				GroundTruthIndex: gi,
				PredictionIndex:  predIdx[best],
				IoU:              bestIoU,
			})
			continue
		}
		out.UnmatchedGroundTruth = append(out.UnmatchedGroundTruth, gi)
	}

	for j, pi := range predIdx {
		if !used[j] {
			out.UnmatchedPredictions = append(out.UnmatchedPredictions, pi)
		}
	}
	return out
}
