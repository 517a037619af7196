// Package evaluation - folds match outcomes into precision/recall/F1 metrics.
package evaluation

import (
	"github.com/ui-lab/go-detect-eval/labels"
	"github.com/ui-lab/go-detect-eval/matcher"
)

// Counts holds the summed confusion counts for one category (or for the
// synthetic overall entry).
type Counts struct {
	TruePositives    int
	FalsePositives   int
	FalseNegatives   int
	GroundTruthCount int
	PredictedCount   int
}

func (c *Counts) add(o matcher.Outcome) {
	c.TruePositives += o.TruePositives()
	c.FalsePositives += o.FalsePositives()
	c.FalseNegatives += o.FalseNegatives()
	c.GroundTruthCount += o.GroundTruthCount()
	c.PredictedCount += o.PredictedCount()
}

func (c *Counts) merge(other Counts) {
	c.TruePositives += other.TruePositives
	c.FalsePositives += other.FalsePositives
	c.FalseNegatives += other.FalseNegatives
	c.GroundTruthCount += other.GroundTruthCount
	c.PredictedCount += other.PredictedCount
}

// Metrics couples summed counts with the rates derived from them.
type Metrics struct {
	Counts
	Precision float64
	Recall    float64
	F1Score   float64
}

// derive computes precision, recall, and F1 from the counts. Every
// denominator that would be zero yields a rate of exactly 0; the fold never
// divides by zero.
func derive(c Counts) Metrics {
	m := Metrics{Counts: c}
	if n := c.TruePositives + c.FalsePositives; n > 0 {
		m.Precision = float64(c.TruePositives) / float64(n)
	}
	if n := c.TruePositives + c.FalseNegatives; n > 0 {
		m.Recall = float64(c.TruePositives) / float64(n)
	}
	if s := m.Precision + m.Recall; s > 0 {
		m.F1Score = 2 * m.Precision * m.Recall / s
	}
	return m
}

// Aggregate is the final evaluation over one or more image pairs.
type Aggregate struct {
	// ImageFilename is set only for single-pair evaluations.
	ImageFilename string
	IoUThreshold  float32
	Images        int
	Categories    []labels.Category
	PerCategory   map[labels.Category]Metrics
	// Overall is recomputed from counts summed across all categories,
	// never averaged from per-category rates, so categories with few
	// samples cannot dominate it.
	Overall Metrics
}

// Accumulator folds per-image match results into an Aggregate. Summation is
// commutative and associative, so the fold produces identical output
// regardless of the order images are added in.
type Accumulator struct {
	categories labels.CategorySet
	threshold  float32
	counts     map[labels.Category]*Counts
	images     int
}

// NewAccumulator creates an empty accumulator over the given category set.
func NewAccumulator(categories labels.CategorySet, iouThreshold float32) *Accumulator {
	counts := make(map[labels.Category]*Counts, categories.Len())
	for _, c := range categories.List() {
		counts[c] = &Counts{}
	}
	return &Accumulator{
		categories: categories,
		threshold:  iouThreshold,
		counts:     counts,
	}
}

// Add folds one image pair's match result into the running totals.
func (a *Accumulator) Add(res matcher.Result) {
	for _, o := range res.Outcomes {
		if c, ok := a.counts[o.Category]; ok {
			c.add(o)
		}
	}
	a.images++
}

// Images returns the number of image pairs folded so far.
func (a *Accumulator) Images() int { return a.images }

// Aggregate derives the final per-category and overall metrics.
func (a *Accumulator) Aggregate() *Aggregate {
	agg := &Aggregate{
		IoUThreshold: a.threshold,
		Images:       a.images,
		Categories:   a.categories.List(),
		PerCategory:  make(map[labels.Category]Metrics, len(a.counts)),
	}
	var overall Counts
	for _, c := range agg.Categories {
		counts := *a.counts[c]
		agg.PerCategory[c] = derive(counts)
		overall.merge(counts)
	}
	agg.Overall = derive(overall)
	return agg
}
