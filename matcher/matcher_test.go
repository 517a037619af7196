package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ui-lab/go-detect-eval/geometry"
	"github.com/ui-lab/go-detect-eval/labels"
)

var testCategories = labels.NewCategorySet("Button", "Input", "Radio", "Dropdown")

func buttonSet(boxes ...geometry.Rect) *labels.LabelSet {
	ls := &labels.LabelSet{ImageFilename: "test.png"}
	for _, b := range boxes {
		ls.Labels = append(ls.Labels, labels.Label{Tag: "Button", Box: b})
	}
	return ls
}

func outcomeFor(t *testing.T, res Result, c labels.Category) Outcome {
	t.Helper()
	for _, o := range res.Outcomes {
		if o.Category == c {
			return o
		}
	}
	t.Fatalf("no outcome for category %s", c)
	return Outcome{}
}

func TestMatch_PerfectOverlap(t *testing.T) {
	gt := buttonSet(geometry.Rect{X1: 0, Y1: 0, X2: 100, Y2: 100})
	pred := buttonSet(geometry.Rect{X1: 0, Y1: 0, X2: 100, Y2: 100})

	o := outcomeFor(t, Match(gt, pred, testCategories, DefaultIoUThreshold), "Button")
	assert.Equal(t, 1, o.TruePositives())
	assert.Equal(t, 0, o.FalsePositives())
	assert.Equal(t, 0, o.FalseNegatives())
	require.Len(t, o.Pairs, 1)
	assert.Equal(t, float32(1.0), o.Pairs[0].IoU)
}

func TestMatch_NoOverlap(t *testing.T) {
	gt := buttonSet(geometry.Rect{X1: 0, Y1: 0, X2: 100, Y2: 100})
	pred := buttonSet(geometry.Rect{X1: 200, Y1: 200, X2: 300, Y2: 300})

	o := outcomeFor(t, Match(gt, pred, testCategories, DefaultIoUThreshold), "Button")
	assert.Equal(t, 0, o.TruePositives())
	assert.Equal(t, 1, o.FalsePositives())
	assert.Equal(t, 1, o.FalseNegatives())
}

func TestMatch_BelowThreshold(t *testing.T) {
	// intersection 2500, union 17500, IoU ≈ 0.1429 — under 0.5.
	gt := buttonSet(geometry.Rect{X1: 0, Y1: 0, X2: 100, Y2: 100})
	pred := buttonSet(geometry.Rect{X1: 50, Y1: 50, X2: 150, Y2: 150})

	o := outcomeFor(t, Match(gt, pred, testCategories, DefaultIoUThreshold), "Button")
	assert.Equal(t, 0, o.TruePositives())
	assert.Equal(t, 1, o.FalsePositives())
	assert.Equal(t, 1, o.FalseNegatives())
}

func TestMatch_EmptySides(t *testing.T) {
	full := buttonSet(
		geometry.Rect{X1: 0, Y1: 0, X2: 100, Y2: 100},
		geometry.Rect{X1: 200, Y1: 0, X2: 300, Y2: 100},
	)
	empty := &labels.LabelSet{ImageFilename: "test.png"}

	t.Run("Empty ground truth", func(t *testing.T) {
		o := outcomeFor(t, Match(empty, full, testCategories, DefaultIoUThreshold), "Button")
		assert.Equal(t, 0, o.TruePositives())
		assert.Equal(t, 2, o.FalsePositives())
		assert.Equal(t, 0, o.FalseNegatives())
	})

	t.Run("Empty predictions", func(t *testing.T) {
		o := outcomeFor(t, Match(full, empty, testCategories, DefaultIoUThreshold), "Button")
		assert.Equal(t, 0, o.TruePositives())
		assert.Equal(t, 0, o.FalsePositives())
		assert.Equal(t, 2, o.FalseNegatives())
	})

	t.Run("Both empty", func(t *testing.T) {
		res := Match(empty, empty, testCategories, DefaultIoUThreshold)
		for _, o := range res.Outcomes {
			assert.Zero(t, o.TruePositives())
			assert.Zero(t, o.FalsePositives())
			assert.Zero(t, o.FalseNegatives())
		}
	})
}

// TestMatch_GreedyOrderWins pins the greedy, not globally optimal, behavior:
// the first ground-truth box claims the shared prediction even though the
// second ground-truth box overlaps it more.
func TestMatch_GreedyOrderWins(t *testing.T) {
	gt := buttonSet(
		geometry.Rect{X1: 0, Y1: 0, X2: 100, Y2: 100},  // IoU ~0.818 with pred[0]
		geometry.Rect{X1: 10, Y1: 0, X2: 110, Y2: 100}, // IoU 1.0 with pred[0]
	)
	pred := buttonSet(
		geometry.Rect{X1: 10, Y1: 0, X2: 110, Y2: 100},
		geometry.Rect{X1: 400, Y1: 400, X2: 500, Y2: 500},
	)

	o := outcomeFor(t, Match(gt, pred, testCategories, DefaultIoUThreshold), "Button")
	require.Len(t, o.Pairs, 1)
	assert.Equal(t, 0, o.Pairs[0].GroundTruthIndex, "first ground-truth box processed first must win")
	assert.Equal(t, 0, o.Pairs[0].PredictionIndex)
	assert.Equal(t, []int{1}, o.UnmatchedGroundTruth)
	assert.Equal(t, []int{1}, o.UnmatchedPredictions)
}

// TestMatch_TieKeepsEarliestPrediction pins the strict-> comparison: two
// predictions with identical IoU against a ground-truth box resolve to the
// one earlier in prediction order.
func TestMatch_TieKeepsEarliestPrediction(t *testing.T) {
	gt := buttonSet(geometry.Rect{X1: 0, Y1: 0, X2: 100, Y2: 100})
	pred := buttonSet(
		geometry.Rect{X1: 0, Y1: 0, X2: 100, Y2: 100},
		geometry.Rect{X1: 0, Y1: 0, X2: 100, Y2: 100},
	)

	o := outcomeFor(t, Match(gt, pred, testCategories, DefaultIoUThreshold), "Button")
	require.Len(t, o.Pairs, 1)
	assert.Equal(t, 0, o.Pairs[0].PredictionIndex)
	assert.Equal(t, []int{1}, o.UnmatchedPredictions)
}

func TestMatch_CategoriesIndependent(t *testing.T) {
	// Same geometry, different tags: never matched across categories.
	gt := &labels.LabelSet{Labels: []labels.Label{
		{Tag: "Button", Box: geometry.Rect{X1: 0, Y1: 0, X2: 100, Y2: 100}},
	}}
	pred := &labels.LabelSet{Labels: []labels.Label{
		{Tag: "Input", Box: geometry.Rect{X1: 0, Y1: 0, X2: 100, Y2: 100}},
	}}

	res := Match(gt, pred, testCategories, DefaultIoUThreshold)
	button := outcomeFor(t, res, "Button")
	input := outcomeFor(t, res, "Input")
	assert.Equal(t, 0, button.TruePositives())
	assert.Equal(t, 1, button.FalseNegatives())
	assert.Equal(t, 0, input.TruePositives())
	assert.Equal(t, 1, input.FalsePositives())
}

func TestMatch_PredictionMatchedAtMostOnce(t *testing.T) {
	// Two ground-truth boxes both overlap the single prediction above
	// threshold; only one may claim it.
	gt := buttonSet(
		geometry.Rect{X1: 0, Y1: 0, X2: 100, Y2: 100},
		geometry.Rect{X1: 5, Y1: 5, X2: 105, Y2: 105},
	)
	pred := buttonSet(geometry.Rect{X1: 0, Y1: 0, X2: 100, Y2: 100})

	o := outcomeFor(t, Match(gt, pred, testCategories, DefaultIoUThreshold), "Button")
	assert.Equal(t, 1, o.TruePositives())
	assert.Equal(t, 0, o.FalsePositives())
	assert.Equal(t, 1, o.FalseNegatives())
}

// TestMatch_Invariants checks the count identities over a spread of inputs.
func TestMatch_Invariants(t *testing.T) {
	cases := []struct {
		name string
		gt   *labels.LabelSet
		pred *labels.LabelSet
	}{
		{
			name: "Mixed overlap",
			gt: buttonSet(
				geometry.Rect{X1: 0, Y1: 0, X2: 100, Y2: 100},
				geometry.Rect{X1: 200, Y1: 200, X2: 300, Y2: 300},
				geometry.Rect{X1: 400, Y1: 400, X2: 500, Y2: 500},
			),
			pred: buttonSet(
				geometry.Rect{X1: 5, Y1: 5, X2: 105, Y2: 105},
				geometry.Rect{X1: 600, Y1: 600, X2: 700, Y2: 700},
			),
		},
		{
			name: "More predictions than ground truth",
			gt:   buttonSet(geometry.Rect{X1: 0, Y1: 0, X2: 50, Y2: 50}),
			pred: buttonSet(
				geometry.Rect{X1: 0, Y1: 0, X2: 50, Y2: 50},
				geometry.Rect{X1: 0, Y1: 0, X2: 50, Y2: 50},
				geometry.Rect{X1: 100, Y1: 100, X2: 150, Y2: 150},
			),
		},
		{
			name: "Degenerate boxes everywhere",
			gt:   buttonSet(geometry.Rect{X1: 10, Y1: 10, X2: 10, Y2: 10}),
			pred: buttonSet(geometry.Rect{X1: 10, Y1: 10, X2: 10, Y2: 10}),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Match(tc.gt, tc.pred, testCategories, DefaultIoUThreshold)
			for _, o := range res.Outcomes {
				assert.Equal(t, o.GroundTruthCount(), o.TruePositives()+o.FalseNegatives())
				assert.Equal(t, o.PredictedCount(), o.TruePositives()+o.FalsePositives())
				assert.LessOrEqual(t, o.TruePositives(), min(o.GroundTruthCount(), o.PredictedCount()))
			}
		})
	}
}
