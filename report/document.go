package report

import (
	"encoding/json"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/ui-lab/go-detect-eval/evaluation"
)

// Document is the structured form of an evaluation report for persistence.
type Document struct {
	// ImageFilename is present only on per-image reports.
	ImageFilename string         `json:"image_filename,omitempty"`
	IoUThreshold  float64        `json:"iou_threshold"`
	Summary       map[string]any `json:"summary"`
}

// CategoryEntry is one per-category summary entry.
type CategoryEntry struct {
	Precision        float64 `json:"precision"`
	Recall           float64 `json:"recall"`
	F1Score          float64 `json:"f1_score"`
	TruePositives    int     `json:"true_positives"`
	FalsePositives   int     `json:"false_positives"`
	FalseNegatives   int     `json:"false_negatives"`
	GroundTruthCount int     `json:"ground_truth_count"`
	PredictedCount   int     `json:"predicted_count"`
}

// OverallEntry is the synthetic overall summary entry; it carries only the
// rates recomputed from the summed counts.
type OverallEntry struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1Score   float64 `json:"f1_score"`
}

// BuildDocument converts an aggregate into its persisted form. Rates are
// rounded to 3 decimal digits for document stability; the aggregate keeps
// full precision. Per-image reports key the synthetic entry "overall", batch
// reports key it "Overall".
func BuildDocument(agg *evaluation.Aggregate) Document {
	doc := Document{
		ImageFilename: agg.ImageFilename,
		IoUThreshold:  float64(agg.IoUThreshold),
		Summary:       make(map[string]any, len(agg.Categories)+1),
	}
	for _, c := range agg.Categories {
		m := agg.PerCategory[c]
		doc.Summary[string(c)] = CategoryEntry{
			Precision:        round3(m.Precision),
			Recall:           round3(m.Recall),
			F1Score:          round3(m.F1Score),
			TruePositives:    m.TruePositives,
			FalsePositives:   m.FalsePositives,
			FalseNegatives:   m.FalseNegatives,
			GroundTruthCount: m.GroundTruthCount,
			PredictedCount:   m.PredictedCount,
		}
	}
	overallKey := "Overall"
	if agg.ImageFilename != "" {
		overallKey = "overall"
	}
	doc.Summary[overallKey] = OverallEntry{
		Precision: round3(agg.Overall.Precision),
		Recall:    round3(agg.Overall.Recall),
		F1Score:   round3(agg.Overall.F1Score),
	}
	return doc
}

// EncodeJSON writes the aggregate's document form to w.
func EncodeJSON(w io.Writer, agg *evaluation.Aggregate) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(BuildDocument(agg)), "encode report")
}

// WriteJSON persists the aggregate's document form to path. The document is
// marshaled before the file is touched, so a failed run never leaves a
// partial report behind.
func WriteJSON(path string, agg *evaluation.Aggregate) error {
	data, err := json.MarshalIndent(BuildDocument(agg), "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal report")
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write report %s", path)
	}
	return nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
