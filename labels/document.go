package labels

import (
	"encoding/json"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/ui-lab/go-detect-eval/geometry"
)

// documentWire mirrors the on-disk label-set document.
type documentWire struct {
	ImageFilename string      `json:"image_filename"`
	Labels        []labelWire `json:"labels"`
}

type labelWire struct {
	Tag  string    `json:"tag"`
	BBox []float64 `json:"bbox"`
}

// ParseOptions controls document validation.
type ParseOptions struct {
	// Categories is the recognized category set. Labels with an
	// unrecognized tag are dropped (and counted in LabelSet.Dropped)
	// unless StrictTags is set.
	Categories CategorySet

	// StrictTags rejects the whole document on the first unrecognized tag
	// instead of dropping the offending label.
	StrictTags bool
}

// ParseDocument decodes and validates a label-set document.
//
// The wire format is:
//
//	{
//	  "image_filename": "login.png",
//	  "labels": [ { "tag": "Button", "bbox": [x1, y1, x2, y2] }, ... ]
//	}
//
// Validation requires a labels array (empty is fine), a non-empty tag per
// label, and a bbox of exactly 4 finite numbers. Degenerate boxes and boxes
// with swapped corners are legal input; the geometry layer degrades them to
// zero overlap rather than erroring here.
func ParseDocument(data []byte, opts ParseOptions) (*LabelSet, error) {
	var doc documentWire
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "invalid label document")
	}
	if doc.Labels == nil {
		return nil, errors.New("label document is missing the labels array")
	}

	set := &LabelSet{
		ImageFilename: doc.ImageFilename,
		Labels:        make([]Label, 0, len(doc.Labels)),
	}
	for i, l := range doc.Labels {
		if l.Tag == "" {
			return nil, errors.Errorf("label %d: empty tag", i)
		}
		if len(l.BBox) != 4 {
			return nil, errors.Errorf("label %d (%s): bbox has %d coordinates, want 4", i, l.Tag, len(l.BBox))
		}
		for _, v := range l.BBox {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, errors.Errorf("label %d (%s): bbox coordinate is not finite", i, l.Tag)
			}
		}
		tag := Category(l.Tag)
		if !opts.Categories.Contains(tag) {
			if opts.StrictTags {
				return nil, errors.Errorf("label %d: unrecognized tag %q", i, l.Tag)
			}
			set.Dropped++
			continue
		}
		set.Labels = append(set.Labels, Label{
			Tag: tag,
			Box: geometry.Rect{
				X1: float32(l.BBox[0]),
				Y1: float32(l.BBox[1]),
				X2: float32(l.BBox[2]),
				Y2: float32(l.BBox[3]),
			},
		})
	}
	return set, nil
}

// LoadFile reads and parses a label-set document from disk.
func LoadFile(path string, opts ParseOptions) (*LabelSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	set, err := ParseDocument(data, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return set, nil
}
