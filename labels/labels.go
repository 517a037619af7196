// Package labels - typed label sets and their JSON wire format.
package labels

import (
	"github.com/ui-lab/go-detect-eval/geometry"
)

// Category is the kind of UI component a label annotates.
type Category string

// CategorySet is the closed set of recognized categories. The matching logic
// treats the set as a small enumeration supplied by configuration, not free
// text, so it is built once and shared by the matcher, aggregator, and
// formatter.
type CategorySet struct {
	ordered []Category
	members map[Category]struct{}
}

// NewCategorySet builds a CategorySet from the given names, preserving order
// and dropping duplicates.
func NewCategorySet(names ...string) CategorySet {
	cs := CategorySet{
		members: make(map[Category]struct{}, len(names)),
	}
	for _, name := range names {
		c := Category(name)
		if _, ok := cs.members[c]; ok {
			continue
		}
		cs.members[c] = struct{}{}
		cs.ordered = append(cs.ordered, c)
	}
	return cs
}

// Contains reports whether c is a recognized category.
func (s CategorySet) Contains(c Category) bool {
	_, ok := s.members[c]
	return ok
}

// List returns the categories in their configured order.
func (s CategorySet) List() []Category {
	out := make([]Category, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// Len returns the number of categories in the set.
func (s CategorySet) Len() int {
	return len(s.ordered)
}

// Label is one detected or annotated UI element.
type Label struct {
	Tag Category
	Box geometry.Rect
}

// LabelSet is an ordered sequence of labels for one source image. Insertion
// order is preserved through the pipeline; it carries no semantic weight but
// acts as the tie-break during matching. A LabelSet is immutable once handed
// to the matcher.
type LabelSet struct {
	ImageFilename string
	Labels        []Label

	// Dropped counts labels discarded during parsing because their tag was
	// not in the configured category set (lenient mode only).
	Dropped int
}

// FilterTag returns the indices of labels whose tag equals c, in order.
func (ls LabelSet) FilterTag(c Category) []int {
	var idx []int
	for i, l := range ls.Labels {
		if l.Tag == c {
			idx = append(idx, i)
		}
	}
	return idx
}
