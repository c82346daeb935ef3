package model

import "fmt"

// MinComparisons is the smallest number of comparison images a match
// submission accepts.
const MinComparisons = 2

// Submission is one match request: a target image and the ordered
// comparison images sent with it.
//
// Each comparison is sent under a synthetic file name derived from its
// position ("comparison_0.jpg", "comparison_1.jpg", ...). The server
// answers with those names, so the submission keeps an index from
// synthetic name back to the stored path. A Submission lives for a single
// remote call and is never persisted.
//
// Example:
//
//	sub := NewSubmission(target, []StoredImage{a, b})
//	sub.SyntheticName(1)              // "comparison_1.jpg"
//	sub.Lookup("comparison_1.jpg")    // b, true
type Submission struct {
	// Target is the stored target image.
	Target StoredImage

	// Comparisons are the stored comparison images in submission order.
	Comparisons []StoredImage

	byName map[string]StoredImage
}

// NewSubmission builds a Submission and its name index.
func NewSubmission(target StoredImage, comparisons []StoredImage) *Submission {
	s := &Submission{
		Target:      target,
		Comparisons: append([]StoredImage(nil), comparisons...),
		byName:      make(map[string]StoredImage, len(comparisons)),
	}
	for i, c := range s.Comparisons {
		s.byName[SyntheticName(i)] = c
	}
	return s
}

// SyntheticName returns the file name the comparison at index i is sent
// under.
func SyntheticName(i int) string {
	return fmt.Sprintf("comparison_%d.jpg", i)
}

// SyntheticName returns the file name of the i-th comparison.
func (s *Submission) SyntheticName(i int) string {
	return SyntheticName(i)
}

// Lookup maps a synthetic name back to the stored image it was assigned to.
func (s *Submission) Lookup(name string) (StoredImage, bool) {
	p, ok := s.byName[name]
	return p, ok
}

// MatchResult is the outcome of one submission after remapping: the stored
// images the server matched and the ones it did not.
type MatchResult struct {
	Matches    []StoredImage `json:"matches"`
	NonMatches []StoredImage `json:"non_matches"`
}

// Total returns the number of images in the result.
func (r *MatchResult) Total() int {
	return len(r.Matches) + len(r.NonMatches)
}
