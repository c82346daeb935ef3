package dto

import "github.com/handiism/facematch/internal/model"

// VerifyResponse is the success body of POST /verify.
//
// Both lists contain the synthetic comparison file names the request
// was sent with, never local paths.
type VerifyResponse struct {
	Matches    []string `json:"matches"`
	NonMatches []string `json:"non_matches"`
}

// ErrorResponse is the failure body of POST /verify.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToMatchResult translates the synthetic names back to stored images
// through the submission's index.
//
// Names the submission never assigned are skipped and returned in
// dropped, in response order.
func (r *VerifyResponse) ToMatchResult(sub *model.Submission) (result *model.MatchResult, dropped []string) {
	result = &model.MatchResult{
		Matches:    make([]model.StoredImage, 0, len(r.Matches)),
		NonMatches: make([]model.StoredImage, 0, len(r.NonMatches)),
	}

	for _, name := range r.Matches {
		if p, ok := sub.Lookup(name); ok {
			result.Matches = append(result.Matches, p)
		} else {
			dropped = append(dropped, name)
		}
	}
	for _, name := range r.NonMatches {
		if p, ok := sub.Lookup(name); ok {
			result.NonMatches = append(result.NonMatches, p)
		} else {
			dropped = append(dropped, name)
		}
	}

	return result, dropped
}
