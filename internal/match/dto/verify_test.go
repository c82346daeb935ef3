package dto

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/handiism/facematch/internal/model"
)

func TestVerifyResponse_ToMatchResult(t *testing.T) {
	sub := model.NewSubmission("/s/t.jpg", []model.StoredImage{"/s/a.jpg", "/s/b.jpg", "/s/c.jpg"})

	tests := []struct {
		name        string
		body        string
		wantMatches []model.StoredImage
		wantNon     []model.StoredImage
		wantDropped []string
	}{
		{
			name:        "server order is kept",
			body:        `{"matches":["comparison_2.jpg","comparison_0.jpg"],"non_matches":["comparison_1.jpg"]}`,
			wantMatches: []model.StoredImage{"/s/c.jpg", "/s/a.jpg"},
			wantNon:     []model.StoredImage{"/s/b.jpg"},
		},
		{
			name:        "unknown names are dropped",
			body:        `{"matches":["comparison_7.jpg","comparison_1.jpg"],"non_matches":["target.jpg"]}`,
			wantMatches: []model.StoredImage{"/s/b.jpg"},
			wantNon:     []model.StoredImage{},
			wantDropped: []string{"comparison_7.jpg", "target.jpg"},
		},
		{
			name:        "missing lists become empty",
			body:        `{}`,
			wantMatches: []model.StoredImage{},
			wantNon:     []model.StoredImage{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp VerifyResponse
			if err := json.Unmarshal([]byte(tt.body), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			result, dropped := resp.ToMatchResult(sub)
			if diff := cmp.Diff(tt.wantMatches, result.Matches); diff != "" {
				t.Errorf("Matches mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantNon, result.NonMatches); diff != "" {
				t.Errorf("NonMatches mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantDropped, dropped); diff != "" {
				t.Errorf("dropped mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
