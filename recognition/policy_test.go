package recognition

import "testing"

func TestFilterMatches_ThresholdFiltering(t *testing.T) {
	result := Result{
		Success:       true,
		FacesDetected: 1,
		Matches: []FaceMatch{
			{
				FaceID:      "face-1",
				BoundingBox: Box{X: 10, Y: 20, Width: 100, Height: 120},
				Matches: []Candidate{
					{PersonID: "p1", PersonName: "Alice", Confidence: 0.9},
					{PersonID: "p2", PersonName: "Bob", Confidence: 0.6},
				},
			},
		},
	}

	detected := FilterMatches(result, 0.7)
	if len(detected) != 1 {
		t.Fatalf("expected 1 detected person, got %d", len(detected))
	}
	if detected[0].PersonID != "p1" || detected[0].Confidence != 0.9 {
		t.Errorf("expected p1 at 0.9, got %s at %v", detected[0].PersonID, detected[0].Confidence)
	}
	if detected[0].BoundingBox.Width != 100 {
		t.Errorf("expected bounding box carried over from the face, got %+v", detected[0].BoundingBox)
	}
}

func TestFilterMatches_AmbiguousCandidatesBothRetained(t *testing.T) {
	result := Result{
		Success: true,
		Matches: []FaceMatch{
			{
				FaceID: "face-1",
				Matches: []Candidate{
					{PersonID: "p1", PersonName: "Alice", Confidence: 0.95},
					{PersonID: "p2", PersonName: "Bob", Confidence: 0.85},
				},
			},
		},
	}

	detected := FilterMatches(result, 0.8)
	if len(detected) != 2 {
		t.Fatalf("expected both ambiguous candidates retained, got %d", len(detected))
	}
}

func TestFilterMatches_FailedResult(t *testing.T) {
	if got := FilterMatches(Failure("boom"), 0.1); got != nil {
		t.Errorf("expected nil for failed result, got %v", got)
	}
}

func TestFilterMatches_MultipleFaces(t *testing.T) {
	result := Result{
		Success: true,
		Matches: []FaceMatch{
			{
				FaceID:      "face-1",
				BoundingBox: Box{X: 0, Y: 0, Width: 50, Height: 50},
				Matches:     []Candidate{{PersonID: "p1", PersonName: "Alice", Confidence: 0.75}},
			},
			{
				FaceID:  "face-2",
				Matches: []Candidate{{PersonID: "p2", PersonName: "Bob", Confidence: 0.5}},
			},
			{
				FaceID:  "face-3",
				Matches: nil,
			},
		},
	}

	detected := FilterMatches(result, 0.7)
	if len(detected) != 1 {
		t.Fatalf("expected 1 detected person across faces, got %d", len(detected))
	}
	if detected[0].PersonID != "p1" {
		t.Errorf("expected p1, got %s", detected[0].PersonID)
	}
}

func TestFilterMatches_ZeroThresholdKeepsAll(t *testing.T) {
	result := Result{
		Success: true,
		Matches: []FaceMatch{
			{Matches: []Candidate{{PersonID: "p1", Confidence: 0}, {PersonID: "p2", Confidence: 0.01}}},
		},
	}
	if got := FilterMatches(result, 0); len(got) != 2 {
		t.Errorf("expected all candidates at threshold 0, got %d", len(got))
	}
}
