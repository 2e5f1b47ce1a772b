package recognition

import (
	"github.com/groupwatchapp/groupwatchbackend/models"
)

// FilterMatches flattens a successful recognition result into the
// detected persons that clear confidenceThreshold. Every (face,
// candidate) pair is considered independently, so a face with two
// candidates above the threshold yields two entries; ambiguous matches
// are surfaced rather than collapsed to the best candidate.
func FilterMatches(result Result, confidenceThreshold float64) []models.DetectedPerson {
	if !result.Success {
		return nil
	}

	var detected []models.DetectedPerson
	for _, face := range result.Matches {
		for _, candidate := range face.Matches {
			if candidate.Confidence < confidenceThreshold {
				continue
			}
			detected = append(detected, models.DetectedPerson{
				PersonID:   candidate.PersonID,
				PersonName: candidate.PersonName,
				Confidence: candidate.Confidence,
				BoundingBox: models.BoundingBox{
					X:      face.BoundingBox.X,
					Y:      face.BoundingBox.Y,
					Width:  face.BoundingBox.Width,
					Height: face.BoundingBox.Height,
				},
			})
		}
	}
	return detected
}
