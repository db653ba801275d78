package recognitionService

import (
	"AttendanceGolang/internal/api/recognition"
	"AttendanceGolang/internal/entity"
	"math"
)

// bestMatch finds the candidate whose encoding is nearest to the probe and
// returns it when the similarity strictly exceeds the threshold. A miss
// below the threshold returns (nil, nil); only an empty candidate set is an
// error, because "nobody enrolled" and "nobody close enough" demand
// different operator responses.
//
// Candidates must be sorted by student number. Ties on similarity then
// resolve to the lowest student number, keeping the outcome stable across
// runs regardless of map iteration order upstream.
func bestMatch(candidates []entity.FaceRecord, probe []float64, threshold float64) (*entity.MatchResult, error) {
	if len(candidates) == 0 {
		return nil, recognition.ErrNoCandidates
	}

	var best *entity.MatchResult
	for i := range candidates {
		// A stored encoding whose dimension disagrees with the probe is
		// corrupt enrollment data; scoring a truncated prefix could
		// false-match, so the candidate is skipped instead.
		if len(candidates[i].Encoding) != len(probe) {
			continue
		}
		similarity := 1 - euclideanDistance(candidates[i].Encoding, probe)
		if best == nil || similarity > best.Similarity {
			best = &entity.MatchResult{
				StudentNumber: candidates[i].StudentNumber,
				Name:          candidates[i].Name,
				Similarity:    similarity,
			}
		}
	}

	if best == nil || best.Similarity <= threshold {
		return nil, nil
	}

	return best, nil
}

// euclideanDistance assumes equal-length vectors; bestMatch filters out
// anything else before scoring.
func euclideanDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}

	return math.Sqrt(sum)
}
