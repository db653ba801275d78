package recognitionService

import (
	"AttendanceGolang/internal/api/recognition"
	"AttendanceGolang/internal/entity"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(studentNumber string, encoding ...float64) entity.FaceRecord {
	return entity.FaceRecord{
		StudentNumber: studentNumber,
		Name:          "Student " + studentNumber,
		Encoding:      encoding,
	}
}

func TestBestMatch(t *testing.T) {
	tests := []struct {
		name       string
		candidates []entity.FaceRecord
		probe      []float64
		threshold  float64
		wantNumber string
		wantMiss   bool
	}{
		{
			name:       "identical encoding scores similarity 1",
			candidates: []entity.FaceRecord{record("S1", 0.1, 0.2, 0.3)},
			probe:      []float64{0.1, 0.2, 0.3},
			threshold:  0.55,
			wantNumber: "S1",
		},
		{
			name: "nearest of several wins",
			candidates: []entity.FaceRecord{
				record("S1", 0, 0),
				record("S2", 0.1, 0),
				record("S3", 1, 1),
			},
			probe:      []float64{0.12, 0},
			threshold:  0.55,
			wantNumber: "S2",
		},
		{
			name:       "below threshold is a miss, not an error",
			candidates: []entity.FaceRecord{record("S1", 0, 0)},
			probe:      []float64{2, 0},
			threshold:  0.55,
			wantMiss:   true,
		},
		{
			// Distance 0.5 is exact in binary, so this pins the strict
			// inequality at the boundary without float noise.
			name:       "similarity equal to threshold does not match",
			candidates: []entity.FaceRecord{record("S1", 0, 0)},
			probe:      []float64{0.5, 0},
			threshold:  0.5,
			wantMiss:   true,
		},
		{
			name:       "similarity above threshold matches",
			candidates: []entity.FaceRecord{record("S1", 0, 0)},
			probe:      []float64{0.25, 0},
			threshold:  0.5,
			wantNumber: "S1",
		},
		{
			name: "equal distances break the tie to the lowest student number",
			candidates: []entity.FaceRecord{
				record("S1", 0.1, 0.2),
				record("S2", 0.1, 0.2),
				record("S3", 0.1, 0.2),
			},
			probe:      []float64{0.1, 0.2},
			threshold:  0.55,
			wantNumber: "S1",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			match, err := bestMatch(tc.candidates, tc.probe, tc.threshold)
			require.NoError(t, err)

			if tc.wantMiss {
				assert.Nil(t, match)
				return
			}

			require.NotNil(t, match)
			assert.Equal(t, tc.wantNumber, match.StudentNumber)
		})
	}
}

func TestBestMatchSkipsDimensionMismatch(t *testing.T) {
	// S1's stored encoding lost a component somewhere; its surviving prefix
	// is identical to the probe and would win if it were scored.
	candidates := []entity.FaceRecord{
		record("S1", 0.1, 0.2),
		record("S2", 0.1, 0.2, 0.4),
	}
	probe := []float64{0.1, 0.2, 0.3}

	match, err := bestMatch(candidates, probe, 0.55)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "S2", match.StudentNumber)
}

func TestBestMatchAllCandidatesMismatched(t *testing.T) {
	candidates := []entity.FaceRecord{
		record("S1", 0.1, 0.2),
		record("S2", 0.1),
	}

	match, err := bestMatch(candidates, []float64{0.1, 0.2, 0.3}, 0.55)
	require.NoError(t, err)
	assert.Nil(t, match, "corrupt encodings alone must resolve to a miss, not a match or an error")
}

func TestBestMatchEmptyCandidates(t *testing.T) {
	match, err := bestMatch(nil, []float64{0.1, 0.2}, 0.55)
	assert.Nil(t, match)
	assert.ErrorIs(t, err, recognition.ErrNoCandidates)
}

func TestBestMatchIsDeterministic(t *testing.T) {
	candidates := []entity.FaceRecord{
		record("S1", 0.5, 0.5),
		record("S2", 0.5, 0.5),
	}
	probe := []float64{0.5, 0.4}

	first, err := bestMatch(candidates, probe, 0.55)
	require.NoError(t, err)
	require.NotNil(t, first)

	for i := 0; i < 50; i++ {
		match, err := bestMatch(candidates, probe, 0.55)
		require.NoError(t, err)
		require.NotNil(t, match)
		assert.Equal(t, first.StudentNumber, match.StudentNumber)
	}
}

func TestEuclideanDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        []float64
		b        []float64
		expected float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 0},
		{"unit apart", []float64{0, 0}, []float64{1, 0}, 1},
		{"pythagorean", []float64{0, 0}, []float64{3, 4}, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, euclideanDistance(tc.a, tc.b), 1e-9)
		})
	}
}
