package session

import "math"

// Band is a coarse grade for a total score.
type Band string

const (
	BandExcellent Band = "excellent"
	BandGood      Band = "good"
	BandNeedsWork Band = "needs_work"
)

// ExcellentScore is the lowest total graded excellent.
const ExcellentScore = 75

// BandFor grades a total score.
func BandFor(total float64) Band {
	switch {
	case total >= ExcellentScore:
		return BandExcellent
	case total >= 50:
		return BandGood
	default:
		return BandNeedsWork
	}
}

// Summary is the end-of-session report.
type Summary struct {
	Attempted    int     `json:"attempted"`
	AverageTotal float64 `json:"average_total"`
	Excellent    int     `json:"excellent"`
	// Improvement is the last total minus the first; zero with fewer than
	// two turns.
	Improvement float64 `json:"improvement"`
	Latest      float64 `json:"latest"`
	Bands       []Band  `json:"bands"`
}

// Summarize builds the report from turn totals in the order they were
// taken.
func Summarize(totals []float64) Summary {
	s := Summary{Attempted: len(totals), Bands: make([]Band, len(totals))}
	if len(totals) == 0 {
		return s
	}

	var sum float64
	for i, t := range totals {
		sum += t
		if t >= ExcellentScore {
			s.Excellent++
		}
		s.Bands[i] = BandFor(t)
	}

	s.AverageTotal = round2(sum / float64(len(totals)))
	s.Latest = totals[len(totals)-1]
	if len(totals) >= 2 {
		s.Improvement = round2(s.Latest - totals[0])
	}
	return s
}

// Summary reports on the session so far.
func (s *SessionState) Summary() Summary {
	return Summarize(s.Totals())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
