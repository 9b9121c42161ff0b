package benford

import "errors"

// PositionReport describes the observed and expected digit distribution at
// a single position.
type PositionReport struct {
	Position  Position `json:"position" yaml:"position"`
	Count     int      `json:"count" yaml:"count"`
	Observed  Vector   `json:"observed,omitempty" yaml:"observed,omitempty"`
	Expected  Vector   `json:"expected" yaml:"expected"`
	Deviation *float64 `json:"deviation,omitempty" yaml:"deviation,omitempty"`
}

// Report is the full analysis of a set. Score is nil unless all three
// positions have data.
type Report struct {
	Size      int               `json:"size" yaml:"size"`
	Positions []*PositionReport `json:"positions" yaml:"positions"`
	Score     *float64          `json:"score,omitempty" yaml:"score,omitempty"`
}

// Analyze builds a Report for set.
func Analyze[T Integer](set []T) (*Report, error) {
	parts := ExtractPositionalDigits(set)
	dist, err := ComputeAllPercentages(parts)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Size:      len(set),
		Positions: make([]*PositionReport, 0, len(Positions)),
	}

	for _, p := range Positions {
		exp, err := Expected(p)
		if err != nil {
			return nil, err
		}
		pr := &PositionReport{
			Position: p,
			Count:    parts.Len(p),
			Expected: exp,
		}
		if v, ok := dist[p]; ok {
			s, err := ScoreSinglePosition(v, p)
			if err != nil {
				return nil, err
			}
			pr.Observed = v
			pr.Deviation = &s
		}
		r.Positions = append(r.Positions, pr)
	}

	score, err := ScoreDistribution(dist)
	switch {
	case err == nil:
		r.Score = &score
	case !errors.Is(err, ErrInvalidArgument):
		return nil, err
	}

	return r, nil
}
