package benford

import (
	"fmt"
	"math"
)

// ScoreSinglePosition sums the absolute differences between v and the
// expected Benford percentages for position p.
func ScoreSinglePosition(v Vector, p Position) (float64, error) {
	ref, ok := reference[p]
	if !ok {
		return 0, fmt.Errorf("%w: unknown position %d", ErrInvalidArgument, p)
	}
	if len(v) == 0 {
		return 0, fmt.Errorf("%s digit: %w", p, ErrNoData)
	}
	if len(v) != digitCount {
		return 0, fmt.Errorf("%w: expected %d percentages, got %d", ErrInvalidArgument, digitCount, len(v))
	}

	var score float64
	for i, pct := range v {
		score += math.Abs(pct - ref[i])
	}
	return score, nil
}

// ScoreDistribution returns the deviation score of d: the sum of
// ScoreSinglePosition over the first, second and third positions.
// d must hold exactly those three positions.
func ScoreDistribution(d Distribution) (float64, error) {
	if len(d) != len(Positions) {
		return 0, fmt.Errorf("%w: must supply exactly three positions, got %d", ErrInvalidArgument, len(d))
	}

	var score float64
	for _, p := range Positions {
		v, ok := d[p]
		if !ok {
			return 0, fmt.Errorf("%w: missing %s digit position", ErrInvalidArgument, p)
		}
		s, err := ScoreSinglePosition(v, p)
		if err != nil {
			return 0, err
		}
		score += s
	}
	return score, nil
}

// DistributionFromSet returns the observed digit percentages of set.
func DistributionFromSet[T Integer](set []T) (Distribution, error) {
	return ComputeAllPercentages(ExtractPositionalDigits(set))
}

// ScoreFromSet returns the Benford deviation score of set. Larger scores mean
// less conformance. Every position must have data, so the set needs at least
// one member with three or more digits.
func ScoreFromSet[T Integer](set []T) (float64, error) {
	d, err := DistributionFromSet(set)
	if err != nil {
		return 0, err
	}
	return ScoreDistribution(d)
}
