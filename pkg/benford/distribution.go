package benford

import "fmt"

// Vector holds one percentage per digit value, indexed 0-9.
type Vector []float64

// Sum returns the total of all percentages in v.
func (v Vector) Sum() float64 {
	var total float64
	for _, p := range v {
		total += p
	}
	return total
}

// Distribution maps a digit position to its observed percentages. Positions
// without any qualifying digits are absent.
type Distribution map[Position]Vector

// Has reports whether d holds a vector for position p.
func (d Distribution) Has(p Position) bool {
	_, ok := d[p]
	return ok
}

// ComputePercentages counts each digit value 0-9 in digits and returns the
// share of each value as a percentage. ErrNoData is returned when digits is
// empty.
func ComputePercentages(digits []int) (Vector, error) {
	if len(digits) == 0 {
		return nil, ErrNoData
	}

	var counts [digitCount]int
	for i, d := range digits {
		if d < 0 || d >= digitCount {
			return nil, fmt.Errorf("%w: digit %d at index %d out of range", ErrInvalidArgument, d, i)
		}
		counts[d]++
	}

	total := float64(len(digits))
	v := make(Vector, digitCount)
	for d, c := range counts {
		v[d] = float64(c) / total * 100
	}
	return v, nil
}

// ComputeAllPercentages applies ComputePercentages to every position of p.
// Positions with no digits are left out of the result.
func ComputeAllPercentages(p Partition) (Distribution, error) {
	d := make(Distribution, len(Positions))
	for pos, digits := range p {
		if !pos.Valid() {
			return nil, fmt.Errorf("%w: unknown position %d", ErrInvalidArgument, pos)
		}
		if len(digits) == 0 {
			continue
		}
		v, err := ComputePercentages(digits)
		if err != nil {
			return nil, fmt.Errorf("%s digit: %w", pos, err)
		}
		d[pos] = v
	}
	return d, nil
}
