package benford

import "fmt"

// Position is the 1-based index of a significant digit.
type Position int

const (
	First Position = iota + 1
	Second
	Third
)

const digitCount = 10

// Positions lists the supported digit positions in scoring order.
var Positions = []Position{First, Second, Third}

// reference holds the expected percentages per position for digit values 0-9.
// See https://en.wikipedia.org/wiki/Benford%27s_law
var reference = map[Position][digitCount]float64{
	First:  {0, 30.1, 17.6, 12.5, 9.7, 7.9, 6.7, 5.8, 5.1, 4.6},
	Second: {12, 11.4, 10.9, 10.4, 10, 9.7, 9.3, 9, 8.8, 8.5},
	Third:  {10.2, 10.1, 10.1, 10.1, 10, 10, 9.9, 9.9, 9.9, 9.8},
}

// Valid reports whether p is one of First, Second or Third.
func (p Position) Valid() bool {
	return p >= First && p <= Third
}

func (p Position) String() string {
	switch p {
	case First:
		return "first"
	case Second:
		return "second"
	case Third:
		return "third"
	default:
		return fmt.Sprintf("position(%d)", int(p))
	}
}

// Expected returns a copy of the Benford percentages for position p.
func Expected(p Position) (Vector, error) {
	ref, ok := reference[p]
	if !ok {
		return nil, fmt.Errorf("%w: unknown position %d", ErrInvalidArgument, p)
	}
	v := make(Vector, digitCount)
	copy(v, ref[:])
	return v, nil
}
