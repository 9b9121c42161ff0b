package benford

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const maxDigits = 20 // decimal digits in math.MaxUint64

// Integer is any built-in integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Partition maps a digit position to the digits found at that position,
// in input order.
type Partition map[Position][]int

// Len returns the number of digits collected for position p.
func (p Partition) Len(pos Position) int {
	return len(p[pos])
}

// ExtractPositionalDigits returns the first, second and third significant
// digits of every member of set, partitioned by position. The magnitude of
// negative members is used. Zero contributes no digits, the second digit is
// only collected for numbers of two or more digits and the third for numbers
// of three or more.
func ExtractPositionalDigits[T Integer](set []T) Partition {
	p := Partition{
		First:  make([]int, 0, len(set)),
		Second: make([]int, 0, len(set)),
		Third:  make([]int, 0, len(set)),
	}

	for _, v := range set {
		lead, n := leadingDigits(magnitude(v))
		if lead[0] != 0 {
			p[First] = append(p[First], lead[0])
		}
		if n > 1 {
			p[Second] = append(p[Second], lead[1])
		}
		if n > 2 {
			p[Third] = append(p[Third], lead[2])
		}
	}

	return p
}

// magnitude returns |v| without overflowing on the minimum signed value.
func magnitude[T Integer](v T) uint64 {
	if v < 0 {
		return uint64(-(int64(v) + 1)) + 1
	}
	return uint64(v)
}

// leadingDigits returns the three most significant decimal digits of n and
// the total number of decimal digits. Zero has one digit.
func leadingDigits(n uint64) (lead [3]int, count int) {
	if n == 0 {
		return lead, 1
	}

	var digits [maxDigits]int
	for n > 0 {
		digits[count] = int(n % 10)
		n /= 10
		count++
	}

	for i := 0; i < len(lead) && i < count; i++ {
		lead[i] = digits[count-1-i]
	}
	return lead, count
}

// ParseSet converts decimal strings into a set of integers. Surrounding
// whitespace and a leading sign are accepted. The first member that is not
// an integer aborts the conversion with ErrInvalidInput.
func ParseSet(values []string) ([]int64, error) {
	set := make([]int64, 0, len(values))
	for i, s := range values {
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: member %d (%q) is not an integer", ErrInvalidInput, i, s)
		}
		set = append(set, v)
	}
	return set, nil
}

// FromFloats converts integral floating point values into a set of integers.
// NaN, infinities, fractional values and values outside the int64 range
// abort the conversion with ErrInvalidInput.
func FromFloats(values []float64) ([]int64, error) {
	set := make([]int64, 0, len(values))
	for i, f := range values {
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) ||
			f < math.MinInt64 || f >= math.MaxInt64 {
			return nil, fmt.Errorf("%w: member %d (%v) is not an integer", ErrInvalidInput, i, f)
		}
		set = append(set, int64(f))
	}
	return set, nil
}
