// Package source loads integer sets for analysis from delimited text files,
// remote URLs and SQL queries.
package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mchmarny/benford/pkg/data"
	"github.com/mchmarny/benford/pkg/net"
)

const (
	stdinName        = "-"
	decimalSeparator = "."
	maxKeptDigits    = 18
)

// numericPattern accepts plain decimal notation with an optional exponent.
// Go literal forms such as 0x1p4 or 1_000 are not data.
var numericPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Options controls how raw input is turned into a set.
type Options struct {
	// Delimiter separates fields, defaults to comma.
	Delimiter rune
	// Columns limits parsing to these 1-based column numbers. Empty means all.
	Columns []int
	// Token is sent as a bearer token when loading from a URL.
	Token   string
	Timeout time.Duration
}

// Dataset is a normalized set ready for analysis.
type Dataset struct {
	Source  string  `json:"source" yaml:"source"`
	Values  []int64 `json:"-" yaml:"-"`
	Skipped int     `json:"skipped" yaml:"skipped"`
	Zeros   int     `json:"zeros" yaml:"zeros"`
}

func (d *Dataset) add(field string) {
	v, ok := Normalize(field)
	switch {
	case !ok:
		d.Skipped++
	case v == 0:
		d.Zeros++
	default:
		d.Values = append(d.Values, v)
	}
}

// Normalize converts a raw field into a non-negative integer: non-numeric
// fields are rejected, the decimal separator is removed (so 12.34 becomes
// 1234) and the sign is dropped. Integers beyond the int64 range keep their
// leading digits.
func Normalize(field string) (int64, bool) {
	s := strings.TrimSpace(field)
	if !numericPattern.MatchString(s) {
		return 0, false
	}

	s = strings.TrimLeft(strings.ReplaceAll(s, decimalSeparator, ""), "+-")
	if !strings.ContainsAny(s, "eE") {
		return leadingDigits(s), true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return leadingDigits(strconv.FormatFloat(math.Trunc(f), 'f', -1, 64)), true
}

// leadingDigits parses a run of decimal digits. Runs too long for int64 are
// cut to their most significant maxKeptDigits digits.
func leadingDigits(digits string) int64 {
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return 0
	}
	if v, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return v
	}
	v, _ := strconv.ParseInt(digits[:maxKeptDigits], 10, 64)
	return v
}

// Parse reads delimited text from r.
func Parse(r io.Reader, name string, opts Options) (*Dataset, error) {
	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	cols := make(map[int]bool, len(opts.Columns))
	for _, c := range opts.Columns {
		if c < 1 {
			return nil, fmt.Errorf("invalid column number: %d", c)
		}
		cols[c-1] = true
	}

	ds := &Dataset{Source: name, Values: make([]int64, 0)}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", name, err)
		}
		for i, field := range rec {
			if len(cols) > 0 && !cols[i] {
				continue
			}
			ds.add(field)
		}
	}

	slog.Debug("parsed source",
		"source", name, "values", len(ds.Values), "skipped", ds.Skipped, "zeros", ds.Zeros)
	return ds, nil
}

// LoadFile parses the file at path, "-" reads stdin.
func LoadFile(ctx context.Context, path string, opts Options) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if path == stdinName {
		return Parse(os.Stdin, "stdin", opts)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening file %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f, path, opts)
}

// LoadURL downloads and parses the content at url.
func LoadURL(ctx context.Context, url string, opts Options) (*Dataset, error) {
	body, err := net.Fetch(ctx, url, net.Options{Token: opts.Token, Timeout: opts.Timeout})
	if err != nil {
		return nil, fmt.Errorf("error fetching %s: %w", url, err)
	}
	defer body.Close()

	return Parse(body, url, opts)
}

// LoadQuery runs query against the database at dsn and normalizes the first
// column of the result.
func LoadQuery(ctx context.Context, dsn, query string) (*Dataset, error) {
	db, err := data.GetDB(dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	list, err := data.QueryValues(ctx, db, query)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Source: query, Values: make([]int64, 0, len(list))}
	for _, v := range list {
		ds.add(v)
	}
	return ds, nil
}

// IsURL reports whether target should be fetched over HTTP.
func IsURL(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

// Load fetches target when it is a URL and reads it from disk otherwise.
func Load(ctx context.Context, target string, opts Options) (*Dataset, error) {
	if IsURL(target) {
		return LoadURL(ctx, target, opts)
	}
	return LoadFile(ctx, target, opts)
}
