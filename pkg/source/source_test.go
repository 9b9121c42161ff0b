package source

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mchmarny/benford/pkg/benford"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = `name,population,change
Alabama,4903185,0.33
Alaska,731545,-3.1
"Arizona, State",7278717,n/a
Zero,0,0
`

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"123", 123, true},
		{" 42 ", 42, true},
		{"-17", 17, true},
		{"+5", 5, true},
		{"12.34", 1234, true},
		{"-0.05", 5, true},
		{"0", 0, true},
		{"0.0", 0, true},
		{"1.5e3", 15000, true},
		{"-9223372036854775808", 922337203685477580, true},
		{"12345678901234567890", 123456789012345678, true},
		{"1.5e30", 150000000000000000, true},
		{"9223372036854775807", math.MaxInt64, true},
		{"1.", 1, true},
		{".5", 5, true},
		{"007", 7, true},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"12a", 0, false},
		{"1e400", 0, false},
		{"0x1p4", 0, false},
		{"0x10", 0, false},
		{"0b101", 0, false},
		{"0o17", 0, false},
		{"1_000", 0, false},
		{"1.2.3", 0, false},
		{"--5", 0, false},
		{"e5", 0, false},
		{"5e", 0, false},
		{".", 0, false},
		{"Infinity", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Normalize(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse(t *testing.T) {
	ds, err := Parse(strings.NewReader(testCSV), "states", Options{})
	require.NoError(t, err)
	assert.Equal(t, "states", ds.Source)
	assert.Equal(t, []int64{4903185, 33, 731545, 31, 7278717}, ds.Values)
	// header (3), names (4) and n/a
	assert.Equal(t, 8, ds.Skipped)
	assert.Equal(t, 2, ds.Zeros)
}

func TestParse_ScoresWithinBenfordRange(t *testing.T) {
	// sizes of the files in a Debian python3 library tree
	f, err := os.Open(filepath.Join("testdata", "python_lib_sizes.csv"))
	require.NoError(t, err)
	defer f.Close()

	ds, err := Parse(f, "python_lib_sizes", Options{Columns: []int{2}})
	require.NoError(t, err)
	assert.Equal(t, 2860, len(ds.Values))
	assert.Equal(t, 29, ds.Zeros)
	assert.Equal(t, 1, ds.Skipped)

	score, err := benford.ScoreFromSet(ds.Values)
	require.NoError(t, err)
	assert.Greater(t, score, 5.0)
	assert.Less(t, score, 20.0)
}

func TestParse_Columns(t *testing.T) {
	ds, err := Parse(strings.NewReader(testCSV), "states", Options{Columns: []int{2}})
	require.NoError(t, err)
	assert.Equal(t, []int64{4903185, 731545, 7278717}, ds.Values)

	_, err = Parse(strings.NewReader(testCSV), "states", Options{Columns: []int{0}})
	assert.Error(t, err)
}

func TestParse_Delimiter(t *testing.T) {
	in := "state\t2015\t2016\nOhio\t-1200\t3400\n"
	ds, err := Parse(strings.NewReader(in), "tsv", Options{Delimiter: '\t'})
	require.NoError(t, err)
	assert.Equal(t, []int64{2015, 2016, 1200, 3400}, ds.Values)
}

func TestParse_Empty(t *testing.T) {
	ds, err := Parse(strings.NewReader(""), "empty", Options{})
	require.NoError(t, err)
	assert.Empty(t, ds.Values)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "states.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0600))

	ds, err := LoadFile(context.Background(), path, Options{Columns: []int{2}})
	require.NoError(t, err)
	assert.Equal(t, path, ds.Source)
	assert.Len(t, ds.Values, 3)

	_, err = LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), Options{})
	assert.Error(t, err)
}

func TestLoadFile_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LoadFile(ctx, "whatever.csv", Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadURL(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testCSV))
	}))
	defer s.Close()

	ds, err := Load(context.Background(), s.URL+"/states.csv", Options{Columns: []int{2}})
	require.NoError(t, err)
	assert.Equal(t, []int64{4903185, 731545, 7278717}, ds.Values)
}

func TestLoadQuery(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "ledger.db")
	ds, err := LoadQuery(context.Background(), dsn, "SELECT 1250 UNION ALL SELECT -3.5 UNION ALL SELECT 0 UNION ALL SELECT NULL")
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1250, 35}, ds.Values)
	assert.Equal(t, 1, ds.Zeros)

	_, err = LoadQuery(context.Background(), dsn, "")
	assert.Error(t, err)
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/a.csv"))
	assert.True(t, IsURL("http://example.com/a.csv"))
	assert.False(t, IsURL("./a.csv"))
	assert.False(t, IsURL("-"))
}
