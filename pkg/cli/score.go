package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/mchmarny/benford/pkg/auth"
	"github.com/mchmarny/benford/pkg/benford"
	"github.com/mchmarny/benford/pkg/source"
	urfave "github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const (
	columnFlagName    = "column"
	delimiterFlagName = "delimiter"
	thresholdFlagName = "threshold"
	dsnFlagName       = "dsn"
	queryFlagName     = "query"
	tokenFlagName     = "token"
)

var errNotEnoughData = errors.New("not enough data: every digit position needs values, include numbers of three or more digits")

func inputFlags() []urfave.Flag {
	return []urfave.Flag{
		&urfave.IntSliceFlag{
			Name:  columnFlagName,
			Usage: "1-based column number to read (can be specified multiple times, default: all)",
		},
		&urfave.StringFlag{
			Name:  delimiterFlagName,
			Usage: `Field delimiter, use \t for tabs (optional, overrides config)`,
		},
		&urfave.FloatFlag{
			Name:  thresholdFlagName,
			Usage: "Deviation score above which a dataset is flagged (optional, overrides config)",
		},
		&urfave.StringFlag{
			Name:    dsnFlagName,
			Usage:   "Database to query: SQLite file or postgres:// URL",
			Sources: urfave.EnvVars("BENFORD_DSN"),
		},
		&urfave.StringFlag{
			Name:  queryFlagName,
			Usage: "SQL query whose first column holds the values (requires --dsn)",
		},
		&urfave.StringFlag{
			Name:    tokenFlagName,
			Usage:   "Bearer token for remote datasets (optional, defaults to the saved token)",
			Sources: urfave.EnvVars("BENFORD_TOKEN"),
		},
	}
}

func newScoreCmd() *urfave.Command {
	return &urfave.Command{
		Name:      "score",
		Aliases:   []string{"s"},
		Usage:     "Compute the Benford deviation score of one or more datasets",
		ArgsUsage: "[FILE|URL|-]...",
		UsageText: `benford score data/population.csv                     # score all numeric fields
   benford score --column 3 --delimiter '\t' emp.txt      # score single column of a TSV
   benford score https://example.com/ledger.csv           # score remote dataset
   benford score --dsn books.db --query "SELECT amount FROM ledger"`,
		Action: cmdScore,
		Flags:  inputFlags(),
	}
}

func newDistCmd() *urfave.Command {
	return &urfave.Command{
		Name:      "dist",
		Aliases:   []string{"d"},
		Usage:     "Show observed and expected digit distributions of one or more datasets",
		ArgsUsage: "[FILE|URL|-]...",
		Action:    cmdDist,
		Flags:     inputFlags(),
	}
}

// Summary describes the dataset a result was computed from.
type Summary struct {
	Source  string `json:"source" yaml:"source"`
	Values  int    `json:"values" yaml:"values"`
	Skipped int    `json:"skipped" yaml:"skipped"`
	Zeros   int    `json:"zeros" yaml:"zeros"`
}

func summarize(ds *source.Dataset) Summary {
	return Summary{
		Source:  ds.Source,
		Values:  len(ds.Values),
		Skipped: ds.Skipped,
		Zeros:   ds.Zeros,
	}
}

// ScoreResult is the outcome of scoring a single dataset.
type ScoreResult struct {
	Summary `yaml:",inline"`
	Score   *float64 `json:"score,omitempty" yaml:"score,omitempty"`
	Flagged bool     `json:"flagged" yaml:"flagged"`
	Error   string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// DistResult is the full analysis of a single dataset.
type DistResult struct {
	Summary `yaml:",inline"`
	Report  *benford.Report `json:"report" yaml:"report"`
}

type analysis struct {
	dataset *source.Dataset
	report  *benford.Report
}

func cmdScore(ctx context.Context, cmd *urfave.Command) error {
	start := time.Now()
	list, err := analyzeInputs(ctx, cmd)
	if err != nil {
		return err
	}
	if list == nil {
		return urfave.ShowSubcommandHelp(cmd)
	}

	cfg := getConfig(cmd).Config
	threshold := cfg.Threshold
	if cmd.IsSet(thresholdFlagName) {
		threshold = cmd.Float(thresholdFlagName)
	}

	res := make([]*ScoreResult, 0, len(list))
	for _, a := range list {
		r := &ScoreResult{
			Summary: summarize(a.dataset),
			Score:   a.report.Score,
		}
		if r.Score == nil {
			r.Error = errNotEnoughData.Error()
		} else {
			r.Flagged = *r.Score > threshold
		}
		res = append(res, r)
	}

	slog.Debug("scored", "datasets", len(res), "duration", time.Since(start).String())

	if err := encode(writer(cmd), cfg.Format, res); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}

func cmdDist(ctx context.Context, cmd *urfave.Command) error {
	list, err := analyzeInputs(ctx, cmd)
	if err != nil {
		return err
	}
	if list == nil {
		return urfave.ShowSubcommandHelp(cmd)
	}

	res := make([]*DistResult, 0, len(list))
	for _, a := range list {
		res = append(res, &DistResult{Summary: summarize(a.dataset), Report: a.report})
	}

	if err := encode(writer(cmd), getConfig(cmd).Config.Format, res); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}

// analyzeInputs loads and analyzes every input concurrently. Results keep the
// order of the inputs. A nil list means no inputs were given.
func analyzeInputs(ctx context.Context, cmd *urfave.Command) ([]*analysis, error) {
	targets := cmd.Args().Slice()
	dsn := cmd.String(dsnFlagName)
	query := cmd.String(queryFlagName)

	if query != "" && dsn == "" {
		return nil, errors.New("--query requires --dsn")
	}
	if len(targets) == 0 && query == "" {
		return nil, nil
	}

	opts, err := sourceOptions(cmd, targets)
	if err != nil {
		return nil, err
	}

	loaders := make([]func(context.Context) (*source.Dataset, error), 0, len(targets)+1)
	for _, t := range targets {
		loaders = append(loaders, func(ctx context.Context) (*source.Dataset, error) {
			return source.Load(ctx, t, opts)
		})
	}
	if query != "" {
		loaders = append(loaders, func(ctx context.Context) (*source.Dataset, error) {
			return source.LoadQuery(ctx, dsn, query)
		})
	}

	list := make([]*analysis, len(loaders))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, load := range loaders {
		g.Go(func() error {
			ds, err := load(gctx)
			if err != nil {
				return err
			}
			r, err := benford.Analyze(ds.Values)
			if err != nil {
				return fmt.Errorf("error analyzing %s: %w", ds.Source, err)
			}
			slog.Debug("analyzed", "source", ds.Source, "values", len(ds.Values))
			list[i] = &analysis{dataset: ds, report: r}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return list, nil
}

func sourceOptions(cmd *urfave.Command, targets []string) (source.Options, error) {
	app := getConfig(cmd)
	cfg := *app.Config
	if d := cmd.String(delimiterFlagName); d != "" {
		cfg.Delimiter = d
		if err := cfg.Validate(); err != nil {
			return source.Options{}, err
		}
	}

	opts := source.Options{
		Delimiter: cfg.DelimiterRune(),
		Columns:   cmd.IntSlice(columnFlagName),
		Token:     cmd.String(tokenFlagName),
		Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
	}

	if opts.Token == "" && hasURL(targets) {
		token, err := auth.NewTokenStore(app.Dir).Get()
		switch {
		case err == nil:
			opts.Token = token
		case !errors.Is(err, auth.ErrNoToken):
			slog.Warn("unable to read saved token", "error", err)
		}
	}

	return opts, nil
}

func hasURL(targets []string) bool {
	for _, t := range targets {
		if source.IsURL(t) {
			return true
		}
	}
	return false
}
