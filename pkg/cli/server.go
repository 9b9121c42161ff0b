package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mchmarny/benford/pkg/benford"
	"github.com/mchmarny/benford/pkg/config"
	"github.com/mchmarny/benford/pkg/source"
	urfave "github.com/urfave/cli/v3"
)

const (
	serverShutdownWaitSeconds = 5
	serverTimeoutSeconds      = 300
	serverMaxHeaderBytes      = 20
	serverMaxBodyBytes        = 64 << 20
	serverPortDefault         = 8080
)

const portFlagName = "port"

func newServerCmd() *urfave.Command {
	return &urfave.Command{
		Name:    "server",
		Aliases: []string{"serve"},
		Usage:   "Start local HTTP API",
		Action:  cmdStartServer,
		Flags: []urfave.Flag{
			&urfave.IntFlag{
				Name:  portFlagName,
				Usage: "Port on which the server will listen",
				Value: serverPortDefault,
			},
		},
	}
}

// ScoreRequest is the JSON body accepted by the API.
type ScoreRequest struct {
	Set []json.Number `json:"set"`
}

// ScoreResponse is returned by the score endpoint.
type ScoreResponse struct {
	Values  int     `json:"values"`
	Score   float64 `json:"score"`
	Flagged bool    `json:"flagged"`
}

func cmdStartServer(ctx context.Context, cmd *urfave.Command) error {
	cfg := getConfig(cmd).Config
	address := fmt.Sprintf("127.0.0.1:%d", cmd.Int(portFlagName))

	s := &http.Server{
		Addr:           address,
		Handler:        makeRouter(cfg),
		ReadTimeout:    serverTimeoutSeconds * time.Second,
		WriteTimeout:   serverTimeoutSeconds * time.Second,
		MaxHeaderBytes: 1 << serverMaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	slog.Info("server started", "address", "http://"+address)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error starting server: %w", err)
		}
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), serverShutdownWaitSeconds*time.Second)
	defer cancel()

	if err := s.Shutdown(sctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("error shutting down server", "error", err)
	}
	return nil
}

func makeRouter(cfg *config.Config) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	mux.HandleFunc("POST /api/score", scoreAPIHandler(cfg))
	mux.HandleFunc("POST /api/distribution", distributionAPIHandler(cfg))
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version})
}

// readSet decodes the request body: JSON {"set": [...]} or delimited text.
func readSet(w http.ResponseWriter, r *http.Request, cfg *config.Config) ([]int64, error) {
	body := http.MaxBytesReader(w, r.Body, serverMaxBodyBytes)

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "application/json" {
		var req ScoreRequest
		dec := json.NewDecoder(body)
		dec.UseNumber()
		if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		return toSet(req.Set)
	}

	ds, err := source.Parse(body, "request", source.Options{Delimiter: cfg.DelimiterRune()})
	if err != nil {
		return nil, err
	}
	return ds.Values, nil
}

func readErrorStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// toSet converts JSON numbers into integers. Integral floats such as 1e3 are
// accepted, anything else fails with benford.ErrInvalidInput.
func toSet(nums []json.Number) ([]int64, error) {
	raw := make([]string, len(nums))
	for i, n := range nums {
		raw[i] = n.String()
	}

	set, err := benford.ParseSet(raw)
	if err == nil {
		return set, nil
	}

	floats := make([]float64, len(nums))
	for i, n := range nums {
		f, ferr := n.Float64()
		if ferr != nil {
			return nil, err
		}
		floats[i] = f
	}
	return benford.FromFloats(floats)
}

func scoreAPIHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		set, err := readSet(w, r, cfg)
		if err != nil {
			writeError(w, readErrorStatus(err), err.Error())
			return
		}

		score, err := benford.ScoreFromSet(set)
		if err != nil {
			slog.Debug("score failed", "values", len(set), "error", err)
			writeError(w, http.StatusUnprocessableEntity, errNotEnoughData.Error())
			return
		}

		writeJSON(w, http.StatusOK, &ScoreResponse{
			Values:  len(set),
			Score:   score,
			Flagged: score > cfg.Threshold,
		})
	}
}

func distributionAPIHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		set, err := readSet(w, r, cfg)
		if err != nil {
			writeError(w, readErrorStatus(err), err.Error())
			return
		}

		report, err := benford.Analyze(set)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}
