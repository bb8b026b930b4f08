package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mchmarny/jobfraud/pkg/classify"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

const (
	sourceServer = "serve"

	serverShutdownWaitSeconds = 5
	serverTimeoutSeconds      = 30
	serverMaxHeaderBytes      = 20
	serverMaxBodyBytes        = 1 << 20

	portFlag = "port"
	rateFlag = "rate"
)

func serverCmd(a *appConfig) *cli.Command {
	return &cli.Command{
		Name:    "server",
		Aliases: []string{"serve"},
		Usage:   "Start local HTTP prediction server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  portFlag,
				Usage: "Port on which the server will listen (default: config server.port)",
			},
			&cli.FloatFlag{
				Name:  rateFlag,
				Usage: "Requests per second accepted on /predict (default: config server.rate_per_second)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, err := a.loadClassifier()
			if err != nil {
				return err
			}

			port := a.cfg.Server.Port
			if cmd.IsSet(portFlag) {
				port = int(cmd.Int(portFlag))
			}
			rps := a.cfg.Server.RatePerSecond
			if cmd.IsSet(rateFlag) {
				rps = cmd.Float(rateFlag)
			}
			if rps <= 0 {
				return fmt.Errorf("invalid rate: %v", rps)
			}

			lim := rate.NewLimiter(rate.Limit(rps), a.cfg.Server.Burst)
			return a.serve(ctx, fmt.Sprintf("127.0.0.1:%d", port), makeRouter(c, lim, a))
		},
	}
}

func (a *appConfig) serve(ctx context.Context, address string, h http.Handler) error {
	s := &http.Server{
		Addr:           address,
		Handler:        h,
		ReadTimeout:    serverTimeoutSeconds * time.Second,
		WriteTimeout:   serverTimeoutSeconds * time.Second,
		MaxHeaderBytes: 1 << serverMaxHeaderBytes,
	}

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
			return fmt.Errorf("starting server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), serverShutdownWaitSeconds*time.Second)
	defer cancel()

	if err := s.Shutdown(sctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("error shutting down server", "error", err)
	}
	return nil
}

// recorder persists predictions made by the server.
type recorder interface {
	record(ctx context.Context, source string, p classify.Posting, label int, res *classify.Result, threshold float64)
}

func makeRouter(c *classify.Classifier, lim *rate.Limiter, rec recorder) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	mux.Handle("POST /predict", limit(lim, predictHandler(c, rec)))
	return mux
}

func limit(lim *rate.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !lim.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
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
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// predictRequest accepts either title and description or free text.
type predictRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Text        string `json:"text"`
}

func predictHandler(c *classify.Classifier, rec recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req predictRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, serverMaxBodyBytes)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		p := classify.Posting{Title: req.Title, Description: req.Description}
		text := p.Text()
		if req.Text != "" {
			text = req.Text
			p = classify.Posting{Description: req.Text}
		}
		if strings.TrimSpace(text) == "" {
			writeError(w, http.StatusBadRequest, "title, description or text required")
			return
		}

		res, err := c.PredictText(text)
		if err != nil {
			slog.Error("failed to predict", "error", err)
			writeError(w, http.StatusInternalServerError, "prediction failed")
			return
		}

		if rec != nil {
			rec.record(r.Context(), sourceServer, p, res.Prediction, res, c.Threshold())
		}
		writeJSON(w, http.StatusOK, res)
	}
}
