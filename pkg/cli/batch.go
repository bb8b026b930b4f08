package cli

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mchmarny/jobfraud/pkg/classify"
	"github.com/mchmarny/jobfraud/pkg/feature"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const (
	sourceBatch  = "batch"
	maxLineBytes = 1 << 20
	stdinPath    = "-"

	batchFileFlag   = "file"
	concurrencyFlag = "concurrency"
)

func batchFileFlagDef() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     batchFileFlag,
		Usage:    "Path to a JSON Lines file with one posting per line, - for stdin",
		Required: true,
	}
}

// batchInput is one JSON Lines record. Text, when set, is scored as is.
type batchInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Text        string `json:"text"`
}

func (in batchInput) posting() classify.Posting {
	if in.Text != "" && in.Title == "" && in.Description == "" {
		return classify.Posting{Description: in.Text}
	}
	return classify.Posting{Title: in.Title, Description: in.Description}
}

func (in batchInput) text() string {
	if in.Text != "" {
		return in.Text
	}
	return classify.Posting{Title: in.Title, Description: in.Description}.Text()
}

// batchResult is one output line. Failed records carry the fail-safe label.
type batchResult struct {
	Line        int     `json:"line"`
	Prediction  int     `json:"prediction"`
	Probability float64 `json:"probability"`
	FailSafe    bool    `json:"fail_safe,omitempty"`
	Error       string  `json:"error,omitempty"`
}

type batchRecord struct {
	line  int
	input batchInput
	err   error
}

// readRecords parses every line of r. Blank lines are skipped; malformed
// lines are returned with their parse error.
func readRecords(r io.Reader) ([]batchRecord, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var list []batchRecord
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		rec := batchRecord{line: n}
		if err := json.Unmarshal([]byte(line), &rec.input); err != nil {
			rec.err = fmt.Errorf("parsing line %d: %w", n, err)
		}
		list = append(list, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return list, nil
}

func (a *appConfig) openInput(path string) (io.ReadCloser, error) {
	if path == stdinPath {
		return io.NopCloser(a.stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, nil
}

func (a *appConfig) loadRecords(path string) ([]batchRecord, error) {
	r, err := a.openInput(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return readRecords(r)
}

func batchCmd(a *appConfig) *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Classify postings from a JSON Lines file, one result per line in input order",
		Flags: []cli.Flag{
			batchFileFlagDef(),
			&cli.IntFlag{
				Name:  concurrencyFlag,
				Usage: "Number of postings scored in parallel (default: config batch_concurrency)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			limit := a.cfg.BatchConcurrency
			if cmd.IsSet(concurrencyFlag) {
				limit = int(cmd.Int(concurrencyFlag))
			}
			if limit < 1 {
				return fmt.Errorf("invalid concurrency: %d", limit)
			}

			c, err := a.loadClassifier()
			if err != nil {
				return err
			}
			records, err := a.loadRecords(cmd.String(batchFileFlag))
			if err != nil {
				return err
			}

			results, err := a.runBatch(ctx, c, records, limit)
			if err != nil {
				return err
			}

			e := json.NewEncoder(a.stdout)
			for _, r := range results {
				if err := e.Encode(r); err != nil {
					return fmt.Errorf("writing result: %w", err)
				}
			}
			return nil
		},
	}
}

// runBatch scores records on at most limit goroutines sharing c. Results keep
// the input order; per-record failures resolve to the fail-safe label.
func (a *appConfig) runBatch(ctx context.Context, c *classify.Classifier, records []batchRecord, limit int) ([]*batchResult, error) {
	results := make([]*batchResult, len(records))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, rec := range records {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			var res *classify.Result
			err := rec.err
			if err == nil {
				res, err = c.PredictText(rec.input.text())
			}

			out := &batchResult{Line: rec.line, Prediction: a.failSafe.Resolve(res, err)}
			if err != nil {
				res = nil
				out.FailSafe = true
				out.Error = err.Error()
			} else {
				out.Probability = res.Probability
			}
			results[i] = out

			a.record(ctx, sourceBatch, rec.input.posting(), out.Prediction, res, c.Threshold())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch interrupted: %w", err)
	}

	failed := 0
	for _, r := range results {
		if r.FailSafe {
			failed++
		}
	}
	slog.Debug("batch done", "records", len(results), "failed", failed)
	return results, nil
}

func featuresCmd(a *appConfig) *cli.Command {
	return &cli.Command{
		Name:  "features",
		Usage: "Export the heuristic feature columns of postings as CSV",
		Flags: []cli.Flag{
			batchFileFlagDef(),
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			c, err := a.loadClassifier()
			if err != nil {
				return err
			}
			records, err := a.loadRecords(cmd.String(batchFileFlag))
			if err != nil {
				return err
			}
			return writeFeatures(a.stdout, c, records)
		},
	}
}

func writeFeatures(w io.Writer, c *classify.Classifier, records []batchRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(feature.CSVHeader()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	var errs []error
	for _, rec := range records {
		if rec.err != nil {
			errs = append(errs, rec.err)
			continue
		}
		v := c.Features(rec.input.posting())
		if err := cw.Write(v.CSVRecord()); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return errors.Join(errs...)
}
