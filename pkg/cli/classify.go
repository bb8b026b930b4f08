package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mchmarny/jobfraud/pkg/classify"
	"github.com/mchmarny/jobfraud/pkg/config"
	"github.com/mchmarny/jobfraud/pkg/net"
	"github.com/urfave/cli/v3"
)

const (
	sourceCLI     = "cli"
	sourcePredict = "predict"
	sourceURL     = "url"
)

var errUsage = errors.New("usage: " + appName + " [--] TITLE DESCRIPTION | " + appName + " [--] FILE")

// cmdClassify is the root action. It always prints exactly one digit on
// stdout and never returns an error.
func (a *appConfig) cmdClassify(ctx context.Context, cmd *cli.Command) error {
	p, err := postingFromArgs(cmd.Args().Slice())
	if err != nil {
		a.printFailSafe(err)
		return nil
	}

	var (
		res       *classify.Result
		threshold float64
	)
	label := a.safeLabel(func() (*classify.Result, error) {
		c, err := a.loadClassifier()
		if err != nil {
			return nil, err
		}
		threshold = c.Threshold()
		res, err = c.Classify(p.Title, p.Description)
		if err != nil {
			res = nil
		}
		return res, err
	})
	fmt.Fprintln(a.stdout, label)

	a.record(ctx, sourceCLI, p, label, res, threshold)
	return nil
}

// safeLabel resolves the label of fn, mapping errors and panics to the
// fail-safe label.
func (a *appConfig) safeLabel(fn func() (*classify.Result, error)) (label int) {
	defer func() {
		if r := recover(); r != nil {
			label = a.failSafe.Resolve(nil, fmt.Errorf("panic: %v", r))
		}
	}()
	return a.failSafe.Resolve(fn())
}

func (a *appConfig) printFailSafe(err error) {
	fmt.Fprintln(a.stdout, a.failSafe.Resolve(nil, err))
}

// postingFromArgs accepts either a title and a description or a single path
// to a text file whose first line is the title.
func postingFromArgs(args []string) (classify.Posting, error) {
	switch len(args) {
	case 2:
		return classify.Posting{Title: args[0], Description: args[1]}, nil
	case 1:
		b, err := os.ReadFile(args[0])
		if err != nil {
			return classify.Posting{}, fmt.Errorf("reading posting file: %w", err)
		}
		return classify.ParseFile(string(b)), nil
	default:
		return classify.Posting{}, fmt.Errorf("%w (got %d arguments)", errUsage, len(args))
	}
}

func predictCmd(a *appConfig) *cli.Command {
	return &cli.Command{
		Name:      "predict",
		Usage:     "Score free text and print prediction with probability",
		ArgsUsage: "TEXT",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			text := strings.Join(cmd.Args().Slice(), " ")
			if strings.TrimSpace(text) == "" {
				return errors.New("text required")
			}

			c, err := a.loadClassifier()
			if err != nil {
				return err
			}
			res, err := c.PredictText(text)
			if err != nil {
				return err
			}
			a.record(ctx, sourcePredict, classify.Posting{Description: text}, res.Prediction, res, c.Threshold())
			return a.encode(res)
		},
	}
}

// urlResult is the url command output.
type urlResult struct {
	URL         string  `json:"url" yaml:"url"`
	Prediction  int     `json:"prediction" yaml:"prediction"`
	Probability float64 `json:"probability" yaml:"probability"`
	Text        string  `json:"text" yaml:"text"`
}

func urlCmd(a *appConfig) *cli.Command {
	return &cli.Command{
		Name:      "url",
		Usage:     "Fetch a job posting page and classify its visible text",
		ArgsUsage: "ADDRESS",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return errors.New("exactly one address required")
			}
			addr := cmd.Args().First()

			c, err := a.loadClassifier()
			if err != nil {
				return err
			}

			text, err := fetchPage(ctx, a.cfg.Fetch, addr)
			if err != nil {
				return err
			}
			if text == "" {
				return fmt.Errorf("no visible text at %s", addr)
			}
			slog.Debug("page text", "url", addr, "chars", len(text))

			res, err := c.PredictText(text)
			if err != nil {
				return err
			}
			a.record(ctx, sourceURL, classify.Posting{Title: addr, Description: text}, res.Prediction, res, c.Threshold())
			return a.encode(&urlResult{
				URL:         addr,
				Prediction:  res.Prediction,
				Probability: res.Probability,
				Text:        text,
			})
		},
	}
}

func fetchPage(ctx context.Context, cfg config.Fetch, addr string) (string, error) {
	f, err := net.NewFetcher(cfg.Timeout(), cfg.RatePerSecond)
	if err != nil {
		return "", err
	}
	return f.FetchText(ctx, addr)
}

func explainCmd(a *appConfig) *cli.Command {
	return &cli.Command{
		Name:      "explain",
		Usage:     "Show the intermediate values behind a prediction",
		ArgsUsage: "TITLE DESCRIPTION | FILE",
		Action: func(_ context.Context, cmd *cli.Command) error {
			p, err := postingFromArgs(cmd.Args().Slice())
			if err != nil {
				return err
			}
			c, err := a.loadClassifier()
			if err != nil {
				return err
			}
			e, err := c.Explain(p.Text())
			if err != nil {
				return err
			}
			return a.encode(e)
		},
	}
}
