package cli

import (
	"context"
	"errors"

	"github.com/mchmarny/jobfraud/pkg/data"
	"github.com/urfave/cli/v3"
)

const (
	historyLimitDefault = 20
	historyLimitFlag    = "limit"
)

type historyResult struct {
	Summary     *data.Summary      `json:"summary" yaml:"summary"`
	Predictions []*data.Prediction `json:"predictions" yaml:"predictions"`
}

func historyCmd(a *appConfig) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recently recorded predictions",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  historyLimitFlag,
				Usage: "Limits number of predictions returned",
				Value: historyLimitDefault,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := a.requireConfig(); err != nil {
				return err
			}
			if a.cfg.HistoryDSN == "" {
				return errors.New("history store not configured, set --history or " + envHistory)
			}
			s := a.store()
			if s == nil {
				return data.ErrNotInitialized
			}

			list, err := s.ListPredictions(ctx, int(cmd.Int(historyLimitFlag)))
			if err != nil {
				return err
			}
			sum, err := s.Summarize(ctx)
			if err != nil {
				return err
			}
			return a.encode(&historyResult{Summary: sum, Predictions: list})
		},
	}
}
