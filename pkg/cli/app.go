package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/mchmarny/jobfraud/pkg/classify"
	"github.com/mchmarny/jobfraud/pkg/config"
	"github.com/mchmarny/jobfraud/pkg/data"
	"github.com/mchmarny/jobfraud/pkg/logging"
	"github.com/mchmarny/jobfraud/pkg/model"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	appName   = "jobfraud"
	toolsName = appName + "-tools"

	formatJSON = "json"
	formatYAML = "yaml"

	envArtifacts = "JOBFRAUD_ARTIFACTS"
	envConfig    = "JOBFRAUD_CONFIG"
	envHistory   = "JOBFRAUD_HISTORY"

	debugFlag     = "debug"
	artifactsFlag = "artifacts"
	configFlag    = "config"
	formatFlag    = "format"
	failSafeFlag  = "fail-safe-label"
	historyFlag   = "history"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""
)

// Execute runs the classifier. It prints exactly one digit on stdout.
func Execute() {
	execute(newApp)
}

// ExecuteTools runs the companion commands (predict, url, batch, server...).
func ExecuteTools() {
	execute(newToolsApp)
}

func execute(build func(io.Reader, io.Writer, io.Writer) *cli.Command) {
	logging.SetDefaultCLILogger("info")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app := build(os.Stdin, os.Stdout, os.Stderr)
	err := app.Run(ctx, os.Args)
	stop()
	if err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

// appConfig is the per-invocation state shared by all commands.
type appConfig struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg      *config.Config
	cfgErr   error
	format   string
	failSafe classify.FailSafe

	mu      sync.Mutex
	history *data.Store
}

func newAppConfig(stdin io.Reader, stdout, stderr io.Writer) *appConfig {
	return &appConfig{
		stdin:    stdin,
		stdout:   stdout,
		stderr:   stderr,
		cfg:      config.Default(),
		format:   formatJSON,
		failSafe: classify.DefaultFailSafe,
	}
}

// newApp builds the classifier. It has no subcommands so that any title,
// including one that reads like a command name, is classified. Flag parsing
// stops after the title, so a description may start with a dash.
func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	a := newAppConfig(stdin, stdout, stderr)
	afterTitle := 1

	return &cli.Command{
		Name:    appName,
		Version: fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Usage:   "Classify job postings as fraudulent (1) or legitimate (0)",
		UsageText: appName + " [flags] [--] TITLE DESCRIPTION\n" +
			appName + " [flags] [--] FILE\n\n" +
			"Use -- before a title that starts with a dash.",
		HideHelpCommand: true,
		StopOnNthArg:    &afterTitle,
		Writer:          stdout,
		ErrWriter:       stderr,
		Flags:           globalFlags(),
		Before:          a.before,
		After:           a.after,
		Action:          a.cmdClassify,
		OnUsageError: func(_ context.Context, _ *cli.Command, err error, _ bool) error {
			a.printFailSafe(fmt.Errorf("usage: %w", err))
			return nil
		},
	}
}

// newToolsApp builds the companion commands. They live in their own binary
// so their names never shadow a posting title.
func newToolsApp(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	a := newAppConfig(stdin, stdout, stderr)

	return &cli.Command{
		Name:            toolsName,
		Version:         fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Usage:           "Job posting fraud model tools",
		HideHelpCommand: true,
		Writer:          stdout,
		ErrWriter:       stderr,
		Flags:           globalFlags(),
		Commands: []*cli.Command{
			predictCmd(a),
			urlCmd(a),
			explainCmd(a),
			featuresCmd(a),
			batchCmd(a),
			historyCmd(a),
			serverCmd(a),
			configCmd(a),
		},
		Before: a.before,
		After:  a.after,
	}
}

// globalFlags returns fresh flag instances; urfave keeps parsed state on the
// flag values themselves.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  debugFlag,
			Usage: "Prints verbose logs to stderr (optional, default: false)",
		},
		&cli.StringFlag{
			Name:    artifactsFlag,
			Usage:   "Directory holding the model artifacts (default: config artifact_dir)",
			Sources: cli.EnvVars(envArtifacts),
		},
		&cli.StringFlag{
			Name:    configFlag,
			Usage:   fmt.Sprintf("Path to the config file (default: $HOME/.%s/%s)", appName, config.FileName),
			Sources: cli.EnvVars(envConfig),
		},
		&cli.StringFlag{
			Name:  formatFlag,
			Usage: "Output format [json, yaml]",
			Value: formatJSON,
		},
		&cli.IntFlag{
			Name:  failSafeFlag,
			Usage: "Label printed when classification fails [0, 1] (default: config fail_safe_label)",
		},
		&cli.StringFlag{
			Name:    historyFlag,
			Usage:   "Prediction history: sqlite file path or postgres:// URL (default: off)",
			Sources: cli.EnvVars(envHistory),
		},
	}
}

// before resolves configuration. Failures are kept on the app config rather
// than returned so the root action can still print the fail-safe label.
func (a *appConfig) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level := "info"

	path := cmd.String(configFlag)
	if path == "" {
		path = defaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		a.cfgErr = err
	} else {
		a.cfg = cfg
		level = cfg.LogLevel
	}

	if cmd.Bool(debugFlag) {
		level = "debug"
	}
	slog.SetDefault(logging.NewLogger(a.stderr, level))
	if a.cfgErr != nil {
		slog.Error("loading config", "error", a.cfgErr)
	}

	if dir := cmd.String(artifactsFlag); dir != "" {
		a.cfg.ArtifactDir = dir
	}
	if dsn := cmd.String(historyFlag); dsn != "" {
		a.cfg.HistoryDSN = dsn
	}
	if cmd.IsSet(failSafeFlag) {
		a.cfg.FailSafeLabel = int(cmd.Int(failSafeFlag))
	}

	fs, err := classify.NewFailSafe(a.cfg.FailSafeLabel)
	if err != nil {
		slog.Error("invalid fail-safe label, using default", "label", a.cfg.FailSafeLabel, "error", err)
		if a.cfgErr == nil {
			a.cfgErr = err
		}
	} else {
		a.failSafe = fs
	}

	switch f := strings.ToLower(cmd.String(formatFlag)); f {
	case formatYAML, "yml":
		a.format = formatYAML
	case formatJSON, "":
		a.format = formatJSON
	default:
		slog.Warn("unknown output format, using json", "format", f)
	}

	slog.Debug("config resolved",
		"config", path,
		"artifacts", a.cfg.ArtifactDir,
		"fail_safe_label", a.failSafe.Label,
		"history", a.cfg.HistoryDSN != "")

	return ctx, nil
}

func (a *appConfig) after(_ context.Context, _ *cli.Command) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.history != nil {
		if err := a.history.Close(); err != nil {
			slog.Warn("closing history store", "error", err)
		}
		a.history = nil
	}
	return nil
}

// requireConfig returns the config load error for commands that must not
// run on defaults after a broken config file.
func (a *appConfig) requireConfig() error {
	if a.cfgErr != nil {
		return fmt.Errorf("invalid configuration: %w", a.cfgErr)
	}
	return nil
}

// loadClassifier reads the artifacts once for the running command.
func (a *appConfig) loadClassifier() (*classify.Classifier, error) {
	if err := a.requireConfig(); err != nil {
		return nil, err
	}
	b, err := model.Load(a.cfg.ArtifactDir)
	if err != nil {
		return nil, fmt.Errorf("loading artifacts from %s: %w", a.cfg.ArtifactDir, err)
	}
	return classify.New(b)
}

// store opens the history store on first use. A nil store means recording
// is disabled or unavailable.
func (a *appConfig) store() *data.Store {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.history != nil || a.cfg.HistoryDSN == "" {
		return a.history
	}
	s, err := data.Open(a.cfg.HistoryDSN)
	if err != nil {
		slog.Warn("history store unavailable", "error", err)
		a.cfg.HistoryDSN = ""
		return nil
	}
	a.history = s
	return s
}

// record appends a prediction to the history store. Failures only warn.
func (a *appConfig) record(ctx context.Context, source string, p classify.Posting, label int, res *classify.Result, threshold float64) {
	s := a.store()
	if s == nil {
		return
	}

	rec := &data.Prediction{
		Source:     source,
		Title:      p.Title,
		Excerpt:    p.Description,
		Prediction: label,
		Threshold:  threshold,
		FailSafe:   res == nil,
	}
	if res != nil {
		rec.Probability = res.Probability
	}
	if err := s.SavePrediction(ctx, rec); err != nil {
		slog.Warn("recording prediction", "error", err)
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Debug("error getting home dir, skipping config file", "error", err)
		return ""
	}
	return filepath.Join(home, "."+appName, config.FileName)
}

func (a *appConfig) encode(v any) error {
	return encode(a.stdout, a.format, v)
}

func encode(w io.Writer, format string, v any) error {
	if format == formatYAML {
		e := yaml.NewEncoder(w)
		defer e.Close()
		return e.Encode(v)
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
