package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/doclinks/internal/config"
	"git.home.luguber.info/inful/doclinks/internal/docfs"
	"git.home.luguber.info/inful/doclinks/internal/events"
	"git.home.luguber.info/inful/doclinks/internal/git"
	"git.home.luguber.info/inful/doclinks/internal/linkcheck"
	"git.home.luguber.info/inful/doclinks/internal/logfields"
	"git.home.luguber.info/inful/doclinks/internal/metrics"
	"git.home.luguber.info/inful/doclinks/internal/report"
)

// ErrBrokenLinks is returned by check when the report contains broken links.
var ErrBrokenLinks = errors.New("broken links found")

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Root string `arg:"" optional:"" help:"Documentation root. Defaults to intelligent detection (docs/, documentation/, or .)"`

	Format          string `short:"f" help:"Output format (text or json); overrides config"`
	Quiet           bool   `short:"q" help:"Quiet mode: only list broken links"`
	Workers         int    `short:"w" help:"Documents resolved concurrently; overrides config"`
	SkipCodeBlocks  bool   `name:"skip-code-blocks" help:"Ignore links and headings inside fenced or indented code blocks"`
	MetricsTextfile string `name:"metrics-textfile" help:"Write Prometheus metrics of the run to this file"`
}

// Run executes the check command.
func (c *CheckCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	c.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	docRoot, err := c.resolveRoot(cfg)
	if err != nil {
		return err
	}

	var (
		reg      *prom.Registry
		recorder metrics.Recorder = metrics.NoopRecorder{}
	)
	if cfg.Metrics.Textfile != "" {
		reg = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
	}

	validator := linkcheck.NewValidator(
		docfs.NewOSFS(cfg.Extensions, cfg.Exclude),
		docRoot,
		linkcheck.WithWorkers(cfg.Workers),
		linkcheck.WithSkipCodeBlocks(cfg.SkipCodeBlocks),
		linkcheck.WithCacheSize(cfg.HeadingCacheSize),
		linkcheck.WithRecorder(recorder),
	)
	result, runErr := validator.Run(ctx)

	if reg != nil {
		if err := metrics.WriteTextfile(reg, cfg.Metrics.Textfile); err != nil {
			slog.Warn("Failed to write metrics textfile", "path", cfg.Metrics.Textfile, logfields.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}

	if cfg.Events.Enabled {
		c.publish(ctx, g, cfg, result)
	}

	formatter := report.NewFormatter(cfg.Output.Format, cfg.Output.Quiet)
	if err := formatter.Format(g.Stdout, result); err != nil {
		return err
	}

	if result.HasBroken() {
		return ErrBrokenLinks
	}
	return nil
}

// apply overlays command line flags on the loaded configuration.
func (c *CheckCmd) apply(cfg *config.Config) {
	if c.Root != "" {
		cfg.Root = c.Root
	}
	if c.Format != "" {
		cfg.Output.Format = c.Format
	}
	if c.Quiet {
		cfg.Output.Quiet = true
	}
	if c.Workers != 0 {
		cfg.Workers = c.Workers
	}
	if c.SkipCodeBlocks {
		cfg.SkipCodeBlocks = true
	}
	if c.MetricsTextfile != "" {
		cfg.Metrics.Textfile = c.MetricsTextfile
	}
}

func (c *CheckCmd) resolveRoot(cfg *config.Config) (string, error) {
	if cfg.Root != "" {
		return cfg.Root, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	root, found := config.DetectRoot(cwd)
	if found {
		slog.Debug("Detected documentation directory", logfields.Root(root))
	} else {
		slog.Debug("No documentation directory detected (checked: docs/, documentation/), using working directory", logfields.Root(root))
	}
	return root, nil
}

// publish sends the run event. Failures are logged and never change the result.
func (c *CheckCmd) publish(ctx context.Context, g *Global, cfg *config.Config, result *linkcheck.Report) {
	event := events.NewRunEvent(result)
	if wt, err := git.Open(result.Root); err == nil {
		event.Commit = wt.Commit
		event.Branch = wt.Branch
	}

	pub, err := g.publisher(cfg.Events.NATSURL, cfg.Events.Subject)
	if err != nil {
		slog.Warn("Run event not published", logfields.RunID(result.RunID), logfields.Error(err))
		return
	}
	defer func() { _ = pub.Close() }()

	if err := pub.PublishRun(ctx, event); err != nil {
		slog.Warn("Run event not published", logfields.RunID(result.RunID), logfields.Subject(cfg.Events.Subject), logfields.Error(err))
	}
}
