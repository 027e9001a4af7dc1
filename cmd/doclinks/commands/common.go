package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/doclinks/internal/config"
	"git.home.luguber.info/inful/doclinks/internal/events"
)

// PublisherFactory opens a run event publisher.
type PublisherFactory func(url, subject string) (events.Publisher, error)

// Global carries process-wide dependencies bound into every command.
type Global struct {
	Stdout io.Writer
	Stderr io.Writer
	// NewPublisher opens the event publisher; NATS JetStream when nil.
	NewPublisher PublisherFactory
}

// NewGlobal returns a Global writing to the process streams.
func NewGlobal() *Global {
	return &Global{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (g *Global) publisher(url, subject string) (events.Publisher, error) {
	if g.NewPublisher != nil {
		return g.NewPublisher(url, subject)
	}
	pub, err := events.NewNATSPublisher(url, subject)
	if err != nil {
		return nil, err
	}
	return pub, nil
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default .doclinks.yaml when present)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Check   CheckCmd   `cmd:"" default:"withargs" help:"Check links and heading anchors under a documentation root"`
	Anchors AnchorsCmd `cmd:"" help:"List the heading anchors of a markdown file"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(g.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig reads the configuration. An explicit --config must exist; the
// default path is optional.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.Config == "" {
		return config.Load(config.DefaultPath, false)
	}
	return config.Load(c.Config, true)
}
