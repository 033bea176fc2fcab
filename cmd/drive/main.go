package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"drive/internal/config"
	"drive/internal/game"
	"drive/internal/term"
)

type cli struct {
	ConfigFile string `name:"config" help:"YAML configuration file (default: ./drive.yaml if present)." type:"path" short:"c"`
	Seed       uint64 `help:"Layout seed; overrides world.seed. 0 keeps the configured value."`
	Debug      bool   `help:"Whether to enable debug logging."`

	Run struct {
	} `cmd:"" default:"1" help:"Drive in a desktop window."`

	Term struct {
		LogFile string `help:"Write logs to this file while the terminal is in use." type:"path"`
	} `cmd:"" help:"Drive in the terminal, top-down."`

	Cube struct {
	} `cmd:"" help:"Show a spinning cube to check that rendering works."`

	Dump struct {
	} `cmd:"" name:"config" help:"Write the default configuration to standard output."`
}

var CLI cli

func (c *cli) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.ConfigFile)
	if err != nil {
		return nil, err
	}
	if c.Seed != 0 {
		cfg.World.Seed = c.Seed
	}
	if !c.Debug {
		level, err := zerolog.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("log.level: %w", err)
		}
		zerolog.SetGlobalLevel(level)
	}
	return cfg, nil
}

// termLogger keeps log output off the screen while tcell owns it.
func termLogger(path string) (zerolog.Logger, func(), error) {
	if path == "" {
		return zerolog.Nop(), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	return zerolog.New(f).With().Timestamp().Logger(), func() { f.Close() }, nil
}

func (c *cli) runTerm() error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := termLogger(c.Term.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return term.Run(ctx, cfg, logger)
}

func (c *cli) dispatch(command string) error {
	switch command {
	case "run":
		cfg, err := c.loadConfig()
		if err != nil {
			return err
		}
		return game.RunDesktop(cfg)
	case "term":
		return c.runTerm()
	case "cube":
		cfg, err := c.loadConfig()
		if err != nil {
			return err
		}
		return game.RunCube(cfg)
	case "config":
		return config.WriteDefault(os.Stdout)
	}
	return fmt.Errorf("unknown command %q", command)
}

func main() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx := kong.Parse(&CLI,
		kong.Name("drive"),
		kong.Description("a procedural low-poly driving sandbox"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if CLI.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Warn().Msg("debug logging enabled")
	}

	// Every deferred cleanup inside dispatch has run by the time we exit.
	if err := CLI.dispatch(ctx.Command()); err != nil {
		log.Error().Err(err).Msg("fatal")
		os.Exit(1)
	}
}
