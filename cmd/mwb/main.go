// Command mwb runs the workbench media commands without the desktop UI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ytget/media-workbench/internal/config"
	"github.com/ytget/media-workbench/internal/logging"
	"github.com/ytget/media-workbench/internal/workbench"
)

var version = "dev"

// Globals are the flags shared by every command
type Globals struct {
	Config   string `help:"Worker config file (defaults to the user config dir)" type:"path"`
	LogLevel string `help:"Log level (debug, info, warn, error)" name:"log-level"`
	Quiet    bool   `help:"Hide the progress bar" short:"q"`
}

type CLI struct {
	Globals

	Extract ExtractCmd       `cmd:"" help:"Extract the audio track of a video"`
	Slice   SliceCmd         `cmd:"" help:"Cut a video into fixed length segments"`
	Info    InfoCmd          `cmd:"" help:"Print media information of a file"`
	Open    OpenCmd          `cmd:"" help:"Open a folder in the file manager"`
	Version kong.VersionFlag `help:"Print the version and exit"`
}

// loadConfig resolves the config path, reads it and applies --log-level
func (g *Globals) loadConfig() (*config.Config, error) {
	path := g.Config
	if path == "" {
		if p, err := config.ConfigPath(); err == nil {
			path = p
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		if _, err := logging.ParseLevel(g.LogLevel); err != nil {
			return nil, err
		}
		cfg.Log.Level = g.LogLevel
	}
	return cfg, nil
}

// open builds the runtime for one command. The returned func closes it.
func (g *Globals) open(ctx context.Context) (*workbench.Runtime, *slog.Logger, func(), error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	level, _ := logging.ParseLevel(cfg.Log.Level)
	logger := logging.New(os.Stderr, level)

	rt, err := workbench.New(ctx, cfg, logger, workbench.Options{DisableWatch: true})
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() {
		if err := rt.Close(); err != nil {
			logger.Warn("shutdown", slog.String("error", err.Error()))
		}
	}
	return rt, logger, closeFn, nil
}

func parserOptions(ctx context.Context) []kong.Option {
	return []kong.Option{
		kong.Name("mwb"),
		kong.Description("Media workbench: audio extraction and video slicing with ffmpeg."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		kong.BindTo(ctx, (*context.Context)(nil)),
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli CLI
	kctx := kong.Parse(&cli, parserOptions(ctx)...)
	err := kctx.Run(&cli.Globals)
	kctx.FatalIfErrorf(err)
}
