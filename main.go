package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"github.com/ytget/media-workbench/internal/config"
	"github.com/ytget/media-workbench/internal/logging"
	"github.com/ytget/media-workbench/internal/platform"
	"github.com/ytget/media-workbench/internal/ui"
	"github.com/ytget/media-workbench/internal/workbench"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.media-workbench"
	AppName = "Media Workbench"
)

func main() {
	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	settings := config.NewSettings(myApp)
	cfg, cfgErr := config.Load(settings.GetWorkerConfigPath())
	if cfgErr != nil {
		cfg = config.Default()
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	logger := logging.New(os.Stderr, level)
	logger.Info("starting", slog.String("app", AppName), slog.String("version", version))
	if cfgErr != nil {
		logger.Warn("using default worker config", slog.String("error", cfgErr.Error()))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt, err := workbench.New(ctx, cfg, logger, workbench.Options{})
	if err != nil {
		logger.Error("failed to start", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logger.Warn("shutdown", slog.String("error", err.Error()))
		}
	}()

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	myWindow.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	ui.NewRootUI(ctx, myWindow, myApp, ui.Services{
		Dispatcher: rt.Dispatcher,
		Store:      rt.Store,
		Tracker:    rt.Tracker,
		Logger:     logger,
	})

	if err := rt.Worker.CheckDependencies(); err != nil {
		logger.Warn("media tools missing", slog.String("error", err.Error()))
		dialog.ShowError(fmt.Errorf("%w\n\n%s", err, platform.InstallHint()), myWindow)
	}

	// cancel in-flight runs before the deferred Close waits on them
	myWindow.SetOnClosed(cancel)
	myWindow.ShowAndRun()
}
