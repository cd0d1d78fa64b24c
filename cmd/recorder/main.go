// Command recorder records a time-elapse video: it samples one frame from the
// camera every interval, pipes the frames into an encoder and keeps a live
// preview updated in between.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vedantwpatil/time-elapse-recorder/internal/app"
	"github.com/vedantwpatil/time-elapse-recorder/internal/capture"
	"github.com/vedantwpatil/time-elapse-recorder/internal/config"
	"github.com/vedantwpatil/time-elapse-recorder/internal/encoding"
	"github.com/vedantwpatil/time-elapse-recorder/internal/hotkey"
	"github.com/vedantwpatil/time-elapse-recorder/internal/inspect"
	"github.com/vedantwpatil/time-elapse-recorder/internal/opencv"
	"github.com/vedantwpatil/time-elapse-recorder/internal/pacing"
	"github.com/vedantwpatil/time-elapse-recorder/internal/preview"
	"github.com/vedantwpatil/time-elapse-recorder/internal/recording"
	"github.com/vedantwpatil/time-elapse-recorder/internal/session"
)

var errStopHotkey = errors.New("stop hotkey pressed")

func init() {
	// highgui has to run on the main thread on macOS.
	runtime.LockOSThread()
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)
	sigCtx, stopNotify := signal.NotifyContext(ctx, stopSignals...)
	defer stopNotify()
	context.AfterFunc(sigCtx, func() { cancel(errors.New("interrupted")) })

	started, err := app.Start(ctx, os.Args[0], os.Args[1:], os.Stderr, app.Deps{
		CheckEncoder: encoding.Preflight,
		OpenSource:   capture.Open,
	})
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		}
		return app.ExitCode(err)
	}
	cfg, src, combo := started.Config, started.Source, started.Hotkey

	level, _ := log.ParseLevel(cfg.LogLevel)
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	start := time.Now()
	outputPath := recording.OutputPath(cfg.Recording.OutputDir, start, encoding.Extension(cfg.Recording.Encoder))
	sink, err := encoding.Open(cfg.Recording.Encoder, encoding.Options{
		Path:        outputPath,
		Shape:       src.Shape(),
		FPS:         cfg.Recording.OutputFPS,
		CRF:         cfg.Recording.CRF,
		JPEGQuality: cfg.Recording.JPEGQuality,
	})
	if err != nil {
		log.Error(err)
		if cerr := src.Close(); cerr != nil {
			log.Warn(cerr)
		}
		return app.ExitFailure
	}
	rec := recording.NewRecorder(sink, outputPath)

	var window preview.Window
	if cfg.Preview.Backend == config.PreviewOpenCV {
		window = opencv.NewWindow(cfg.Preview.WindowName)
	} else {
		window = preview.NewHeadless()
	}
	display := preview.New(window, cfg.Recording.OutputFPS, preview.WithSize(cfg.Preview.DisplaySize))

	pacer := pacing.NewForceFPS(cfg.SamplingInterval(), cfg.Preview.DisplayFPS)
	sess := session.New(src, pacer, rec, display, session.Options{
		Interval:   cfg.SamplingInterval(),
		OutputFPS:  cfg.Recording.OutputFPS,
		OutputPath: outputPath,
	})

	if combo != nil {
		go hotkey.Listen(ctx, combo, func() { cancel(errStopHotkey) })
	}

	log.WithFields(log.Fields{
		"source":   cfg.Capture.Source,
		"shape":    src.Shape(),
		"interval": cfg.SamplingInterval(),
		"output":   outputPath,
	}).Info("Recording started. Press q or ESC in the preview window, or Ctrl-C, to stop.")

	runErr := sess.Run(ctx)
	summary, shutdownErr := sess.Shutdown()
	cancel(nil)

	if runErr != nil {
		log.Errorf("Recording aborted: %v", runErr)
	}
	if shutdownErr != nil {
		log.Errorf("Cleanup failed: %v", shutdownErr)
	}

	if info, err := inspect.Inspect(outputPath); err != nil {
		log.Debugf("Could not inspect output: %v", err)
	} else {
		summary.Info = &info
	}
	fmt.Println(summary.Render())

	if runErr != nil || shutdownErr != nil {
		return app.ExitFailure
	}
	return app.ExitOK
}
