package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/GoArmGo/Foodgram/internal/di"
)

func main() {

	mode := flag.String("mode", "server", "Режим запуска: server, worker, load-ingredients или load-tags")
	file := flag.String("file", "", "CSV-файл для режимов load-ingredients и load-tags")
	flag.Parse()

	// bootstrap-логгер (используется только на этапе инициализации т.к еще не создал slogger)
	bootstrapLogger := slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)
	bootstrapLogger.Info("starting application", "mode", *mode)

	ctx := context.Background()

	app, err := di.BuildApp(ctx, *mode)
	if err != nil {
		bootstrapLogger.Error("failed to build app", "error", err)
		os.Exit(1)
	}

	slog := app.LoggerIns()
	slog.Info("application initialized successfully")

	if err := app.Run(ctx, *mode, *file); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}

	slog.Info("application stopped gracefully")
}
