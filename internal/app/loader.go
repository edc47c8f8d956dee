package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/GoArmGo/Foodgram/internal/metrics"
	"github.com/GoArmGo/Foodgram/internal/usecase"
)

type loadFunc func(ctx context.Context, r io.Reader) (usecase.LoadReport, error)

// runLoader загружает справочник catalog из CSV-файла path
func runLoader(ctx context.Context, load loadFunc, catalog, path string, logger *slog.Logger) error {
	if path == "" {
		return errors.New("не указан путь к CSV-файлу (-file)")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("не удалось открыть %s: %w", path, err)
	}
	defer f.Close()

	start := time.Now()
	report, err := load(ctx, f)
	if err != nil {
		return fmt.Errorf("загрузка %s из %s: %w", catalog, path, err)
	}
	metrics.CatalogRowsLoaded.WithLabelValues(catalog).Add(float64(report.Inserted))

	logger.Info("catalog loaded",
		"catalog", catalog,
		"file", path,
		"read", report.Read,
		"inserted", report.Inserted,
		"skipped", report.Skipped,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
