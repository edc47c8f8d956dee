package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/Foodgram/internal/core/ports"
	"github.com/GoArmGo/Foodgram/internal/domain"
)

type catalogLoader struct {
	catalog ports.CatalogStorage
	logger  *slog.Logger
}

// NewCatalogLoader создает загрузчик справочников
func NewCatalogLoader(catalog ports.CatalogStorage, logger *slog.Logger) CatalogLoader {
	return &catalogLoader{catalog: catalog, logger: logger}
}

// LoadIngredients читает CSV без заголовка: название,единица измерения.
// Уже существующие пары пропускаются, так что загрузку можно повторять.
func (l *catalogLoader) LoadIngredients(ctx context.Context, r io.Reader) (LoadReport, error) {
	start := time.Now()

	var ingredients []domain.Ingredient
	err := readCSV(r, 2, func(line int, rec []string) error {
		if rec[0] == "" || rec[1] == "" {
			return fmt.Errorf("строка %d: пустое название или единица измерения", line)
		}
		ingredients = append(ingredients, domain.Ingredient{Name: rec[0], MeasurementUnit: rec[1]})
		return nil
	})
	if err != nil {
		return LoadReport{}, fmt.Errorf("usecase: ошибка чтения ингредиентов: %w", err)
	}

	inserted, err := l.catalog.SaveMissingIngredients(ctx, ingredients)
	if err != nil {
		return LoadReport{}, fmt.Errorf("usecase: ошибка сохранения ингредиентов: %w", err)
	}

	report := LoadReport{Read: len(ingredients), Inserted: inserted, Skipped: len(ingredients) - inserted}
	l.logger.Info("ingredients loaded",
		"read", report.Read,
		"inserted", report.Inserted,
		"skipped", report.Skipped,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

// LoadTags читает CSV без заголовка: название,цвет,слаг.
// Теги с уже занятым слагом пропускаются.
func (l *catalogLoader) LoadTags(ctx context.Context, r io.Reader) (LoadReport, error) {
	start := time.Now()

	var tags []domain.Tag
	err := readCSV(r, 3, func(line int, rec []string) error {
		tag := domain.Tag{Name: rec[0], Color: strings.ToUpper(rec[1]), Slug: rec[2]}
		switch {
		case tag.Name == "":
			return fmt.Errorf("строка %d: пустое название тега", line)
		case !domain.ValidTagColor(tag.Color):
			return fmt.Errorf("строка %d: цвет %q не в формате HEX", line, rec[1])
		case !domain.ValidTagSlug(tag.Slug):
			return fmt.Errorf("строка %d: недопустимый слаг %q", line, tag.Slug)
		}
		tags = append(tags, tag)
		return nil
	})
	if err != nil {
		return LoadReport{}, fmt.Errorf("usecase: ошибка чтения тегов: %w", err)
	}

	inserted, err := l.catalog.SaveMissingTags(ctx, tags)
	if err != nil {
		return LoadReport{}, fmt.Errorf("usecase: ошибка сохранения тегов: %w", err)
	}

	report := LoadReport{Read: len(tags), Inserted: inserted, Skipped: len(tags) - inserted}
	l.logger.Info("tags loaded",
		"read", report.Read,
		"inserted", report.Inserted,
		"skipped", report.Skipped,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

// readCSV вызывает fn для каждой непустой строки с ровно columns полями.
func readCSV(r io.Reader, columns int, fn func(line int, rec []string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		line, _ := cr.FieldPos(0)

		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) != columns {
			return fmt.Errorf("строка %d: ожидалось %d колонок, получено %d", line, columns, len(rec))
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		if err := fn(line, rec); err != nil {
			return err
		}
	}
}
