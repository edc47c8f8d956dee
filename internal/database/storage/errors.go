package storage

import (
	"errors"
	"strings"

	"github.com/GoArmGo/Foodgram/internal/domain"
	"gorm.io/gorm"
)

// translateError переводит ошибки GORM в доменные.
// Остальные ошибки возвращаются как есть.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrAlreadyExists
	}
	return err
}

// escapeLike экранирует спецсимволы LIKE, чтобы пользовательский ввод
// искался буквально. Используется вместе с ESCAPE '\'.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
