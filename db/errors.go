package db

import (
	"errors"

	"Gin_postgres_redis_local_library/services"

	"gorm.io/gorm"
)

// translate maps gorm errors onto the service sentinels. The connection is
// opened with TranslateError so driver codes arrive as gorm errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return services.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return services.ErrConflict
	default:
		return err
	}
}
