package database

import (
	"context"

	"gorm.io/gorm"

	"sns/internal/config"
)

// conn resolves the handle a repository call should run on: the caller's
// transaction scope when one is active, the ambient pool otherwise.
func conn(ctx context.Context, scope *gorm.DB) *gorm.DB {
	if scope != nil {
		return scope.WithContext(ctx)
	}
	return config.DB.WithContext(ctx)
}
