package core

import (
	"github.com/nosregor/learning-platform/internal/cache"
	"github.com/nosregor/learning-platform/internal/models"

	"go.uber.org/zap"
)

func NewCodeStore(config models.CacheConfiguration) cache.ICodeStore {
	store, err := cache.NewRueidisStore(config)
	if err != nil {
		zap.L().Fatal("Failed to connect to cache", zap.Error(err))
	}
	return store
}
