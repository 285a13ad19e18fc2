package wallet

import (
	"context"
	"log/slog"

	"github.com/Raghu0511/canteen-backend/internal/models"
	"github.com/Raghu0511/canteen-backend/internal/repositories/cache"
)

func (s *service) profileKey(regNo string) string {
	return s.cache.GenerateKey(cache.EntityWallet, profileKeyType, regNo)
}

func (s *service) cachedProfile(ctx context.Context, regNo string) (*models.Student, bool) {
	key := s.profileKey(regNo)
	var student models.Student
	found, err := s.cache.Get(ctx, key, &student)
	if err != nil {
		s.log.Warn("wallet cache read failed", slog.String("key", key), slog.Any("error", err))
		return nil, false
	}
	if !found {
		s.metrics.RecordCacheMiss(key)
		return nil, false
	}
	s.metrics.RecordCacheHit(key)
	return &student, true
}

func (s *service) cacheProfile(ctx context.Context, student *models.Student) {
	key := s.profileKey(student.RegNo)
	if err := s.cache.SetWithTTL(ctx, key, student, s.config.ProfileTTL); err != nil {
		s.log.Warn("wallet cache write failed", slog.String("key", key), slog.Any("error", err))
	}
}

// invalidate drops the cached profile. Failures are logged; the entry then
// expires on its TTL.
func (s *service) invalidate(ctx context.Context, regNo string) {
	key := s.profileKey(regNo)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.log.Warn("wallet cache invalidation failed", slog.String("key", key), slog.Any("error", err))
	}
}
