package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type AdminRepository struct {
	Log     *zap.Logger
	DBCache *redis.Client
}

func NewAdminRepository(zap *zap.Logger, dbCache *redis.Client) *AdminRepository {
	return &AdminRepository{
		Log:     zap,
		DBCache: dbCache,
	}
}

func adminTokenKey(hashedToken string) string {
	return fmt.Sprintf("auth:admin:%s", hashedToken)
}

func (repository *AdminRepository) SetAdminToken(ctx context.Context, hashedToken string, ttl time.Duration) error {
	err := repository.DBCache.Set(ctx, adminTokenKey(hashedToken), hashedToken, ttl).Err()
	if err != nil {
		return err
	}

	return nil
}

// GetAdminToken returns the stored hash, or "" when the token was revoked or
// has expired.
func (repository *AdminRepository) GetAdminToken(ctx context.Context, hashedToken string) (string, error) {
	stored, err := repository.DBCache.Get(ctx, adminTokenKey(hashedToken)).Result()
	if err == redis.Nil {
		return "", nil
	} else if err != nil {
		return "", err
	}

	return stored, nil
}

func (repository *AdminRepository) RemoveAdminToken(ctx context.Context, hashedToken string) error {
	err := repository.DBCache.Del(ctx, adminTokenKey(hashedToken)).Err()
	if err != nil {
		return err
	}

	return nil
}
