package persistence

import (
	"context"
	"testing"

	"github.com/shoenig/test/must"
	"go.uber.org/zap"

	"github.com/spec-kit/maml-online/internal/config"
)

func TestDisabledBackends(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	logger := zap.NewNop()

	pg, err := NewPostgres(ctx, config.PostgresConfig{}, logger)
	must.NoError(t, err)
	must.False(t, pg.Enabled())
	must.Nil(t, pg.PoolHandle())
	must.ErrorIs(t, pg.Ping(ctx), ErrPostgresDisabled)
	must.NoError(t, RunMigrations(ctx, pg.PoolHandle(), "migrations", logger))
	pg.Close()

	r := NewRedis(config.RedisConfig{}, logger)
	must.False(t, r.Enabled())
	must.ErrorIs(t, r.Ping(ctx), ErrRedisDisabled)
	must.ErrorIs(t, r.Publish(ctx, "registrations", []byte("{}")), ErrRedisDisabled)
	r.Close()
}
