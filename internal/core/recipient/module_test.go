package recipient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/dep2p/go-svcaddr/config"
	"github.com/dep2p/go-svcaddr/internal/core/addrcache"
	"github.com/dep2p/go-svcaddr/internal/core/storage"
	pkgif "github.com/dep2p/go-svcaddr/pkg/interfaces"
	"github.com/dep2p/go-svcaddr/pkg/types"
)

func newApp(t *testing.T, cfg *config.Config, targets ...interface{}) *fx.App {
	t.Helper()
	return fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		storage.Module(),
		Module(),
		addrcache.Module(),
		fx.Populate(targets...),
	)
}

func TestModule_WritesReachCache(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Storage.InMemory = true

	var (
		store pkgif.RecipientStore
		cache pkgif.IdentityCache
	)
	app := newApp(t, cfg, &store, &cache)

	ctx := context.Background()
	require.NoError(t, app.Start(ctx))
	defer app.Stop(ctx)

	x, y := types.NewDurableID(), types.NewDurableID()
	require.NoError(t, store.Write(ctx, func(tx pkgif.RecipientWriter) error {
		return tx.Upsert(types.Recipient{ID: x, Alias: "+1000"})
	}))

	got, err := cache.LookupDurable("+1000")
	require.NoError(t, err)
	assert.Equal(t, x, got)

	require.NoError(t, store.Write(ctx, func(tx pkgif.RecipientWriter) error {
		return tx.Upsert(types.Recipient{ID: y, Alias: "+1000"})
	}))

	got, err = cache.LookupDurable("+1000")
	require.NoError(t, err)
	assert.Equal(t, y, got)

	_, err = cache.LookupAlias(x)
	assert.ErrorIs(t, err, addrcache.ErrNotFound)

	require.NoError(t, store.Write(ctx, func(tx pkgif.RecipientWriter) error {
		return tx.Delete(y)
	}))
	_, err = cache.LookupDurable("+1000")
	assert.ErrorIs(t, err, addrcache.ErrNotFound)
}

func TestModule_WarmsFromPersistedRecords(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Storage.DataDir = t.TempDir()
	id := types.NewDurableID()

	var store pkgif.RecipientStore
	app := newApp(t, cfg, &store)
	ctx := context.Background()
	require.NoError(t, app.Start(ctx))
	require.NoError(t, store.Write(ctx, func(tx pkgif.RecipientWriter) error {
		return tx.Insert(types.Recipient{ID: id, Alias: "+1000"})
	}))
	require.NoError(t, app.Stop(ctx))

	var cache pkgif.IdentityCache
	app = newApp(t, cfg, &cache)
	require.NoError(t, app.Start(ctx))
	defer app.Stop(ctx)

	alias, err := cache.LookupAlias(id)
	require.NoError(t, err)
	assert.Equal(t, types.Alias("+1000"), alias)
}
