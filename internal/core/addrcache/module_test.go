package addrcache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/dep2p/go-svcaddr/config"
	"github.com/dep2p/go-svcaddr/internal/core/eventbus"
	pkgif "github.com/dep2p/go-svcaddr/pkg/interfaces"
	"github.com/dep2p/go-svcaddr/pkg/types"
)

func TestModule_WarmsOnStart(t *testing.T) {
	id := types.NewDurableID()
	local := types.NewDurableID()

	cfg := config.NewConfig()
	cfg.Identity = cfg.Identity.WithLocal(local, "+1999")

	src := &fakeSource{records: []types.Recipient{{ID: id, Alias: alias1000}}}

	var cache pkgif.IdentityCache
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		fx.Provide(func() pkgif.RecordSource { return src }),
		eventbus.Module(),
		Module(),
		fx.Populate(&cache),
	)

	ctx := context.Background()
	require.NoError(t, app.Start(ctx))
	defer app.Stop(ctx)

	got, err := cache.LookupDurable(alias1000)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	alias, err := cache.LookupAlias(local)
	require.NoError(t, err)
	assert.Equal(t, types.Alias("+1999"), alias)
}

func TestModule_StorageFailureDoesNotBlockStart(t *testing.T) {
	src := &fakeSource{err: errors.New("unavailable")}

	var cache *Cache
	app := fx.New(
		fx.NopLogger,
		fx.Provide(func() pkgif.RecordSource { return src }),
		Module(),
		fx.Populate(&cache),
	)

	ctx := context.Background()
	require.NoError(t, app.Start(ctx))
	require.NoError(t, app.Stop(ctx))

	assert.Zero(t, cache.Stats().DurableIDs)
}

func TestModule_WarmDisabled(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Cache.WarmOnStart = false

	src := &fakeSource{records: []types.Recipient{{ID: types.NewDurableID(), Alias: alias1000}}}

	var cache *Cache
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		fx.Provide(func() pkgif.RecordSource { return src }),
		Module(),
		fx.Populate(&cache),
	)

	ctx := context.Background()
	require.NoError(t, app.Start(ctx))
	defer app.Stop(ctx)

	_, err := cache.LookupDurable(alias1000)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestModule_InvalidLocalIdentity(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Identity.LocalUUID = "nope"

	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		Module(),
	)
	assert.Error(t, app.Err())
}
