package addrcache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-svcaddr/internal/core/eventbus"
	"github.com/dep2p/go-svcaddr/pkg/types"
)

const (
	alias1000 = types.Alias("+1000")
	alias2000 = types.Alias("+2000")
)

func mustToken(t *testing.T, c *Cache, id types.DurableID) types.HashToken {
	t.Helper()
	tok, err := c.LookupToken(id)
	require.NoError(t, err)
	return tok
}

// ============================================================================
//                              Resolve
// ============================================================================

func TestResolve_NoIdentifier(t *testing.T) {
	c := New()

	a := c.Resolve(types.EmptyDurableID, "", types.TrustHigh)
	b := c.Resolve(types.EmptyDurableID, "", types.TrustHigh)

	assert.NotEqual(t, a, b, "每次都应铸造新令牌")
	assert.False(t, a.IsEmpty())

	s := c.Stats()
	assert.Zero(t, s.DurableIDs)
	assert.Zero(t, s.Aliases)
	assert.Equal(t, uint64(2), s.TokensMinted)
}

func TestResolve_TokenStableForDurableID(t *testing.T) {
	c := New()
	id := types.NewDurableID()

	first := c.Resolve(id, "", types.TrustLow)
	assert.Equal(t, first, c.Resolve(id, "", types.TrustHigh))
	assert.Equal(t, first, c.Resolve(id, alias1000, types.TrustHigh))
	assert.Equal(t, first, c.Resolve(id, alias2000, types.TrustLow))

	c.Reassign(id, alias2000)
	c.Reassign(id, "")

	assert.Equal(t, first, c.Resolve(id, "", types.TrustLow))
	assert.Equal(t, first, mustToken(t, c, id))
}

func TestResolve_AliasTokenInheritedByDurableID(t *testing.T) {
	c := New()
	id := types.NewDurableID()

	byAlias := c.Resolve(types.EmptyDurableID, alias1000, types.TrustLow)
	both := c.Resolve(id, alias1000, types.TrustHigh)

	assert.Equal(t, byAlias, both)
	assert.Equal(t, byAlias, c.Resolve(id, "", types.TrustLow))
}

func TestResolve_LowTrustNeverPairs(t *testing.T) {
	c := New()
	id := types.NewDurableID()

	c.Resolve(id, alias1000, types.TrustLow)

	_, err := c.LookupAlias(id)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.LookupDurable(alias1000)
	assert.ErrorIs(t, err, ErrNotFound)

	// 已有配对也不会被低信任度覆盖
	c.Resolve(id, alias1000, types.TrustHigh)
	c.Resolve(id, alias2000, types.TrustLow)

	alias, err := c.LookupAlias(id)
	require.NoError(t, err)
	assert.Equal(t, alias1000, alias)
	_, err = c.LookupDurable(alias2000)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_HighTrustAlwaysPairs(t *testing.T) {
	c := New()
	u1, u2 := types.NewDurableID(), types.NewDurableID()

	c.Resolve(u1, alias1000, types.TrustHigh)

	// 别名转移到 u2：u1 的正向配对被撤销
	c.Resolve(u2, alias1000, types.TrustHigh)

	got, err := c.LookupDurable(alias1000)
	require.NoError(t, err)
	assert.Equal(t, u2, got)

	_, err = c.LookupAlias(u1)
	assert.ErrorIs(t, err, ErrNotFound)

	// u2 改用新别名：旧别名的反向配对被撤销
	c.Resolve(u2, alias2000, types.TrustHigh)

	_, err = c.LookupDurable(alias1000)
	assert.ErrorIs(t, err, ErrNotFound)
	alias, err := c.LookupAlias(u2)
	require.NoError(t, err)
	assert.Equal(t, alias2000, alias)
}

func TestResolve_HighTrustRetractionNotifies(t *testing.T) {
	c := New()
	u1, u2 := types.NewDurableID(), types.NewDurableID()
	c.Resolve(u1, alias1000, types.TrustHigh)

	var changed []types.DurableID
	cancel := c.OnMappingChange(func(id types.DurableID) {
		changed = append(changed, id)
	})
	defer cancel()

	// 新配对不通知
	c.Resolve(u2, alias2000, types.TrustHigh)
	assert.Empty(t, changed)

	// u1 的别名被夺走
	c.Resolve(u2, alias1000, types.TrustHigh)
	assert.Equal(t, []types.DurableID{u1, u2}, changed)
}

func TestResolve_InvalidAliasIgnored(t *testing.T) {
	c := New()
	id := types.NewDurableID()

	c.Resolve(id, "has space", types.TrustHigh)

	_, err := c.LookupAlias(id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, uint64(1), c.Stats().CallerErrors)
}

// ============================================================================
//                              Lookup
// ============================================================================

func TestLookup_CallerErrors(t *testing.T) {
	c := New()

	_, err := c.LookupDurable("")
	assert.ErrorIs(t, err, ErrEmptyAlias)
	assert.False(t, IsNotFound(err), "空别名必须与未找到区分")

	_, err = c.LookupDurable("bad\talias")
	assert.ErrorIs(t, err, ErrInvalidAlias)

	_, err = c.LookupAlias(types.EmptyDurableID)
	assert.ErrorIs(t, err, ErrEmptyDurableID)

	_, err = c.LookupToken(types.EmptyDurableID)
	assert.ErrorIs(t, err, ErrEmptyDurableID)

	assert.Equal(t, uint64(3), c.Stats().CallerErrors)
	assert.Zero(t, c.Stats().DurableIDs, "误用不改变缓存状态")
}

func TestLookup_NotFound(t *testing.T) {
	c := New()

	_, err := c.LookupDurable(alias1000)
	assert.True(t, IsNotFound(err))

	_, err = c.LookupAlias(types.NewDurableID())
	assert.True(t, IsNotFound(err))

	_, err = c.LookupToken(types.NewDurableID())
	assert.True(t, IsNotFound(err))
}

// ============================================================================
//                              Reassign
// ============================================================================

func TestReassign_AliasMovesBetweenDurableIDs(t *testing.T) {
	c := New()
	x, y := types.NewDurableID(), types.NewDurableID()
	xToken := c.Resolve(x, "", types.TrustLow)

	c.Reassign(x, alias1000)
	c.Reassign(y, alias1000)

	got, err := c.LookupDurable(alias1000)
	require.NoError(t, err)
	assert.Equal(t, y, got)

	_, err = c.LookupAlias(x)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, xToken, mustToken(t, c, x), "x 的令牌保持不变")
	assert.NotEqual(t, xToken, mustToken(t, c, y))
}

func TestReassign_WarmedExample(t *testing.T) {
	c := New()
	u1, u2 := types.NewDurableID(), types.NewDurableID()

	c.Warm([]types.Recipient{
		{ID: u1, Alias: alias1000},
		{ID: u2, Alias: alias2000},
	}, types.LocalIdentity{})

	u2Token := mustToken(t, c, u2)

	c.Reassign(u1, alias2000)

	got, err := c.LookupDurable(alias2000)
	require.NoError(t, err)
	assert.Equal(t, u1, got)

	_, err = c.LookupAlias(u2)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.LookupDurable(alias1000)
	assert.ErrorIs(t, err, ErrNotFound, "u1 的旧别名不再指向任何人")

	assert.Equal(t, u2Token, mustToken(t, c, u2))
}

func TestReassign_ClearAlias(t *testing.T) {
	c := New()
	id := types.NewDurableID()
	tok := c.Resolve(id, alias1000, types.TrustHigh)

	c.Reassign(id, "")

	_, err := c.LookupAlias(id)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.LookupDurable(alias1000)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, tok, mustToken(t, c, id))

	// 旧别名的令牌间接已被移除，再解析会得到新令牌
	assert.NotEqual(t, tok, c.Resolve(types.EmptyDurableID, alias1000, types.TrustLow))
}

func TestReassign_SameAliasIsStable(t *testing.T) {
	c := New()
	id := types.NewDurableID()
	tok := c.Resolve(id, alias1000, types.TrustHigh)

	c.Reassign(id, alias1000)

	alias, err := c.LookupAlias(id)
	require.NoError(t, err)
	assert.Equal(t, alias1000, alias)
	assert.Equal(t, tok, c.Resolve(types.EmptyDurableID, alias1000, types.TrustLow))
}

func TestReassign_NewDurableIDMintsToken(t *testing.T) {
	c := New()
	id := types.NewDurableID()

	c.Reassign(id, alias1000)

	tok := mustToken(t, c, id)
	assert.False(t, tok.IsEmpty())
	assert.Equal(t, tok, c.Resolve(types.EmptyDurableID, alias1000, types.TrustLow))
}

func TestReassign_InheritsUnpairedAliasToken(t *testing.T) {
	c := New()
	id := types.NewDurableID()

	aliasTok := c.Resolve(types.EmptyDurableID, alias1000, types.TrustLow)
	c.Reassign(id, alias1000)

	assert.Equal(t, aliasTok, mustToken(t, c, id), "只有别名时发出的令牌被 DurableID 继承")

	// 已配对给别人的别名不传递令牌
	other := types.NewDurableID()
	c.Reassign(other, alias1000)
	assert.NotEqual(t, aliasTok, mustToken(t, c, other))
	assert.Equal(t, aliasTok, mustToken(t, c, id))
}

func TestReassign_CallerMisuseIgnored(t *testing.T) {
	c := New()
	called := 0
	c.OnMappingChange(func(types.DurableID) { called++ })

	c.Reassign(types.EmptyDurableID, alias1000)
	c.Reassign(types.NewDurableID(), "bad alias")

	assert.Zero(t, called)
	s := c.Stats()
	assert.Equal(t, uint64(2), s.CallerErrors)
	assert.Zero(t, s.Reassignments)
	assert.Zero(t, s.DurableIDs)
}

func TestReassign_BroadcastsDisplacedThenTarget(t *testing.T) {
	c := New()
	x, y := types.NewDurableID(), types.NewDurableID()
	c.Reassign(x, alias1000)

	var changed []types.DurableID
	cancel := c.OnMappingChange(func(id types.DurableID) {
		changed = append(changed, id)
	})

	c.Reassign(y, alias1000)
	assert.Equal(t, []types.DurableID{x, y}, changed)

	cancel()
	cancel()
	c.Reassign(y, alias2000)
	assert.Len(t, changed, 2, "取消后不再回调")
}

func TestReassign_ListenerCanLookupWithoutDeadlock(t *testing.T) {
	c := New()
	id := types.NewDurableID()

	var seen types.Alias
	c.OnMappingChange(func(changed types.DurableID) {
		a, err := c.LookupAlias(changed)
		if err == nil {
			seen = a
		}
	})

	done := make(chan struct{})
	go func() {
		c.Reassign(id, alias1000)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Reassign 在回调中死锁")
	}
	assert.Equal(t, alias1000, seen)
}

// ============================================================================
//                              事件
// ============================================================================

func TestReassign_EmitsEvent(t *testing.T) {
	bus := eventbus.NewBus()
	defer bus.Close()

	clk := clock.NewMock()
	clk.Add(time.Hour)

	c := New(WithEventBus(bus), WithClock(clk))
	defer c.Close()

	sub, err := bus.Subscribe(new(types.EvtMappingChanged))
	require.NoError(t, err)
	defer sub.Close()

	x, y := types.NewDurableID(), types.NewDurableID()
	c.Reassign(x, alias1000)
	c.Reassign(y, alias1000)

	next := func() types.EvtMappingChanged {
		select {
		case e := <-sub.Out():
			return e.(types.EvtMappingChanged)
		case <-time.After(time.Second):
			t.Fatal("未收到事件")
		}
		return types.EvtMappingChanged{}
	}

	e := next()
	assert.Equal(t, x, e.ID)
	assert.Equal(t, alias1000, e.Alias)
	assert.Equal(t, clk.Now(), e.Time)

	e = next()
	assert.Equal(t, x, e.ID, "被夺走别名的一方先通知")
	assert.True(t, e.Alias.IsEmpty())
	assert.Equal(t, alias1000, e.Previous)

	e = next()
	assert.Equal(t, y, e.ID)
	assert.Equal(t, alias1000, e.Alias)
	assert.Equal(t, x, e.Displaced)
}

// ============================================================================
//                              Warm
// ============================================================================

type fakeSource struct {
	records []types.Recipient
	err     error
}

func (f *fakeSource) FetchAll(context.Context) ([]types.Recipient, error) {
	return f.records, f.err
}

func TestWarm_LocalIdentityFirst(t *testing.T) {
	clk := clock.NewMock()
	clk.Add(24 * time.Hour)
	c := New(WithClock(clk))
	local := types.LocalIdentity{ID: types.NewDurableID(), Alias: "+1999"}
	other := types.NewDurableID()

	n := c.Warm([]types.Recipient{
		{ID: other, Alias: alias1000},
		{ID: other, Alias: alias1000},
		{},
	}, local)
	assert.Equal(t, 3, n)

	alias, err := c.LookupAlias(local.ID)
	require.NoError(t, err)
	assert.Equal(t, local.Alias, alias)

	s := c.Stats()
	assert.Equal(t, 2, s.DurableIDs)
	assert.Equal(t, uint64(3), s.WarmedRecords)
	assert.True(t, s.WarmedAt.Equal(clk.Now()))
}

func TestWarm_AliasOnlyRecord(t *testing.T) {
	c := New()
	c.Warm([]types.Recipient{{Alias: alias1000}}, types.LocalIdentity{})

	tok := c.Resolve(types.EmptyDurableID, alias1000, types.TrustLow)
	assert.Equal(t, 1, c.Stats().Aliases)
	assert.Equal(t, tok, c.Resolve(types.EmptyDurableID, alias1000, types.TrustHigh))
}

func TestWarmFromStore(t *testing.T) {
	ctx := context.Background()
	id := types.NewDurableID()

	t.Run("OK", func(t *testing.T) {
		c := New()
		n, err := c.WarmFromStore(ctx, &fakeSource{records: []types.Recipient{{ID: id, Alias: alias1000}}}, types.LocalIdentity{})
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		got, err := c.LookupDurable(alias1000)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("StorageUnavailable", func(t *testing.T) {
		c := New()
		boom := errors.New("disk on fire")
		local := types.LocalIdentity{ID: id}

		n, err := c.WarmFromStore(ctx, &fakeSource{err: boom}, local)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, n, "本地身份仍然写入")

		// 缓存仍可用
		tok := c.Resolve(id, "", types.TrustLow)
		assert.Equal(t, tok, mustToken(t, c, id))
	})

	t.Run("NilSource", func(t *testing.T) {
		c := New()
		n, err := c.WarmFromStore(ctx, nil, types.LocalIdentity{})
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

// ============================================================================
//                              并发
// ============================================================================

func TestResolve_ConcurrentSingleToken(t *testing.T) {
	c := New()
	ids := make([]types.DurableID, 8)
	for i := range ids {
		ids[i] = types.NewDurableID()
	}

	const workers = 32
	results := make([][]types.HashToken, workers)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			out := make([]types.HashToken, len(ids))
			for i, id := range ids {
				trust := types.TrustLow
				if w%2 == 0 {
					trust = types.TrustHigh
				}
				out[i] = c.Resolve(id, types.Alias("+1"+id.ShortString()), trust)
			}
			results[w] = out
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i, id := range ids {
		want := mustToken(t, c, id)
		for w := 0; w < workers; w++ {
			assert.Equal(t, want, results[w][i], "durable id %s 出现重复令牌", id)
		}
	}
}

func TestCache_ConcurrentMixedOperations(t *testing.T) {
	c := New()
	ids := []types.DurableID{types.NewDurableID(), types.NewDurableID(), types.NewDurableID()}
	aliases := []types.Alias{alias1000, alias2000, "+3000"}

	tokens := make(map[types.DurableID]types.HashToken)
	for _, id := range ids {
		tokens[id] = c.Resolve(id, "", types.TrustLow)
	}

	var mu sync.Mutex
	notified := 0
	c.OnMappingChange(func(id types.DurableID) {
		_, _ = c.LookupAlias(id)
		mu.Lock()
		notified++
		mu.Unlock()
	})

	var g errgroup.Group
	for w := 0; w < 16; w++ {
		w := w
		g.Go(func() error {
			for i := 0; i < 200; i++ {
				id := ids[(w+i)%len(ids)]
				alias := aliases[(w*7+i)%len(aliases)]
				switch i % 4 {
				case 0:
					c.Reassign(id, alias)
				case 1:
					c.Resolve(id, alias, types.TrustHigh)
				case 2:
					_, _ = c.LookupDurable(alias)
				default:
					_, _ = c.LookupAlias(id)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for id, want := range tokens {
		assert.Equal(t, want, mustToken(t, c, id))
	}

	// 双向表一致：每个别名指向的 DurableID 反向也指向该别名
	for _, a := range aliases {
		id, err := c.LookupDurable(a)
		if err != nil {
			continue
		}
		back, err := c.LookupAlias(id)
		require.NoError(t, err)
		assert.Equal(t, a, back)
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Positive(t, notified)
}
