package service

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dushixiang/tradehabit/internal/config"
	"github.com/dushixiang/tradehabit/internal/models"
	"github.com/dushixiang/tradehabit/internal/xe"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.StateSnapshot{}))
	return db
}

func newTestGameService(t *testing.T, db *gorm.DB) *GameService {
	t.Helper()

	svc := NewGameService(
		db,
		&config.Config{},
		testClock(),
		NewStreakService(zap.NewNop()),
		NewAchievementService(zap.NewNop()),
		nil,
		zap.NewNop(),
	)
	require.NoError(t, svc.Init(context.Background()))
	return svc
}

func appendPerfectTrade(ledger *LedgerService, id, date string, pnl float64) Transform {
	return func(state *models.GameState) {
		profile := state.Profiles[state.ActiveProfile]
		ledger.AppendTrade(state, state.ActiveProfile, models.Trade{
			ID: id, Date: date, Symbol: "NQ", Position: models.PositionLong,
			PnlR: pnl, RulesFollowed: profile.ActiveRuleIDs(),
		})
	}
}

func TestApplyRecomputesStreakAndUnlocks(t *testing.T) {
	t.Parallel()

	svc := newTestGameService(t, newTestDB(t))
	ledger := NewLedgerService(zap.NewNop())

	state, newlyUnlocked, err := svc.Apply(context.Background(), appendPerfectTrade(ledger, "t1", "2025-08-20", 1))
	require.NoError(t, err)

	assert.Equal(t, 1, state.CurrentStreak)
	assert.Equal(t, "2025-09-01", state.LastCalculatedDate)
	require.Len(t, newlyUnlocked, 1)
	assert.Equal(t, "day1", newlyUnlocked[0].ID)

	// 队列中应有待展示的庆祝
	pending, ok := svc.NextCelebration()
	require.True(t, ok)
	assert.Equal(t, "day1", pending.ID)
}

func TestProfileSwitchSuppressesCelebrations(t *testing.T) {
	t.Parallel()

	svc := newTestGameService(t, newTestDB(t))
	ledger := NewLedgerService(zap.NewNop())

	_, _, err := svc.Apply(context.Background(), appendPerfectTrade(ledger, "t1", "2025-08-20", 1))
	require.NoError(t, err)
	svc.DismissCelebration()

	// 切到空档案：day1 重新锁定
	state, newlyUnlocked, err := svc.Apply(context.Background(), func(state *models.GameState) {
		ledger.SwitchProfile(state, "aud-nzd-pairs")
	})
	require.NoError(t, err)
	assert.Empty(t, newlyUnlocked)
	assert.Equal(t, 0, state.CurrentStreak)

	// 切回后 day1 再次判定为解锁，但这只是视角变化，不得庆祝
	state, newlyUnlocked, err = svc.Apply(context.Background(), func(state *models.GameState) {
		ledger.SwitchProfile(state, "usa-indices")
	})
	require.NoError(t, err)
	assert.True(t, findAchievement(t, state.Achievements, "day1").IsUnlocked)
	assert.Empty(t, newlyUnlocked)

	_, ok := svc.NextCelebration()
	assert.False(t, ok)
}

func TestApplyHealsDanglingActiveProfile(t *testing.T) {
	t.Parallel()

	svc := newTestGameService(t, newTestDB(t))
	ledger := NewLedgerService(zap.NewNop())

	state, _, err := svc.Apply(context.Background(), func(state *models.GameState) {
		ledger.RemoveProfile(state, "usa-indices")
	})
	require.NoError(t, err)

	assert.Equal(t, "aud-nzd-pairs", state.ActiveProfile)
	assert.Contains(t, state.Profiles, state.ActiveProfile)
}

func TestCelebrationQueueAdvancesOneAtATime(t *testing.T) {
	t.Parallel()

	svc := newTestGameService(t, newTestDB(t))
	ledger := NewLedgerService(zap.NewNop())

	// 一次变换补录12笔高盈亏交易，同时解锁多个成就
	_, newlyUnlocked, err := svc.Apply(context.Background(), func(state *models.GameState) {
		for i := 0; i < 12; i++ {
			appendPerfectTrade(ledger, fmt.Sprintf("t%d", i), "2025-08-20", 4.5)(state)
		}
	})
	require.NoError(t, err)
	require.Greater(t, len(newlyUnlocked), 1)

	seen := 0
	for {
		_, ok := svc.NextCelebration()
		if !ok {
			break
		}
		seen++
		svc.DismissCelebration()
	}
	assert.Equal(t, len(newlyUnlocked), seen)
}

func TestIdentityApplyIsIdempotent(t *testing.T) {
	t.Parallel()

	svc := newTestGameService(t, newTestDB(t))
	ledger := NewLedgerService(zap.NewNop())

	first, _, err := svc.Apply(context.Background(), appendPerfectTrade(ledger, "t1", "2025-08-20", 1))
	require.NoError(t, err)

	second, newlyUnlocked, err := svc.Apply(context.Background(), func(*models.GameState) {})
	require.NoError(t, err)
	assert.Empty(t, newlyUnlocked)
	assert.Equal(t, first, second)
}

func TestStatePersistsAcrossRestart(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestGameService(t, db)
	ledger := NewLedgerService(zap.NewNop())

	before, _, err := svc.Apply(context.Background(), appendPerfectTrade(ledger, "t1", "2025-08-20", 2))
	require.NoError(t, err)

	// 用同一个数据库重新初始化，模拟重启
	restarted := newTestGameService(t, db)
	after, err := restarted.State()
	require.NoError(t, err)

	assert.Equal(t, before, after)
}

func TestImportRejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	svc := newTestGameService(t, newTestDB(t))

	before, err := svc.State()
	require.NoError(t, err)

	_, err = svc.Import(context.Background(), []byte("{not json"))
	assert.ErrorIs(t, err, xe.ErrInvalidImport)

	after, err := svc.State()
	require.NoError(t, err)
	assert.Equal(t, before, after, "failed import must not touch in-memory state")
}

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestGameService(t, newTestDB(t))
	ledger := NewLedgerService(zap.NewNop())

	_, _, err := svc.Apply(context.Background(), func(state *models.GameState) {
		appendPerfectTrade(ledger, "t1", "2025-08-19", 4.5)(state)
		appendPerfectTrade(ledger, "t2", "2025-08-20", -0.5)(state)
	})
	require.NoError(t, err)

	exported, err := svc.ExportJSON()
	require.NoError(t, err)
	before, err := svc.State()
	require.NoError(t, err)

	// 导入到全新实例，状态应逐值一致
	other := newTestGameService(t, newTestDB(t))
	after, err := other.Import(context.Background(), exported)
	require.NoError(t, err)

	assert.Equal(t, before, after)
}

func TestImportDoesNotCelebrate(t *testing.T) {
	t.Parallel()

	svc := newTestGameService(t, newTestDB(t))
	ledger := NewLedgerService(zap.NewNop())

	_, _, err := svc.Apply(context.Background(), appendPerfectTrade(ledger, "t1", "2025-08-20", 1))
	require.NoError(t, err)

	exported, err := svc.ExportJSON()
	require.NoError(t, err)

	other := newTestGameService(t, newTestDB(t))
	_, err = other.Import(context.Background(), exported)
	require.NoError(t, err)

	_, ok := other.NextCelebration()
	assert.False(t, ok, "imported unlocks are not fresh accomplishments")
}

func TestResetRestoresDefaults(t *testing.T) {
	t.Parallel()

	svc := newTestGameService(t, newTestDB(t))
	ledger := NewLedgerService(zap.NewNop())

	_, _, err := svc.Apply(context.Background(), appendPerfectTrade(ledger, "t1", "2025-08-20", 1))
	require.NoError(t, err)

	state, err := svc.Reset(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, state.CurrentStreak)
	assert.Empty(t, state.ActiveTrades())
	for _, a := range state.Achievements {
		assert.False(t, a.IsUnlocked)
	}
	_, ok := svc.NextCelebration()
	assert.False(t, ok)
}
