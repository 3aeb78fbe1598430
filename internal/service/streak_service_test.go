package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/dushixiang/tradehabit/internal/models"
)

func perfectTrade(id, date, symbol string, pnl float64) models.Trade {
	return models.Trade{
		ID:               id,
		Date:             date,
		Symbol:           symbol,
		Position:         models.PositionLong,
		PnlR:             pnl,
		AllRulesFollowed: true,
	}
}

func imperfectTrade(id, date, symbol string, pnl float64) models.Trade {
	trade := perfectTrade(id, date, symbol, pnl)
	trade.AllRulesFollowed = false
	return trade
}

func newTestState(trades ...models.Trade) *models.GameState {
	state := DefaultGameState(testNow())
	state.Trades[state.ActiveProfile] = trades
	return state
}

func TestStreakCountsConsecutivePerfectDays(t *testing.T) {
	t.Parallel()

	svc := NewStreakService(zap.NewNop())

	state := newTestState(
		imperfectTrade("t1", "2025-08-18", "NQ", -1),
		perfectTrade("t2", "2025-08-19", "NQ", 2),
		perfectTrade("t3", "2025-08-20", "ES", 1),
		perfectTrade("t4", "2025-08-20", "NQ", -0.5),
	)

	assert.Equal(t, 2, svc.Calculate(state))
}

func TestStreakGapDaysAreNeutral(t *testing.T) {
	t.Parallel()

	svc := NewStreakService(zap.NewNop())

	// 8月15日与8月20日之间没有任何交易，休息日不应中断连胜
	state := newTestState(
		perfectTrade("t1", "2025-08-15", "NQ", 1),
		perfectTrade("t2", "2025-08-20", "NQ", 1),
	)

	assert.Equal(t, 2, svc.Calculate(state))
}

func TestStreakEmptyLedgerIsZero(t *testing.T) {
	t.Parallel()

	svc := NewStreakService(zap.NewNop())
	assert.Equal(t, 0, svc.Calculate(newTestState()))
}

func TestStreakBreaksOnMostRecentImperfectDay(t *testing.T) {
	t.Parallel()

	svc := NewStreakService(zap.NewNop())

	state := newTestState(
		perfectTrade("t1", "2025-08-18", "NQ", 1),
		perfectTrade("t2", "2025-08-19", "NQ", 1),
		imperfectTrade("t3", "2025-08-20", "NQ", 3),
	)

	assert.Equal(t, 0, svc.Calculate(state))
}

func TestStreakInsertionOrderIrrelevant(t *testing.T) {
	t.Parallel()

	svc := NewStreakService(zap.NewNop())

	// 补录历史交易：录入顺序与日期顺序相反
	state := newTestState(
		perfectTrade("t1", "2025-08-20", "NQ", 1),
		perfectTrade("t2", "2025-08-18", "NQ", 1),
		perfectTrade("t3", "2025-08-19", "NQ", 1),
	)

	assert.Equal(t, 3, svc.Calculate(state))
}

func TestStreakOnlyReadsActiveProfile(t *testing.T) {
	t.Parallel()

	svc := NewStreakService(zap.NewNop())

	state := newTestState(perfectTrade("t1", "2025-08-20", "NQ", 1))
	state.Trades["aud-nzd-pairs"] = []models.Trade{
		imperfectTrade("t2", "2025-08-20", "AUDUSD", -1),
	}

	assert.Equal(t, 1, svc.Calculate(state))
}

func TestStreakTitles(t *testing.T) {
	t.Parallel()

	svc := NewStreakService(zap.NewNop())

	assert.Equal(t, "Start Your Journey", svc.Title(0))
	assert.Equal(t, "Let's Gooo!", svc.Title(1))
	assert.Equal(t, "Habit is Forming", svc.Title(6))
	assert.Equal(t, "Trading in the Zone", svc.Title(30))
}
