package service

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"

	"github.com/dushixiang/tradehabit/internal/models"
)

// tradeGen 生成8月内随机日期、随机完美与否的交易
func tradeGen() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(1, 28),
		gen.Bool(),
	).Map(func(values []interface{}) models.Trade {
		day := values[0].(int)
		perfect := values[1].(bool)
		return models.Trade{
			ID:               fmt.Sprintf("t-%02d-%v", day, perfect),
			Date:             fmt.Sprintf("2025-08-%02d", day),
			Symbol:           "NQ",
			Position:         models.PositionLong,
			AllRulesFollowed: perfect,
		}
	})
}

func distinctDates(trades []models.Trade) int {
	dates := make(map[string]struct{})
	for _, trade := range trades {
		dates[trade.Date] = struct{}{}
	}
	return len(dates)
}

func TestStreakProperties(t *testing.T) {
	t.Parallel()

	svc := NewStreakService(zap.NewNop())

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("streak never exceeds distinct trading dates", prop.ForAll(
		func(trades []models.Trade) bool {
			state := newTestState(trades...)
			streak := svc.Calculate(state)
			return streak >= 0 && streak <= distinctDates(trades)
		},
		gen.SliceOf(tradeGen()),
	))

	properties.Property("recomputation is idempotent", prop.ForAll(
		func(trades []models.Trade) bool {
			state := newTestState(trades...)
			return svc.Calculate(state) == svc.Calculate(state)
		},
		gen.SliceOf(tradeGen()),
	))

	properties.Property("all-perfect ledger streaks every trading date", prop.ForAll(
		func(trades []models.Trade) bool {
			for i := range trades {
				trades[i].AllRulesFollowed = true
			}
			state := newTestState(trades...)
			return svc.Calculate(state) == distinctDates(trades)
		},
		gen.SliceOf(tradeGen()),
	))

	properties.Property("imperfect most recent day resets streak", prop.ForAll(
		func(trades []models.Trade) bool {
			if len(trades) == 0 {
				return true
			}
			maxDate := trades[0].Date
			for _, trade := range trades {
				if trade.Date > maxDate {
					maxDate = trade.Date
				}
			}
			trades = append(trades, models.Trade{
				ID: "latest-imperfect", Date: maxDate, Symbol: "NQ",
			})
			state := newTestState(trades...)
			return svc.Calculate(state) == 0
		},
		gen.SliceOf(tradeGen()),
	))

	properties.TestingRun(t)
}
