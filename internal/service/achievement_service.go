package service

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/dushixiang/tradehabit/internal/models"
	"github.com/dushixiang/tradehabit/pkg/rseries"
)

// AchievementService 成就引擎：对目录逐条重算 isUnlocked，纯函数，不修改入参
//
// 纪律类与元成就一旦解锁便跳过重算，单调性由守卫保证而不是依赖数据；
// 连胜类成就随连胜归零重新锁定。
type AchievementService struct {
	logger *zap.Logger
}

// NewAchievementService 创建成就服务
func NewAchievementService(logger *zap.Logger) *AchievementService {
	return &AchievementService{logger: logger}
}

// Check 返回重算后的新成就目录，state.CurrentStreak 必须是最新值
func (s *AchievementService) Check(state *models.GameState) []models.Achievement {
	achievements := models.CloneAchievements(state.Achievements)

	activeTrades := state.ActiveTrades()
	allTrades := state.AllTrades()

	// 元成就依赖其余条目的结果，必须最后判定
	metaIndex := -1
	for i := range achievements {
		a := &achievements[i]
		if a.Type == models.AchievementTypeMeta {
			metaIndex = i
			continue
		}
		s.check(a, state.CurrentStreak, activeTrades, allTrades)
	}

	if metaIndex >= 0 {
		unlocked := true
		for i := range achievements {
			if i == metaIndex {
				continue
			}
			if !achievements[i].IsUnlocked {
				unlocked = false
				break
			}
		}
		achievements[metaIndex].IsUnlocked = unlocked
	}

	return achievements
}

func (s *AchievementService) check(a *models.Achievement, streak int, activeTrades, allTrades []models.Trade) {
	if a.Type == models.AchievementTypeStreak {
		a.IsUnlocked = streak > 0 && streak >= a.Criteria.Streak
		return
	}

	// 纪律成就解锁后不再重算
	if a.IsUnlocked {
		return
	}

	switch a.Criteria.Kind {
	case models.CriteriaHighPnlCount:
		a.IsUnlocked = rseries.CountAtLeast(pnlSeries(activeTrades), a.Criteria.MinPnlR) >= a.Criteria.Count
	case models.CriteriaSingleDayPnl:
		a.IsUnlocked = hasSingleDayPnl(allTrades, a.Criteria.DayPnlR)
	case models.CriteriaWeeklyReversal:
		a.IsUnlocked = hasWeeklyReversal(allTrades)
	case models.CriteriaConsecutiveSymbol:
		a.IsUnlocked = hasConsecutivePerfectRun(activeTrades, a.Criteria.RunLength)
	default:
		s.logger.Warn("unknown achievement criteria kind",
			zap.String("achievement", a.ID),
			zap.String("kind", a.Criteria.Kind))
	}
}

func pnlSeries(trades []models.Trade) []float64 {
	series := make([]float64, 0, len(trades))
	for _, trade := range trades {
		series = append(series, trade.PnlR)
	}
	return series
}

// hasSingleDayPnl 是否存在单日盈亏合计达到阈值的交易日
func hasSingleDayPnl(trades []models.Trade, threshold float64) bool {
	dayPnl := make(map[string]float64)
	for _, trade := range trades {
		dayPnl[trade.Date] += trade.PnlR
	}
	for _, pnl := range dayPnl {
		if pnl >= threshold {
			return true
		}
	}
	return false
}

// hasWeeklyReversal 是否存在亏损周后紧跟盈利周（按周日起始的自然周分组，
// 只比较有交易的周，顺次相邻即可）
func hasWeeklyReversal(trades []models.Trade) bool {
	weekPnl := make(map[string]float64)
	for _, trade := range trades {
		date, err := time.Parse(DateLayout, trade.Date)
		if err != nil {
			continue
		}
		weekStart := date.AddDate(0, 0, -int(date.Weekday()))
		weekPnl[weekStart.Format(DateLayout)] += trade.PnlR
	}

	weeks := make([]string, 0, len(weekPnl))
	for week := range weekPnl {
		weeks = append(weeks, week)
	}
	sort.Strings(weeks)

	for i := 0; i+1 < len(weeks); i++ {
		if weekPnl[weeks[i]] < 0 && weekPnl[weeks[i+1]] > 0 {
			return true
		}
	}
	return false
}

// hasConsecutivePerfectRun 同一标的按日期排序后是否存在 runLength 笔连续完美交易，
// 中途出现不完美交易则重新计数
func hasConsecutivePerfectRun(trades []models.Trade, runLength int) bool {
	if runLength <= 0 {
		return false
	}

	bySymbol := make(map[string][]models.Trade)
	for _, trade := range trades {
		bySymbol[trade.Symbol] = append(bySymbol[trade.Symbol], trade)
	}

	for _, symbolTrades := range bySymbol {
		sort.SliceStable(symbolTrades, func(i, j int) bool {
			return symbolTrades[i].Date < symbolTrades[j].Date
		})

		run := 0
		for _, trade := range symbolTrades {
			if !trade.AllRulesFollowed {
				run = 0
				continue
			}
			run++
			if run >= runLength {
				return true
			}
		}
	}
	return false
}
