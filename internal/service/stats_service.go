package service

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/dushixiang/tradehabit/internal/models"
	"github.com/dushixiang/tradehabit/pkg/rseries"
)

// ProfileStats 当前档案的统计摘要
type ProfileStats struct {
	TotalTrades     int     `json:"totalTrades"`
	WinningTrades   int     `json:"winningTrades"`
	LosingTrades    int     `json:"losingTrades"`
	BreakevenTrades int     `json:"breakevenTrades"`
	PerfectTrades   int     `json:"perfectTrades"`
	ImperfectTrades int     `json:"imperfectTrades"`
	WinRate         float64 `json:"winRate"`      // 盈利交易占比（百分数）
	RulesWinRate    float64 `json:"rulesWinRate"` // 完美交易占比（百分数）
	TotalPnlR       float64 `json:"totalPnlR"`
	AveragePnlR     float64 `json:"averagePnlR"`
	LargestWin      float64 `json:"largestWin"`
	LargestLoss     float64 `json:"largestLoss"`
}

// CalendarDay 日历视图中单个交易日的摘要
type CalendarDay struct {
	Date       string  `json:"date"`
	TradeCount int     `json:"tradeCount"`
	TotalPnlR  float64 `json:"totalPnlR"`
	AllPerfect bool    `json:"allPerfect"`
}

// StatsService 统计与日历聚合，只读当前档案账本
type StatsService struct {
	logger *zap.Logger
}

// NewStatsService 创建统计服务
func NewStatsService(logger *zap.Logger) *StatsService {
	return &StatsService{logger: logger}
}

// Calculate 计算当前档案的统计摘要
func (s *StatsService) Calculate(state *models.GameState) ProfileStats {
	trades := state.ActiveTrades()

	stats := ProfileStats{TotalTrades: len(trades)}
	for _, trade := range trades {
		switch {
		case trade.PnlR > 0:
			stats.WinningTrades++
		case trade.PnlR < 0:
			stats.LosingTrades++
		default:
			stats.BreakevenTrades++
		}
		if trade.AllRulesFollowed {
			stats.PerfectTrades++
		}
	}
	stats.ImperfectTrades = stats.TotalTrades - stats.PerfectTrades

	if stats.TotalTrades > 0 {
		stats.WinRate = float64(stats.WinningTrades) / float64(stats.TotalTrades) * 100
		stats.RulesWinRate = float64(stats.PerfectTrades) / float64(stats.TotalTrades) * 100
	}

	series := pnlSeries(trades)
	stats.TotalPnlR = rseries.Sum(series)
	stats.AveragePnlR = rseries.Avg(series)
	stats.LargestWin = rseries.Max(series)
	stats.LargestLoss = rseries.Min(series)
	return stats
}

// Calendar 返回指定月份（YYYY-MM）内每个交易日的摘要，按日期升序
func (s *StatsService) Calendar(state *models.GameState, month string) []CalendarDay {
	byDate := make(map[string]*CalendarDay)
	for _, trade := range state.ActiveTrades() {
		if !strings.HasPrefix(trade.Date, month+"-") {
			continue
		}
		day, ok := byDate[trade.Date]
		if !ok {
			day = &CalendarDay{Date: trade.Date, AllPerfect: true}
			byDate[trade.Date] = day
		}
		day.TradeCount++
		day.TotalPnlR += trade.PnlR
		if !trade.AllRulesFollowed {
			day.AllPerfect = false
		}
	}

	days := make([]CalendarDay, 0, len(byDate))
	for _, day := range byDate {
		days = append(days, *day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}
