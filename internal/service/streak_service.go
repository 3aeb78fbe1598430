package service

import (
	"sort"

	"go.uber.org/zap"

	"github.com/dushixiang/tradehabit/internal/models"
)

// StreakService 连胜计算：统计当前档案以最近交易日结尾的连续完美交易日数量
type StreakService struct {
	logger *zap.Logger
}

// NewStreakService 创建连胜服务
func NewStreakService(logger *zap.Logger) *StreakService {
	return &StreakService{logger: logger}
}

// Calculate 纯函数，每次账本变化后必须重新计算
//
// 没有交易的日期不参与统计：休息日既不延续也不中断连胜，
// 连胜度量的是"交易时的纪律"而不是交易频率。
func (s *StreakService) Calculate(state *models.GameState) int {
	trades := state.ActiveTrades()
	if len(trades) == 0 {
		return 0
	}

	// 按交易日分组，录入顺序与日期顺序无关
	tradesByDate := make(map[string][]models.Trade)
	for _, trade := range trades {
		tradesByDate[trade.Date] = append(tradesByDate[trade.Date], trade)
	}

	dates := make([]string, 0, len(tradesByDate))
	for date := range tradesByDate {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	// 从最近的交易日向前回溯，遇到不完美的交易日立即停止
	streak := 0
	for _, date := range dates {
		if !allPerfect(tradesByDate[date]) {
			break
		}
		streak++
	}
	return streak
}

func allPerfect(trades []models.Trade) bool {
	for _, trade := range trades {
		if !trade.AllRulesFollowed {
			return false
		}
	}
	return true
}

// Title 返回连胜对应的称号
func (s *StreakService) Title(streak int) string {
	switch {
	case streak >= 21:
		return "Trading in the Zone"
	case streak >= 19:
		return "On the Edge of Greatness"
	case streak >= 17:
		return "Mastering the Craft"
	case streak >= 15:
		return "Flow State"
	case streak >= 13:
		return "Elite Performance"
	case streak >= 11:
		return "Unstoppable Force"
	case streak >= 9:
		return "Consistency is Key"
	case streak >= 7:
		return "The Discipline is Real"
	case streak >= 5:
		return "Habit is Forming"
	case streak >= 3:
		return "On the Come up"
	case streak >= 1:
		return "Let's Gooo!"
	default:
		return "Start Your Journey"
	}
}
