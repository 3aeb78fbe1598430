package service

import (
	"time"

	"github.com/dushixiang/tradehabit/internal/models"
)

// 日期均使用 YYYY-MM-DD
const DateLayout = "2006-01-02"

// Clock 可注入时钟，核心计算不得直接依赖 time.Now
type Clock func() time.Time

// 默认连胜里程碑
var defaultStreakMilestones = []int{1, 3, 5, 7, 9, 11, 13, 15, 17, 19, 21}

func defaultProfile(name string) models.ProfileConfig {
	return models.ProfileConfig{
		Name: name,
		Rules: []models.TradingRule{
			{ID: "1", Text: "I confirmed my edge before entering", IsActive: true},
			{ID: "2", Text: "I predefined my risk before entering", IsActive: true},
			{ID: "3", Text: "I accepted the risk completely", IsActive: true},
			{ID: "4", Text: "I acted without hesitation when my edge appeared", IsActive: true},
			{ID: "5", Text: "I monitored my emotions during the trade", IsActive: true},
		},
		DataFields: map[string]models.DataField{
			"symbol":          {Label: "Symbol", Type: "text", Required: true},
			"entryPrice":      {Label: "Entry Price", Type: "number", Required: true},
			"exitPrice":       {Label: "Exit Price", Type: "number", Required: true},
			"position":        {Label: "Position", Type: "select", Options: []string{"long", "short"}, Required: true},
			"riskAmount":      {Label: "Risk Amount ($)", Type: "number", Required: true},
			"riskRewardRatio": {Label: "Risk:Reward Ratio", Type: "number", Required: true},
			"notes":           {Label: "Notes", Type: "textarea", Required: false},
		},
	}
}

func defaultAchievements() []models.Achievement {
	streakEntries := []struct {
		id, name, description string
		streak                int
	}{
		{"day1", "First Step", "Let's Gooo!", 1},
		{"day3", "The Triple", "On the Come up", 3},
		{"day5", "Five Day Follow-Through", "Habit is Forming!", 5},
		{"day7", "Perfect Week", "The Discipline is Real.", 7},
		{"day9", "The Near Ten", "Consistency is Key!", 9},
		{"day11", "The Prime Mover", "Unstoppable Force!", 11},
		{"day13", "Unlucky for Some", "Elite Performance.", 13},
		{"day15", "The Halfway Mark", "Flow State", 15},
		{"day17", "Seventeen Steps", "Mastering the Craft.", 17},
		{"day19", "The Final Hurdle", "On the Edge of Greatness.", 19},
		{"day21", "Trading in the Zone", "You are the honored one.", 21},
	}

	achievements := make([]models.Achievement, 0, len(streakEntries)+6)
	for _, e := range streakEntries {
		achievements = append(achievements, models.Achievement{
			ID:          e.id,
			Name:        e.name,
			Description: e.description,
			Type:        models.AchievementTypeStreak,
			Criteria:    models.Criteria{Kind: models.CriteriaStreak, Streak: e.streak},
		})
	}

	achievements = append(achievements,
		models.Achievement{
			ID:          "strategist",
			Name:        "The Strategist",
			Description: "Achieve 5 trades where P&L is equal or greater than 4R",
			Type:        models.AchievementTypeDiscipline,
			Criteria:    models.Criteria{Kind: models.CriteriaHighPnlCount, Count: 5, MinPnlR: 4.0},
		},
		models.Achievement{
			ID:          "highRoller",
			Name:        "The High Roller",
			Description: "Achieve a single-day P/L of >= 10R",
			Type:        models.AchievementTypeDiscipline,
			Criteria:    models.Criteria{Kind: models.CriteriaSingleDayPnl, DayPnlR: 10.0},
		},
		models.Achievement{
			ID:          "riskManager",
			Name:        "The Risk Manager",
			Description: "Log 12 trades with a P&L of 2.0R or greater",
			Type:        models.AchievementTypeDiscipline,
			Criteria:    models.Criteria{Kind: models.CriteriaHighPnlCount, Count: 12, MinPnlR: 2.0},
		},
		models.Achievement{
			ID:          "comebackKing",
			Name:        "The Comeback King",
			Description: "Turn a losing week into a winning one",
			Type:        models.AchievementTypeDiscipline,
			Criteria:    models.Criteria{Kind: models.CriteriaWeeklyReversal},
		},
		models.Achievement{
			ID:          "specialist",
			Name:        "The Specialist",
			Description: "Log 10 consecutive perfect trades for the same symbol",
			Type:        models.AchievementTypeDiscipline,
			Criteria:    models.Criteria{Kind: models.CriteriaConsecutiveSymbol, RunLength: 10},
		},
		models.Achievement{
			ID:          "disciplinedTrader",
			Name:        "The Disciplined Trader",
			Description: "Unlock all 16 other achievements",
			Type:        models.AchievementTypeMeta,
			Criteria:    models.Criteria{Kind: models.CriteriaAllOthers},
		},
	)

	return achievements
}

// DefaultGameState 构造初始状态：两个预置档案、空账本、全部成就未解锁
func DefaultGameState(now time.Time) *models.GameState {
	return &models.GameState{
		ActiveProfile: "usa-indices",
		Profiles: map[string]models.ProfileConfig{
			"usa-indices":   defaultProfile("USA Indices"),
			"aud-nzd-pairs": defaultProfile("AUD/NZD Pairs"),
		},
		Trades: map[string][]models.Trade{
			"usa-indices":   {},
			"aud-nzd-pairs": {},
		},
		CurrentStreak:      0,
		StreakMilestones:   append([]int(nil), defaultStreakMilestones...),
		Achievements:       defaultAchievements(),
		LastCalculatedDate: now.Format(DateLayout),
	}
}
