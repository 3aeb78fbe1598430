package models

import "sort"

// GameState 应用聚合根，字段命名与前端导出的 JSON 保持一致
type GameState struct {
	ActiveProfile      string                   `json:"activeProfile"`
	Profiles           map[string]ProfileConfig `json:"profiles"`
	Trades             map[string][]Trade       `json:"trades"`
	CurrentStreak      int                      `json:"currentStreak"`
	StreakMilestones   []int                    `json:"streakMilestones"`
	Achievements       []Achievement            `json:"achievements"`
	LastCalculatedDate string                   `json:"lastCalculatedDate"`
}

// Clone 深拷贝整个状态，调和器在应用变换前必须先拷贝
func (s *GameState) Clone() *GameState {
	clone := &GameState{
		ActiveProfile:      s.ActiveProfile,
		CurrentStreak:      s.CurrentStreak,
		LastCalculatedDate: s.LastCalculatedDate,
		StreakMilestones:   append([]int(nil), s.StreakMilestones...),
		Achievements:       CloneAchievements(s.Achievements),
		Profiles:           make(map[string]ProfileConfig, len(s.Profiles)),
		Trades:             make(map[string][]Trade, len(s.Trades)),
	}
	for key, profile := range s.Profiles {
		clone.Profiles[key] = profile.Clone()
	}
	for key, trades := range s.Trades {
		copied := make([]Trade, 0, len(trades))
		for _, trade := range trades {
			copied = append(copied, trade.Clone())
		}
		clone.Trades[key] = copied
	}
	return clone
}

// ActiveTrades 返回当前档案的交易账本
func (s *GameState) ActiveTrades() []Trade {
	return s.Trades[s.ActiveProfile]
}

// AllTrades 返回所有档案的交易合集
func (s *GameState) AllTrades() []Trade {
	var all []Trade
	for _, trades := range s.Trades {
		all = append(all, trades...)
	}
	return all
}

// HealActiveProfile 当 activeProfile 指向不存在的档案时回退到首个现存档案（按键排序）
func (s *GameState) HealActiveProfile() bool {
	if _, ok := s.Profiles[s.ActiveProfile]; ok {
		return false
	}
	keys := make([]string, 0, len(s.Profiles))
	for key := range s.Profiles {
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return false
	}
	sort.Strings(keys)
	s.ActiveProfile = keys[0]
	if s.Trades == nil {
		s.Trades = make(map[string][]Trade)
	}
	return true
}
