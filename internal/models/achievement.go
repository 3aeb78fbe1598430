package models

// 成就类型
const (
	AchievementTypeStreak     = "streak"     // 连胜里程碑，连胜归零时会重新锁定
	AchievementTypeDiscipline = "discipline" // 纪律成就，解锁后永久保留
	AchievementTypeMeta       = "meta"       // 元成就，依赖其他全部成就
)

// 成就判定规则类型
const (
	CriteriaStreak            = "streak"            // 当前连胜 >= Streak
	CriteriaHighPnlCount      = "highPnlCount"      // 至少 Count 笔交易 PnlR >= MinPnlR
	CriteriaSingleDayPnl      = "singleDayPnl"      // 存在单日合计 PnlR >= DayPnlR
	CriteriaWeeklyReversal    = "weeklyReversal"    // 存在亏损周紧接盈利周
	CriteriaConsecutiveSymbol = "consecutiveSymbol" // 同一标的连续 RunLength 笔完美交易
	CriteriaAllOthers         = "allOthers"         // 其余成就全部解锁
)

// Criteria 成就判定参数，按 kind 分发，未用到的字段保持零值
type Criteria struct {
	Kind      string  `json:"kind"`
	Streak    int     `json:"streak,omitempty"`
	MinPnlR   float64 `json:"minPnlR,omitempty"`
	Count     int     `json:"count,omitempty"`
	DayPnlR   float64 `json:"dayPnlR,omitempty"`
	RunLength int     `json:"runLength,omitempty"`
}

// Achievement 成就目录条目，初始化后仅 isUnlocked 会变化
type Achievement struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Criteria    Criteria `json:"criteria"`
	IsUnlocked  bool     `json:"isUnlocked"`
}

// CloneAchievements 深拷贝成就目录
func CloneAchievements(achievements []Achievement) []Achievement {
	return append([]Achievement(nil), achievements...)
}
