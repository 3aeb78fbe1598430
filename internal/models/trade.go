package models

// 持仓方向
const (
	PositionLong  = "long"
	PositionShort = "short"
)

// Trade 单笔交易记录，date 只精确到交易日（YYYY-MM-DD）
type Trade struct {
	ID               string   `json:"id"`
	Date             string   `json:"date"` // 交易日，YYYY-MM-DD
	Symbol           string   `json:"symbol"`
	EntryPrice       float64  `json:"entryPrice"`
	ExitPrice        float64  `json:"exitPrice"`
	Position         string   `json:"position"` // long/short
	RiskAmount       float64  `json:"riskAmount"`
	PnlR             float64  `json:"pnlR"`             // 盈亏（R倍数）
	RiskRewardRatio  float64  `json:"riskRewardRatio"`  // 计划盈亏比
	RulesFollowed    []string `json:"rulesFollowed"`    // 已遵守的规则ID
	AllRulesFollowed bool     `json:"allRulesFollowed"` // 录入时是否遵守了全部启用规则
	Notes            string   `json:"notes,omitempty"`
	ReviewLink       string   `json:"reviewLink,omitempty"`
}

// Clone 深拷贝交易记录
func (t Trade) Clone() Trade {
	clone := t
	clone.RulesFollowed = append([]string(nil), t.RulesFollowed...)
	return clone
}

// FollowedRule 判断该笔交易是否勾选了指定规则
func (t Trade) FollowedRule(ruleID string) bool {
	for _, id := range t.RulesFollowed {
		if id == ruleID {
			return true
		}
	}
	return false
}
