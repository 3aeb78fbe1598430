package service

import (
	"go.uber.org/zap"

	"github.com/dushixiang/tradehabit/internal/models"
)

// LedgerService 按档案维护交易账本，只修改传入状态，不触碰连胜与成就
type LedgerService struct {
	logger *zap.Logger
}

// NewLedgerService 创建账本服务
func NewLedgerService(logger *zap.Logger) *LedgerService {
	return &LedgerService{logger: logger}
}

// AllRulesFollowed 判定勾选的规则是否覆盖了档案当前启用的全部规则
func (s *LedgerService) AllRulesFollowed(profile models.ProfileConfig, rulesFollowed []string) bool {
	followed := make(map[string]struct{}, len(rulesFollowed))
	for _, id := range rulesFollowed {
		followed[id] = struct{}{}
	}
	for _, id := range profile.ActiveRuleIDs() {
		if _, ok := followed[id]; !ok {
			return false
		}
	}
	return true
}

// AppendTrade 追加交易，插入顺序保留但不保证按日期有序
func (s *LedgerService) AppendTrade(state *models.GameState, profileKey string, trade models.Trade) {
	profile, ok := state.Profiles[profileKey]
	if !ok {
		s.logger.Warn("append trade to unknown profile", zap.String("profile", profileKey))
		return
	}
	trade.AllRulesFollowed = s.AllRulesFollowed(profile, trade.RulesFollowed)
	state.Trades[profileKey] = append(state.Trades[profileKey], trade)
}

// UpdateTrade 按ID替换交易，未命中时静默忽略；编辑时按当前启用规则重新判定
func (s *LedgerService) UpdateTrade(state *models.GameState, profileKey, tradeID string, trade models.Trade) {
	profile, ok := state.Profiles[profileKey]
	if !ok {
		return
	}
	trades := state.Trades[profileKey]
	for i := range trades {
		if trades[i].ID != tradeID {
			continue
		}
		trade.ID = tradeID
		trade.AllRulesFollowed = s.AllRulesFollowed(profile, trade.RulesFollowed)
		trades[i] = trade
		return
	}
}

// RemoveTrade 按ID删除交易，未命中时静默忽略
func (s *LedgerService) RemoveTrade(state *models.GameState, profileKey, tradeID string) {
	trades := state.Trades[profileKey]
	for i := range trades {
		if trades[i].ID == tradeID {
			state.Trades[profileKey] = append(trades[:i:i], trades[i+1:]...)
			return
		}
	}
}

// AddRule 向档案追加规则
func (s *LedgerService) AddRule(state *models.GameState, profileKey string, rule models.TradingRule) {
	profile, ok := state.Profiles[profileKey]
	if !ok {
		return
	}
	profile.Rules = append(profile.Rules, rule)
	state.Profiles[profileKey] = profile
}

// UpdateRule 修改规则文本与启用状态，不回溯已记录交易的判定结果
func (s *LedgerService) UpdateRule(state *models.GameState, profileKey, ruleID, text string, isActive bool) {
	profile, ok := state.Profiles[profileKey]
	if !ok {
		return
	}
	for i := range profile.Rules {
		if profile.Rules[i].ID == ruleID {
			profile.Rules[i].Text = text
			profile.Rules[i].IsActive = isActive
			break
		}
	}
	state.Profiles[profileKey] = profile
}

// RemoveRule 删除规则
func (s *LedgerService) RemoveRule(state *models.GameState, profileKey, ruleID string) {
	profile, ok := state.Profiles[profileKey]
	if !ok {
		return
	}
	for i := range profile.Rules {
		if profile.Rules[i].ID == ruleID {
			profile.Rules = append(profile.Rules[:i:i], profile.Rules[i+1:]...)
			break
		}
	}
	state.Profiles[profileKey] = profile
}

// AddProfile 新增档案并初始化空账本
func (s *LedgerService) AddProfile(state *models.GameState, key string, profile models.ProfileConfig) {
	if _, exists := state.Profiles[key]; exists {
		return
	}
	state.Profiles[key] = profile
	state.Trades[key] = []models.Trade{}
}

// RenameProfile 重命名档案
func (s *LedgerService) RenameProfile(state *models.GameState, key, name string) {
	profile, ok := state.Profiles[key]
	if !ok {
		return
	}
	profile.Name = name
	state.Profiles[key] = profile
}

// RemoveProfile 删除档案及其账本，最后一个档案由上层拒绝删除
func (s *LedgerService) RemoveProfile(state *models.GameState, key string) {
	delete(state.Profiles, key)
	delete(state.Trades, key)
}

// SwitchProfile 切换当前档案
func (s *LedgerService) SwitchProfile(state *models.GameState, key string) {
	if _, ok := state.Profiles[key]; ok {
		state.ActiveProfile = key
	}
}
