package models

// TradingRule 交易纪律检查项，停用后不再参与"全部遵守"的判定
type TradingRule struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	IsActive bool   `json:"isActive"`
}

// DataField 交易表单字段配置，仅供前端渲染使用
type DataField struct {
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Options  []string `json:"options,omitempty"`
	Required bool     `json:"required"`
}

// ProfileConfig 交易档案：独立的规则集合与交易账本
type ProfileConfig struct {
	Name       string               `json:"name"`
	Rules      []TradingRule        `json:"rules"`
	DataFields map[string]DataField `json:"dataFields,omitempty"`
}

// Clone 深拷贝档案配置
func (p ProfileConfig) Clone() ProfileConfig {
	clone := p
	clone.Rules = append([]TradingRule(nil), p.Rules...)
	if p.DataFields != nil {
		clone.DataFields = make(map[string]DataField, len(p.DataFields))
		for k, v := range p.DataFields {
			f := v
			f.Options = append([]string(nil), v.Options...)
			clone.DataFields[k] = f
		}
	}
	return clone
}

// ActiveRuleIDs 返回当前启用的规则ID
func (p ProfileConfig) ActiveRuleIDs() []string {
	var ids []string
	for _, rule := range p.Rules {
		if rule.IsActive {
			ids = append(ids, rule.ID)
		}
	}
	return ids
}
