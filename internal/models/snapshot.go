package models

import (
	"time"

	"gorm.io/datatypes"
)

// 默认快照主键，单用户应用只保留一行
const DefaultSnapshotID = "default"

// StateSnapshot 整个 GameState 的持久化快照，按 JSON 原样存储以兼容导入导出
type StateSnapshot struct {
	ID        string         `gorm:"primaryKey;type:varchar(26)" json:"id"`
	State     datatypes.JSON `gorm:"not null" json:"state"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (StateSnapshot) TableName() string {
	return "state_snapshots"
}
