package repo

import (
	"context"
	"errors"

	"github.com/dushixiang/tradehabit/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func NewStateRepo(db *gorm.DB) *StateRepo {
	return &StateRepo{
		Repository: orz.NewRepository[models.StateSnapshot, string](db),
	}
}

type StateRepo struct {
	orz.Repository[models.StateSnapshot, string]
}

// FindDefault 读取默认快照，不存在时返回 (nil, nil)
func (r StateRepo) FindDefault(ctx context.Context) (*models.StateSnapshot, error) {
	var snapshot models.StateSnapshot
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("id = ?", models.DefaultSnapshotID).
		First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// SaveDefault 覆盖写入默认快照
func (r StateRepo) SaveDefault(ctx context.Context, state []byte) error {
	snapshot := models.StateSnapshot{
		ID:    models.DefaultSnapshotID,
		State: datatypes.JSON(state),
	}
	db := r.GetDB(ctx)
	return db.Table(r.GetTableName()).Save(&snapshot).Error
}
