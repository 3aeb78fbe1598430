//go:build wireinject
// +build wireinject

package internal

import (
	"github.com/google/wire"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dushixiang/tradehabit/internal/config"
	"github.com/dushixiang/tradehabit/internal/handler"
	"github.com/dushixiang/tradehabit/internal/service"
)

var (
	handlerSet = wire.NewSet(
		handler.NewGameHandler,
	)

	gameSet = wire.NewSet(
		provideClock,
		service.NewLedgerService,
		service.NewStreakService,
		service.NewAchievementService,
		service.NewStatsService,
		service.NewGameService,
		service.NewRefreshLoop,
	)
)

// InitializeApp 初始化应用
func InitializeApp(logger *zap.Logger, db *gorm.DB, conf *config.Config) (*AppComponents, error) {
	wire.Build(
		handlerSet,
		gameSet,
		provideTelegram,
		wire.Struct(new(AppComponents), "*"),
	)
	return nil, nil
}
