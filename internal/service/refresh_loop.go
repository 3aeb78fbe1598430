package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/dushixiang/tradehabit/internal/config"
	"github.com/dushixiang/tradehabit/internal/models"
)

// RefreshLoop 每日刷新调度器
//
// 连胜展示依赖"今天"，跨天后即使没有任何用户操作，lastCalculatedDate
// 也应该滚动到新的日期。恒等变换不会产生新解锁，重算是幂等的。
type RefreshLoop struct {
	conf        config.GameConf
	gameService *GameService
	logger      *zap.Logger

	isRunning bool
	cron      *cron.Cron
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewRefreshLoop 创建刷新调度器
func NewRefreshLoop(conf *config.Config, gameService *GameService, logger *zap.Logger) *RefreshLoop {
	return &RefreshLoop{
		conf:        conf.Game,
		gameService: gameService,
		logger:      logger,
	}
}

// Start 启动每日刷新
func (t *RefreshLoop) Start(ctx context.Context) error {
	if t.isRunning {
		return fmt.Errorf("refresh loop is already running")
	}
	if !t.conf.DailyRefresh {
		t.logger.Info("daily refresh disabled")
		return nil
	}

	t.isRunning = true
	t.ctx, t.cancel = context.WithCancel(ctx)

	minutes := t.conf.RefreshMinutes
	if minutes <= 0 || minutes >= 60 {
		minutes = 5
	}
	cronExpr := fmt.Sprintf("%d 0 * * *", minutes)

	t.logger.Info("refresh loop started", zap.String("cron_expression", cronExpr))

	t.cron = cron.New()
	_, err := t.cron.AddFunc(cronExpr, func() {
		if err := t.ExecuteRefresh(context.Background()); err != nil {
			t.logger.Error("daily refresh failed", zap.Error(err))
		}
	})
	if err != nil {
		t.isRunning = false
		return fmt.Errorf("failed to schedule daily refresh: %w", err)
	}

	t.cron.Start()

	<-t.ctx.Done()
	t.Stop()
	return nil
}

// Stop 停止刷新调度
func (t *RefreshLoop) Stop() {
	if !t.isRunning {
		return
	}
	t.isRunning = false
	if t.cron != nil {
		t.cron.Stop()
	}
	if t.cancel != nil {
		t.cancel()
	}
	t.logger.Info("refresh loop stopped")
}

// ExecuteRefresh 执行一次恒等调和
func (t *RefreshLoop) ExecuteRefresh(ctx context.Context) error {
	start := time.Now()
	state, _, err := t.gameService.Apply(ctx, func(*models.GameState) {})
	if err != nil {
		return err
	}
	t.logger.Info("daily refresh completed",
		zap.String("last_calculated_date", state.LastCalculatedDate),
		zap.Int("current_streak", state.CurrentStreak),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
