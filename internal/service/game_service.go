package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-orz/orz"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dushixiang/tradehabit/internal/config"
	"github.com/dushixiang/tradehabit/internal/models"
	"github.com/dushixiang/tradehabit/internal/repo"
	"github.com/dushixiang/tradehabit/internal/telegram"
	"github.com/dushixiang/tradehabit/internal/xe"
)

// Transform 一次状态变换，调和器会在状态的深拷贝上执行它
type Transform func(state *models.GameState)

// GameService 状态调和器，GameState 的唯一持有者
//
// 每次变换都是一个不可分割的事务：快照成就标记、应用变换、修复失效的
// activeProfile、重算连胜与成就、与快照比对得出新解锁集合。所有变换经
// 同一把互斥锁串行，保证比对对象始终是紧邻的前一份快照。
type GameService struct {
	logger *zap.Logger

	*orz.Service
	*repo.StateRepo

	conf  *config.Config
	clock Clock
	tg    *telegram.Telegram

	streakService      *StreakService
	achievementService *AchievementService

	mu           sync.Mutex
	state        *models.GameState
	celebrations []models.Achievement
}

// NewGameService 创建调和器
func NewGameService(
	db *gorm.DB,
	conf *config.Config,
	clock Clock,
	streakService *StreakService,
	achievementService *AchievementService,
	tg *telegram.Telegram,
	logger *zap.Logger,
) *GameService {
	return &GameService{
		logger:             logger,
		Service:            orz.NewService(db),
		StateRepo:          repo.NewStateRepo(db),
		conf:               conf,
		clock:              clock,
		tg:                 tg,
		streakService:      streakService,
		achievementService: achievementService,
	}
}

// Init 加载持久化快照，不存在时用默认状态初始化
func (s *GameService) Init(ctx context.Context) error {
	snapshot, err := s.StateRepo.FindDefault(ctx)
	if err != nil {
		return fmt.Errorf("failed to load state snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if snapshot == nil {
		s.state = DefaultGameState(s.clock())
		s.logger.Info("no saved state found, starting from defaults")
	} else {
		var state models.GameState
		if err := json.Unmarshal(snapshot.State, &state); err != nil {
			return fmt.Errorf("failed to decode state snapshot: %w", err)
		}
		if state.HealActiveProfile() {
			s.logger.Warn("active profile missing in saved state, fell back",
				zap.String("active_profile", state.ActiveProfile))
		}
		s.state = &state
	}

	// 启动时重算一次派生值，不触发任何庆祝
	s.state.CurrentStreak = s.streakService.Calculate(s.state)
	s.state.Achievements = s.achievementService.Check(s.state)

	s.persistLocked(ctx)

	s.logger.Info("game state loaded",
		zap.String("active_profile", s.state.ActiveProfile),
		zap.Int("profiles", len(s.state.Profiles)),
		zap.Int("current_streak", s.state.CurrentStreak))
	return nil
}

// State 返回当前状态的深拷贝
func (s *GameService) State() (*models.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil, xe.ErrStateNotReady
	}
	return s.state.Clone(), nil
}

// Apply 应用一次状态变换，返回调和后的状态与本次新解锁的成就
func (s *GameService) Apply(ctx context.Context, transform Transform) (*models.GameState, []models.Achievement, error) {
	return s.apply(ctx, transform, false)
}

// Replace 整体替换状态（导入/重置），新解锁的成就不进入庆祝队列
func (s *GameService) Replace(ctx context.Context, next *models.GameState) (*models.GameState, error) {
	state, _, err := s.apply(ctx, func(state *models.GameState) {
		*state = *next.Clone()
	}, true)
	return state, err
}

func (s *GameService) apply(ctx context.Context, transform Transform, suppress bool) (*models.GameState, []models.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return nil, nil, xe.ErrStateNotReady
	}

	// 变换前先结构化快照成就标记，变换可能原地修改目录
	wasUnlocked := make(map[string]bool, len(s.state.Achievements))
	for _, a := range s.state.Achievements {
		wasUnlocked[a.ID] = a.IsUnlocked
	}
	oldActiveProfile := s.state.ActiveProfile

	candidate := s.state.Clone()
	transform(candidate)

	isProfileSwitch := candidate.ActiveProfile != oldActiveProfile

	if candidate.HealActiveProfile() {
		s.logger.Warn("transform left dangling active profile, fell back",
			zap.String("active_profile", candidate.ActiveProfile))
	}

	candidate.CurrentStreak = s.streakService.Calculate(candidate)
	candidate.Achievements = s.achievementService.Check(candidate)
	candidate.LastCalculatedDate = s.clock().Format(DateLayout)

	var newlyUnlocked []models.Achievement
	for _, a := range candidate.Achievements {
		if a.IsUnlocked && !wasUnlocked[a.ID] {
			newlyUnlocked = append(newlyUnlocked, a)
		}
	}

	s.state = candidate
	s.persistLocked(ctx)

	// 档案切换会改变"当前账本"，由此翻转的成就不算新达成
	if isProfileSwitch || suppress {
		return s.state.Clone(), nil, nil
	}

	if len(newlyUnlocked) > 0 {
		s.celebrations = append(s.celebrations, newlyUnlocked...)
		s.notify(newlyUnlocked)
		s.logger.Info("achievements unlocked",
			zap.Int("count", len(newlyUnlocked)),
			zap.Int("current_streak", s.state.CurrentStreak))
	}

	return s.state.Clone(), newlyUnlocked, nil
}

// Reset 恢复默认状态
func (s *GameService) Reset(ctx context.Context) (*models.GameState, error) {
	s.mu.Lock()
	s.celebrations = nil
	s.mu.Unlock()
	return s.Replace(ctx, DefaultGameState(s.clock()))
}

// Import 解析导入的 JSON 并整体替换状态，解析失败时内存状态保持不变
func (s *GameService) Import(ctx context.Context, raw []byte) (*models.GameState, error) {
	var state models.GameState
	if err := json.Unmarshal(raw, &state); err != nil {
		s.logger.Warn("import rejected", zap.Error(err))
		return nil, xe.ErrInvalidImport
	}
	if len(state.Profiles) == 0 {
		return nil, xe.ErrInvalidImport
	}
	return s.Replace(ctx, &state)
}

// ExportJSON 导出当前状态
func (s *GameService) ExportJSON() ([]byte, error) {
	state, err := s.State()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(state, "", "  ")
}

// NextCelebration 读取庆祝队列头部，多个成就逐个展示
func (s *GameService) NextCelebration() (models.Achievement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.celebrations) == 0 {
		return models.Achievement{}, false
	}
	return s.celebrations[0], true
}

// DismissCelebration 弹出队列头部，推进到下一个
func (s *GameService) DismissCelebration() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.celebrations) > 0 {
		s.celebrations = s.celebrations[1:]
	}
}

// persistLocked 保存快照，失败只记录日志，不影响内存状态
func (s *GameService) persistLocked(ctx context.Context) {
	raw, err := json.Marshal(s.state)
	if err != nil {
		s.logger.Error("failed to encode state snapshot", zap.Error(err))
		return
	}
	if err := s.StateRepo.SaveDefault(ctx, raw); err != nil {
		s.logger.Error("failed to save state snapshot", zap.Error(err))
	}
}

func (s *GameService) notify(achievements []models.Achievement) {
	if s.tg == nil || !s.conf.Telegram.Enabled {
		return
	}
	for _, a := range achievements {
		msg := fmt.Sprintf("🏆 *%s*\n%s", a.Name, a.Description)
		if err := s.tg.Notify(s.conf.Telegram.ChatID, msg); err != nil {
			s.logger.Error("failed to send telegram notification",
				zap.String("achievement", a.ID), zap.Error(err))
		}
	}
}
