package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/dushixiang/tradehabit/internal/models"
	"github.com/dushixiang/tradehabit/internal/service"
	"github.com/dushixiang/tradehabit/internal/xe"
)

// GameHandler 习惯追踪器HTTP处理器
type GameHandler struct {
	gameService   *service.GameService
	ledgerService *service.LedgerService
	streakService *service.StreakService
	statsService  *service.StatsService
	logger        *zap.Logger
}

// NewGameHandler 创建处理器
func NewGameHandler(
	gameService *service.GameService,
	ledgerService *service.LedgerService,
	streakService *service.StreakService,
	statsService *service.StatsService,
	logger *zap.Logger,
) *GameHandler {
	return &GameHandler{
		gameService:   gameService,
		ledgerService: ledgerService,
		streakService: streakService,
		statsService:  statsService,
		logger:        logger,
	}
}

// RegisterRoutes 注册路由
func (h *GameHandler) RegisterRoutes(g *echo.Group) {
	game := g.Group("/game")

	// 查询接口
	game.GET("/state", h.GetState)
	game.GET("/achievements", h.GetAchievements)
	game.GET("/stats", h.GetStats)
	game.GET("/calendar", h.GetCalendar)

	// 账本操作
	game.POST("/trades", h.AddTrade)
	game.PUT("/trades/:id", h.UpdateTrade)
	game.DELETE("/trades/:id", h.DeleteTrade)

	// 规则操作
	game.POST("/rules", h.AddRule)
	game.PUT("/rules/:id", h.UpdateRule)
	game.DELETE("/rules/:id", h.DeleteRule)

	// 档案操作
	game.POST("/profiles", h.AddProfile)
	game.PUT("/profiles/:key", h.RenameProfile)
	game.DELETE("/profiles/:key", h.DeleteProfile)
	game.POST("/profiles/active", h.SwitchProfile)

	// 导入导出与重置
	game.GET("/export", h.ExportJSON)
	game.GET("/export/csv", h.ExportCSV)
	game.POST("/import", h.Import)
	game.POST("/reset", h.Reset)

	// 庆祝队列
	game.GET("/celebrations/next", h.NextCelebration)
	game.POST("/celebrations/dismiss", h.DismissCelebration)
}

type tradeRequest struct {
	Date            string   `json:"date" validate:"required"`
	Symbol          string   `json:"symbol" validate:"required"`
	EntryPrice      float64  `json:"entryPrice"`
	ExitPrice       float64  `json:"exitPrice"`
	Position        string   `json:"position" validate:"required"`
	RiskAmount      float64  `json:"riskAmount" validate:"gte=0"`
	PnlR            float64  `json:"pnlR"`
	RiskRewardRatio float64  `json:"riskRewardRatio" validate:"gte=0"`
	RulesFollowed   []string `json:"rulesFollowed"`
	Notes           string   `json:"notes"`
	ReviewLink      string   `json:"reviewLink"`
}

func (r tradeRequest) toTrade(id string) (models.Trade, error) {
	if _, err := time.Parse(service.DateLayout, r.Date); err != nil {
		return models.Trade{}, xe.ErrInvalidTradeDate
	}
	if r.Position != models.PositionLong && r.Position != models.PositionShort {
		return models.Trade{}, xe.ErrInvalidPositionVal
	}
	return models.Trade{
		ID:              id,
		Date:            r.Date,
		Symbol:          r.Symbol,
		EntryPrice:      r.EntryPrice,
		ExitPrice:       r.ExitPrice,
		Position:        r.Position,
		RiskAmount:      r.RiskAmount,
		PnlR:            r.PnlR,
		RiskRewardRatio: r.RiskRewardRatio,
		RulesFollowed:   r.RulesFollowed,
		Notes:           r.Notes,
		ReviewLink:      r.ReviewLink,
	}, nil
}

// mutationResponse 每次变换统一返回调和后的状态与新解锁成就
func (h *GameHandler) mutationResponse(c echo.Context, state *models.GameState, newlyUnlocked []models.Achievement) error {
	if newlyUnlocked == nil {
		newlyUnlocked = []models.Achievement{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"state":           state,
		"newAchievements": newlyUnlocked,
		"streakTitle":     h.streakService.Title(state.CurrentStreak),
	})
}

// GetState 获取当前状态
// GET /api/game/state
func (h *GameHandler) GetState(c echo.Context) error {
	state, err := h.gameService.State()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"state":       state,
		"streakTitle": h.streakService.Title(state.CurrentStreak),
	})
}

// GetAchievements 获取成就目录
// GET /api/game/achievements
func (h *GameHandler) GetAchievements(c echo.Context) error {
	state, err := h.gameService.State()
	if err != nil {
		return err
	}
	unlocked := 0
	for _, a := range state.Achievements {
		if a.IsUnlocked {
			unlocked++
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":        len(state.Achievements),
		"unlocked":     unlocked,
		"achievements": state.Achievements,
	})
}

// GetStats 获取当前档案统计
// GET /api/game/stats
func (h *GameHandler) GetStats(c echo.Context) error {
	state, err := h.gameService.State()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"profile":       state.ActiveProfile,
		"currentStreak": state.CurrentStreak,
		"streakTitle":   h.streakService.Title(state.CurrentStreak),
		"stats":         h.statsService.Calculate(state),
	})
}

// GetCalendar 获取月度日历摘要
// GET /api/game/calendar?month=2025-08
func (h *GameHandler) GetCalendar(c echo.Context) error {
	month := c.QueryParam("month")
	if _, err := time.Parse("2006-01", month); err != nil {
		return xe.ErrInvalidMonth
	}
	state, err := h.gameService.State()
	if err != nil {
		return err
	}
	days := h.statsService.Calendar(state, month)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"month": month,
		"days":  days,
	})
}

// AddTrade 在当前档案追加一笔交易
// POST /api/game/trades
func (h *GameHandler) AddTrade(c echo.Context) error {
	var req tradeRequest
	if err := c.Bind(&req); err != nil {
		return xe.ErrInvalidParams
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	trade, err := req.toTrade(ulid.Make().String())
	if err != nil {
		return err
	}

	state, newlyUnlocked, err := h.gameService.Apply(c.Request().Context(), func(state *models.GameState) {
		h.ledgerService.AppendTrade(state, state.ActiveProfile, trade)
	})
	if err != nil {
		return err
	}
	return h.mutationResponse(c, state, newlyUnlocked)
}

// UpdateTrade 编辑交易
// PUT /api/game/trades/:id
func (h *GameHandler) UpdateTrade(c echo.Context) error {
	tradeID := c.Param("id")
	var req tradeRequest
	if err := c.Bind(&req); err != nil {
		return xe.ErrInvalidParams
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	trade, err := req.toTrade(tradeID)
	if err != nil {
		return err
	}

	state, newlyUnlocked, err := h.gameService.Apply(c.Request().Context(), func(state *models.GameState) {
		h.ledgerService.UpdateTrade(state, state.ActiveProfile, tradeID, trade)
	})
	if err != nil {
		return err
	}
	return h.mutationResponse(c, state, newlyUnlocked)
}

// DeleteTrade 删除交易
// DELETE /api/game/trades/:id
func (h *GameHandler) DeleteTrade(c echo.Context) error {
	tradeID := c.Param("id")
	state, newlyUnlocked, err := h.gameService.Apply(c.Request().Context(), func(state *models.GameState) {
		h.ledgerService.RemoveTrade(state, state.ActiveProfile, tradeID)
	})
	if err != nil {
		return err
	}
	return h.mutationResponse(c, state, newlyUnlocked)
}

type ruleRequest struct {
	Text     string `json:"text" validate:"required"`
	IsActive bool   `json:"isActive"`
}

// AddRule 向当前档案添加规则
// POST /api/game/rules
func (h *GameHandler) AddRule(c echo.Context) error {
	var req ruleRequest
	if err := c.Bind(&req); err != nil {
		return xe.ErrInvalidParams
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	rule := models.TradingRule{ID: ulid.Make().String(), Text: req.Text, IsActive: true}

	state, newlyUnlocked, err := h.gameService.Apply(c.Request().Context(), func(state *models.GameState) {
		h.ledgerService.AddRule(state, state.ActiveProfile, rule)
	})
	if err != nil {
		return err
	}
	return h.mutationResponse(c, state, newlyUnlocked)
}

// UpdateRule 修改规则文本或启停状态
// PUT /api/game/rules/:id
func (h *GameHandler) UpdateRule(c echo.Context) error {
	ruleID := c.Param("id")
	var req ruleRequest
	if err := c.Bind(&req); err != nil {
		return xe.ErrInvalidParams
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	state, newlyUnlocked, err := h.gameService.Apply(c.Request().Context(), func(state *models.GameState) {
		h.ledgerService.UpdateRule(state, state.ActiveProfile, ruleID, req.Text, req.IsActive)
	})
	if err != nil {
		return err
	}
	return h.mutationResponse(c, state, newlyUnlocked)
}

// DeleteRule 删除规则
// DELETE /api/game/rules/:id
func (h *GameHandler) DeleteRule(c echo.Context) error {
	ruleID := c.Param("id")
	state, newlyUnlocked, err := h.gameService.Apply(c.Request().Context(), func(state *models.GameState) {
		h.ledgerService.RemoveRule(state, state.ActiveProfile, ruleID)
	})
	if err != nil {
		return err
	}
	return h.mutationResponse(c, state, newlyUnlocked)
}

type profileRequest struct {
	Name string `json:"name" validate:"required"`
}

type switchProfileRequest struct {
	Key string `json:"key" validate:"required"`
}

// AddProfile 新增交易档案
// POST /api/game/profiles
func (h *GameHandler) AddProfile(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return xe.ErrInvalidParams
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	key := profileKey(req.Name)
	current, err := h.gameService.State()
	if err != nil {
		return err
	}
	if _, exists := current.Profiles[key]; exists {
		return xe.ErrProfileExists
	}

	state, newlyUnlocked, err := h.gameService.Apply(c.Request().Context(), func(state *models.GameState) {
		h.ledgerService.AddProfile(state, key, models.ProfileConfig{
			Name:  req.Name,
			Rules: []models.TradingRule{},
		})
	})
	if err != nil {
		return err
	}
	return h.mutationResponse(c, state, newlyUnlocked)
}

// RenameProfile 重命名档案
// PUT /api/game/profiles/:key
func (h *GameHandler) RenameProfile(c echo.Context) error {
	key := c.Param("key")
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return xe.ErrInvalidParams
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.requireProfile(key); err != nil {
		return err
	}

	state, newlyUnlocked, err := h.gameService.Apply(c.Request().Context(), func(state *models.GameState) {
		h.ledgerService.RenameProfile(state, key, req.Name)
	})
	if err != nil {
		return err
	}
	return h.mutationResponse(c, state, newlyUnlocked)
}

// DeleteProfile 删除档案，最后一个档案拒绝删除
// DELETE /api/game/profiles/:key
func (h *GameHandler) DeleteProfile(c echo.Context) error {
	key := c.Param("key")
	current, err := h.gameService.State()
	if err != nil {
		return err
	}
	if _, ok := current.Profiles[key]; !ok {
		return xe.ErrProfileNotFound
	}
	if len(current.Profiles) <= 1 {
		return xe.ErrLastProfile
	}

	state, newlyUnlocked, err := h.gameService.Apply(c.Request().Context(), func(state *models.GameState) {
		h.ledgerService.RemoveProfile(state, key)
	})
	if err != nil {
		return err
	}
	return h.mutationResponse(c, state, newlyUnlocked)
}

// SwitchProfile 切换当前档案，切换不会触发庆祝
// POST /api/game/profiles/active
func (h *GameHandler) SwitchProfile(c echo.Context) error {
	var req switchProfileRequest
	if err := c.Bind(&req); err != nil {
		return xe.ErrInvalidParams
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.requireProfile(req.Key); err != nil {
		return err
	}

	state, newlyUnlocked, err := h.gameService.Apply(c.Request().Context(), func(state *models.GameState) {
		h.ledgerService.SwitchProfile(state, req.Key)
	})
	if err != nil {
		return err
	}
	return h.mutationResponse(c, state, newlyUnlocked)
}

// ExportJSON 导出整个状态
// GET /api/game/export
func (h *GameHandler) ExportJSON(c echo.Context) error {
	raw, err := h.gameService.ExportJSON()
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="tradehabit-export.json"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, raw)
}

// tradeCSV 导出列与前端约定保持一致
type tradeCSV struct {
	Date             string  `csv:"date"`
	Symbol           string  `csv:"symbol"`
	Position         string  `csv:"position"`
	EntryPrice       float64 `csv:"entry_price"`
	ExitPrice        float64 `csv:"exit_price"`
	RiskAmount       float64 `csv:"risk_amount"`
	PnlR             float64 `csv:"pnl_r"`
	RiskRewardRatio  float64 `csv:"risk_reward_ratio"`
	AllRulesFollowed string  `csv:"all_rules_followed"`
	RulesFollowed    string  `csv:"rules_followed"`
	Notes            string  `csv:"notes"`
	ReviewLink       string  `csv:"review_link"`
}

// ExportCSV 导出当前档案账本
// GET /api/game/export/csv
func (h *GameHandler) ExportCSV(c echo.Context) error {
	state, err := h.gameService.State()
	if err != nil {
		return err
	}

	rows := make([]tradeCSV, 0, len(state.ActiveTrades()))
	for _, trade := range state.ActiveTrades() {
		followed := "No"
		if trade.AllRulesFollowed {
			followed = "Yes"
		}
		rows = append(rows, tradeCSV{
			Date:             trade.Date,
			Symbol:           trade.Symbol,
			Position:         trade.Position,
			EntryPrice:       trade.EntryPrice,
			ExitPrice:        trade.ExitPrice,
			RiskAmount:       trade.RiskAmount,
			PnlR:             trade.PnlR,
			RiskRewardRatio:  trade.RiskRewardRatio,
			AllRulesFollowed: followed,
			RulesFollowed:    strings.Join(trade.RulesFollowed, ","),
			Notes:            trade.Notes,
			ReviewLink:       trade.ReviewLink,
		})
	}

	content, err := gocsv.MarshalString(&rows)
	if err != nil {
		return fmt.Errorf("failed to encode csv: %w", err)
	}

	filename := fmt.Sprintf("tradehabit-%s.csv", state.ActiveProfile)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, "text/csv", []byte(content))
}

// Import 整体导入状态，解析失败不影响现有数据
// POST /api/game/import
func (h *GameHandler) Import(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return xe.ErrInvalidImport
	}
	state, err := h.gameService.Import(c.Request().Context(), raw)
	if err != nil {
		return err
	}
	return h.mutationResponse(c, state, nil)
}

// Reset 重置为默认状态
// POST /api/game/reset
func (h *GameHandler) Reset(c echo.Context) error {
	state, err := h.gameService.Reset(c.Request().Context())
	if err != nil {
		return err
	}
	return h.mutationResponse(c, state, nil)
}

// NextCelebration 读取下一个待展示成就
// GET /api/game/celebrations/next
func (h *GameHandler) NextCelebration(c echo.Context) error {
	achievement, ok := h.gameService.NextCelebration()
	if !ok {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"pending": false,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"pending":     true,
		"achievement": achievement,
	})
}

// DismissCelebration 关闭当前庆祝并推进队列
// POST /api/game/celebrations/dismiss
func (h *GameHandler) DismissCelebration(c echo.Context) error {
	h.gameService.DismissCelebration()
	achievement, ok := h.gameService.NextCelebration()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"pending":     ok,
		"achievement": achievement,
	})
}

func (h *GameHandler) requireProfile(key string) error {
	state, err := h.gameService.State()
	if err != nil {
		return err
	}
	if _, ok := state.Profiles[key]; !ok {
		return xe.ErrProfileNotFound
	}
	return nil
}

// profileKey 由名称生成档案键，如 "USA Indices" -> "usa-indices"
func profileKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.Join(strings.FieldsFunc(key, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}), "-")
	if key == "" {
		key = ulid.Make().String()
	}
	return key
}
