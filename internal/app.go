package internal

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dushixiang/tradehabit/internal/config"
	"github.com/dushixiang/tradehabit/internal/handler"
	"github.com/dushixiang/tradehabit/internal/models"
	"github.com/dushixiang/tradehabit/internal/service"
	"github.com/dushixiang/tradehabit/internal/telegram"
	"github.com/dushixiang/tradehabit/pkg/nostd"
	"github.com/dushixiang/tradehabit/web"
	"github.com/go-orz/orz"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func Run(configPath string) error {
	app := NewTradeHabitApp()

	framework, err := orz.NewFramework(
		orz.WithConfig(configPath),
		orz.WithLoggerFromConfig(),
		orz.WithDatabase(),
		orz.WithHTTP(),
		orz.WithApplication(app),
	)
	if err != nil {
		return err
	}

	return framework.Run()
}

func NewTradeHabitApp() orz.Application {
	return &TradeHabitApp{}
}

var _ orz.Application = (*TradeHabitApp)(nil)

type AppComponents struct {
	GameHandler *handler.GameHandler

	GameService *service.GameService
	RefreshLoop *service.RefreshLoop

	tg *telegram.Telegram
}

type TradeHabitApp struct {
	components *AppComponents
	conf       *config.Config
}

// GetComponents 获取应用组件
func (r *TradeHabitApp) GetComponents() *AppComponents {
	return r.components
}

func (r *TradeHabitApp) Configure(app *orz.App) error {
	logger := app.Logger()
	e := app.GetEcho()
	db := app.GetDatabase()

	var conf config.Config
	err := app.GetConfig().App.Unmarshal(&conf)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %v", err)
	}

	components, err := InitializeApp(logger, db, &conf)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %v", err)
	}
	r.components = components
	r.conf = &conf

	if err := db.AutoMigrate(
		models.StateSnapshot{},
	); err != nil {
		logger.Fatal("database auto migrate failed", zap.Error(err))
	}

	if err := r.Init(logger); err != nil {
		logger.Fatal("app init failed", zap.Error(err))
	}

	e.HidePort = true
	e.HideBanner = true

	e.Use(middleware.Gzip())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		Skipper:      middleware.DefaultSkipper,
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			sugar := logger.Sugar()
			sugar.Error(fmt.Sprintf("[PANIC RECOVER] %v %s\n", err, stack))
			return err
		},
	}))
	e.Use(WithErrorHandler(logger))
	customValidator := nostd.CustomValidator{Validator: validator.New()}
	if err := customValidator.TransInit(); err != nil {
		logger.Fatal("failed to init custom validator", zap.Error(err))
	}
	e.Validator = &customValidator

	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().RequestURI
			if strings.HasPrefix(path, "/api") {
				return true
			}
			return false
		},
		Root:       "",
		Index:      "index.html",
		HTML5:      true,
		Browse:     false,
		IgnoreBase: false,
		Filesystem: http.FS(web.Assets()),
	}))

	api := e.Group("/api")
	{
		if r.components.GameHandler != nil {
			r.components.GameHandler.RegisterRoutes(api)
		}
	}

	return nil
}

func (r *TradeHabitApp) Init(logger *zap.Logger) error {
	logger.Info("=================================================")
	logger.Info("TradeHabit Discipline Tracker Starting...")
	logger.Info("=================================================")

	components := r.GetComponents()
	if components == nil {
		return fmt.Errorf("components not initialized")
	}

	if err := components.GameService.Init(context.Background()); err != nil {
		return fmt.Errorf("failed to load game state: %w", err)
	}

	if components.tg != nil {
		components.tg.Start()
	}

	go func() {
		if err := components.RefreshLoop.Start(context.Background()); err != nil {
			logger.Error("refresh loop error", zap.Error(err))
		}
	}()
	return nil
}
