package internal

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dushixiang/tradehabit/internal/config"
	"github.com/dushixiang/tradehabit/internal/service"
	"github.com/dushixiang/tradehabit/internal/telegram"
)

const (
	telegramHTTPTimeout = 10 * time.Second
)

// provideClock 提供可注入时钟，按配置时区取"今天"
func provideClock(conf *config.Config, logger *zap.Logger) service.Clock {
	location := time.Local
	if conf.Game.Timezone != "" {
		loc, err := time.LoadLocation(conf.Game.Timezone)
		if err != nil {
			logger.Warn("invalid timezone, falling back to local",
				zap.String("timezone", conf.Game.Timezone), zap.Error(err))
		} else {
			location = loc
		}
	}
	return func() time.Time {
		return time.Now().In(location)
	}
}

// provideTelegram provides telegram instance
func provideTelegram(logger *zap.Logger, conf *config.Config) *telegram.Telegram {
	if !conf.Telegram.Enabled {
		return nil
	}

	httpClient := &http.Client{Timeout: telegramHTTPTimeout}

	tg, err := telegram.NewTelegram(logger, telegram.Settings{
		Token:  conf.Telegram.Token,
		Client: httpClient,
	})
	if err != nil {
		logger.Error("failed to init telegram", zap.Error(err))
		return nil
	}

	return tg
}
