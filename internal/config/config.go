package config

type Config struct {
	Telegram TelegramConf `json:"telegram"`
	Game     GameConf     `json:"game"`
}

type TelegramConf struct {
	Enabled bool   `json:"enabled"`
	Token   string `json:"token"`
	ChatID  string `json:"chat_id"`
}

type GameConf struct {
	Timezone       string `json:"timezone"`        // 计算"今天"使用的时区，默认 Local
	DailyRefresh   bool   `json:"daily_refresh"`   // 是否启用每日零点刷新
	RefreshMinutes int    `json:"refresh_minutes"` // 零点后延迟多少分钟刷新，默认5
}
