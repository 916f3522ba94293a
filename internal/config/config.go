package config

import (
	"errors"
	"os"
	"strconv"
	"sync"
	"time"

	"training-schedule-bot/internal/schedule"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type BotConfig struct {
	TelegramToken   string
	BaseAdminChatID int64
	DatabaseURL     string
	Debug           bool
	LogLevel        logrus.Level

	// Gotenberg для выгрузки PDF, пустой адрес отключает выгрузку
	GotenbergURL     string
	GotenbergTimeout time.Duration

	// Производственный календарь, загружается при старте если задан
	HolidaysFile string

	DefaultStartTime   schedule.Clock
	DefaultHoursPerDay float64
	DefaultTotalHours  float64
	DefaultWeekdays    []time.Weekday
}

var instance *BotConfig
var once sync.Once

func GetBotConfig() *BotConfig {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			logrus.Warnf("could not load .env file, using process environment: %s", err.Error())
		}

		cfg, err := Load()
		if err != nil {
			logrus.Fatalf("error loading config: %s", err.Error())
		}
		instance = cfg
	})

	return instance
}

// Load читает конфигурацию из переменных окружения
func Load() (*BotConfig, error) {
	cfg := &BotConfig{}

	cfg.TelegramToken = getEnv("TELEGRAM_BOT_TOKEN", "")
	if cfg.TelegramToken == "" {
		return nil, errors.New("could not get bot token")
	}

	cfg.BaseAdminChatID = getEnvAsInt("BASE_ADMIN_CHAT_ID", 0)
	cfg.DatabaseURL = getEnv("DATABASE_URL", "training_schedule.db")
	cfg.Debug = getEnvAsBool("BOT_DEBUG", false)

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	cfg.GotenbergURL = getEnv("GOTENBERG_URL", "")
	cfg.GotenbergTimeout = time.Duration(getEnvAsInt("GOTENBERG_TIMEOUT_SECONDS", 60)) * time.Second
	cfg.HolidaysFile = getEnv("HOLIDAYS_FILE", "")

	cfg.DefaultStartTime, err = schedule.ParseClock(getEnv("DEFAULT_START_TIME", "09:00"))
	if err != nil {
		return nil, err
	}

	cfg.DefaultHoursPerDay = getEnvAsFloat("DEFAULT_HOURS_PER_DAY", 2)
	cfg.DefaultTotalHours = getEnvAsFloat("DEFAULT_TOTAL_HOURS", 20)
	if cfg.DefaultHoursPerDay <= 0 || cfg.DefaultTotalHours <= 0 {
		return nil, errors.New("default hours must be positive")
	}

	cfg.DefaultWeekdays, err = schedule.ParseWeekdays(getEnv("DEFAULT_WEEKDAYS", "1,3"))
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseInt(valStr, 10, 64); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsFloat(name string, defaultVal float64) float64 {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseFloat(valStr, 64); err == nil {
		return val
	}

	return defaultVal
}
