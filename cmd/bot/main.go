package main

import (
	"os"
	"os/signal"
	"syscall"
	"training-schedule-bot/internal/config"
	"training-schedule-bot/internal/export"
	"training-schedule-bot/internal/handler"
	"training-schedule-bot/internal/repository"
	"training-schedule-bot/internal/service"
	"training-schedule-bot/pkg/telegram"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	logrus.Info("Initializing config...")
	cfg := config.GetBotConfig()
	logrus.SetLevel(cfg.LogLevel)
	logrus.Info("Config initialized...")

	// Инициализируем SQLite базу данных
	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true, // SQLite ограничения
	})
	if err != nil {
		logrus.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatal("Failed to get database instance:", err)
	}

	userRepo, err := repository.NewGormUserRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create user repository")
	}

	// Производственный календарь
	nonWorkingDayRepo, err := repository.NewGormNonWorkingDayRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create non-working day repository")
	}

	// Журнал выгрузок
	exportRecordRepo, err := repository.NewGormExportRecordRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create export record repository")
	}

	userService := service.NewUserService(userRepo)
	holidayService := service.NewHolidayService(nonWorkingDayRepo)
	courseService := service.NewCourseService(service.CourseDefaults{
		StartTime:   cfg.DefaultStartTime,
		HoursPerDay: cfg.DefaultHoursPerDay,
		TotalHours:  cfg.DefaultTotalHours,
		Weekdays:    cfg.DefaultWeekdays,
	})

	gotenberg := export.NewGotenberg(cfg.GotenbergURL, cfg.GotenbergTimeout)
	if !gotenberg.Available() {
		logrus.Warn("GOTENBERG_URL is not set, PDF export is disabled")
	}
	exportService := service.NewExportService(exportRecordRepo, gotenberg)

	// Инициализируем администратора из конфига
	if err := userService.InitializeAdmin(cfg.BaseAdminChatID); err != nil {
		logrus.Warnf("Failed to initialize admin: %v", err)
	} else if cfg.BaseAdminChatID != 0 {
		logrus.Infof("Admin initialized with chat ID: %d", cfg.BaseAdminChatID)
	}

	if cfg.HolidaysFile != "" {
		if n, err := holidayService.LoadFromJSON(cfg.HolidaysFile); err != nil {
			logrus.Warnf("Failed to load holiday calendar %s: %v", cfg.HolidaysFile, err)
		} else {
			logrus.Infof("Holiday calendar loaded: %d days", n)
		}
	}

	// Создаем клиент Telegram
	client, err := telegram.NewClient(cfg.TelegramToken, cfg.Debug)
	if err != nil {
		logrus.Fatal("Failed to create Telegram client:", err)
	}

	logrus.Infof("Authorized on account %s", client.Bot.Self.UserName)

	botHandler := handler.NewHandler(
		client,
		userService,
		courseService,
		holidayService,
		exportService,
		cfg,
	)

	// Обработка сигналов для graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Запускаем обработку сообщений
	go botHandler.HandleUpdates(client.Updates())

	logrus.Info("Bot started. Press Ctrl+C to stop.")
	<-stop

	client.Bot.StopReceivingUpdates()

	// Закрываем соединение с БД
	if err := sqlDB.Close(); err != nil {
		logrus.Infof("Error closing database: %v", err)
	}

	logrus.Info("Bot stopped gracefully")
}
