// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: выбирает хранилище, создаёт репозитории, сервисы,
// обработчики, фильтры и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reward-bot/internal/bot"
	"serotonyl.ru/reward-bot/internal/bot/filters"
	"serotonyl.ru/reward-bot/internal/calendar"
	"serotonyl.ru/reward-bot/internal/config"
	"serotonyl.ru/reward-bot/internal/db/postgres"
	"serotonyl.ru/reward-bot/internal/db/sqlite"
	"serotonyl.ru/reward-bot/internal/features/admin"
	"serotonyl.ru/reward-bot/internal/features/analytics"
	"serotonyl.ru/reward-bot/internal/features/economy"
	"serotonyl.ru/reward-bot/internal/features/events"
	"serotonyl.ru/reward-bot/internal/features/streak"
	"serotonyl.ru/reward-bot/internal/jobs"
	"serotonyl.ru/reward-bot/internal/lock"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler

	closers []func()
}

// Close освобождает соединения в обратном порядке создания.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// storage — репозитории выбранного драйвера.
type storage struct {
	economy economy.Repository
	streaks streak.Repository
	events  events.Repository
	close   func()
}

// openStorage подключает PostgreSQL или локальный SQLite по STORAGE_DRIVER.
func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
		}
		if err := postgres.RunMigrations(ctx, pool, migrations); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ошибка миграций: %w", err)
		}
		return &storage{
			economy: economy.NewPostgresRepository(pool),
			streaks: streak.NewPostgresRepository(pool),
			events:  events.NewPostgresRepository(pool),
			close:   pool.Close,
		}, nil

	case config.StorageSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("ошибка открытия SQLite: %w", err)
		}
		return &storage{
			economy: economy.NewSQLiteRepository(db),
			streaks: streak.NewSQLiteRepository(db),
			events:  events.NewSQLiteRepository(db),
			close:   func() { _ = db.Close() },
		}, nil
	}
	return nil, fmt.Errorf("неизвестный STORAGE_DRIVER %q", cfg.StorageDriver)
}

// newLocker — Redis, если задан REDIS_ADDR, иначе блокировка в памяти процесса.
func newLocker(ctx context.Context, cfg *config.Config) (lock.Locker, func(), error) {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR не задан, блокировки в памяти процесса")
		return lock.NewMemory(), func() {}, nil
	}
	r, err := lock.NewRedis(ctx, lock.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Prefix:   cfg.RedisPrefix,
		TTL:      cfg.ClaimLockTTL,
	})
	if err != nil {
		return nil, nil, err
	}
	return r, func() { _ = r.Close() }, nil
}

// newRecorder — RabbitMQ, если задан ANALYTICS_AMQP_URL, иначе события в лог.
func newRecorder(cfg *config.Config) (analytics.Recorder, func(), error) {
	if cfg.AnalyticsAMQPURL == "" {
		return analytics.NewLogRecorder(log.StandardLogger()), func() {}, nil
	}
	r, err := analytics.DialAMQP(cfg.AnalyticsAMQPURL, cfg.AnalyticsExchange, cfg.AnalyticsRoutingKey)
	if err != nil {
		return nil, nil, err
	}
	return r, func() { _ = r.Close() }, nil
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}
	fail := func(err error) (*App, error) {
		a.Close()
		return nil, err
	}

	loc := cfg.Location()
	clock := calendar.SystemClock{Location: loc}

	// === 1. Хранилище ===
	store, err := openStorage(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	a.closers = append(a.closers, store.close)

	// === 2. Блокировки и аналитика ===
	locker, closeLocker, err := newLocker(ctx, cfg)
	if err != nil {
		return fail(fmt.Errorf("ошибка подключения к Redis: %w", err))
	}
	a.closers = append(a.closers, closeLocker)

	recorder, closeRecorder, err := newRecorder(cfg)
	if err != nil {
		return fail(fmt.Errorf("ошибка подключения аналитики: %w", err))
	}
	a.closers = append(a.closers, closeRecorder)

	// === 3. Telegram Bot API ===
	client, err := bot.NewClient(ctx, cfg.TelegramBotToken, cfg.AppEnv == "development")
	if err != nil {
		return fail(fmt.Errorf("ошибка создания Telegram API: %w", err))
	}

	// === 4. Сервисы ===
	resolver := events.NewResolver()
	eventsService := events.NewService(store.events, resolver, clock)
	if err := eventsService.Load(ctx); err != nil {
		return fail(fmt.Errorf("ошибка загрузки событий: %w", err))
	}

	var multiplier streak.DailyMultiplier
	if cfg.FeatureEventsEnabled {
		multiplier = resolver
	}

	economyService := economy.NewService(store.economy, loc)
	streakService := streak.NewService(store.streaks, multiplier, locker, recorder, clock, cfg)
	adminService := admin.NewService(admin.NewMemoryRepository(), cfg, clock)

	// === 5. Обработчики ===
	handlers := bot.Handlers{
		Streak:  streak.NewHandler(streakService, client, cfg),
		Economy: economy.NewHandler(economyService, client),
		Events:  events.NewHandler(eventsService, client, loc),
		Admin:   admin.NewHandler(adminService, eventsService, economyService, client, loc),
	}

	// === 6. Собираем бота ===
	a.Bot = bot.New(client, client, cfg, handlers, filters.NewChatFilter(cfg.AllowedChatIDs))

	// === 7. Планировщик задач ===
	a.Scheduler = jobs.NewScheduler(streakService, client, loc, cfg.FeatureRemindersEnabled)

	log.WithFields(log.Fields{
		"storage":  cfg.StorageDriver,
		"timezone": loc.String(),
		"events":   cfg.FeatureEventsEnabled,
	}).Info("Приложение собрано")
	return a, nil
}
