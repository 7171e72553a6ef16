package app

import "serotonyl.ru/reward-bot/internal/db/postgres"

// SQL-миграции встроены в код для упрощения деплоя.
// SQLite создаёт свою схему сама при открытии (db/sqlite).
var migrations = []postgres.Migration{
	{Version: 1, SQL: migration001Economy},
	{Version: 2, SQL: migration002Streaks},
	{Version: 3, SQL: migration003SpecialEvents},
}

var migration001Economy = `
CREATE TABLE IF NOT EXISTS balances (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT UNIQUE NOT NULL,
    balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
    total_earned BIGINT NOT NULL DEFAULT 0,
    total_spent BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS transactions (
    id BIGSERIAL PRIMARY KEY,
    from_user_id BIGINT,
    to_user_id BIGINT,
    amount BIGINT NOT NULL,
    transaction_type VARCHAR(50) NOT NULL,
    description TEXT,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_transactions_from_user ON transactions(from_user_id);
CREATE INDEX IF NOT EXISTS idx_transactions_to_user ON transactions(to_user_id);
CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions(created_at DESC);
`

// Даты хранятся ключами YYYY-MM-DD в часовом поясе игрока, а не DATE:
// запись переносится между устройствами без пересчёта зоны.
var migration002Streaks = `
CREATE TABLE IF NOT EXISTS streaks (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT UNIQUE NOT NULL,
    last_claim_date VARCHAR(10),
    current_streak INTEGER NOT NULL DEFAULT 0,
    longest_streak INTEGER NOT NULL DEFAULT 0,
    total_days_claimed INTEGER NOT NULL DEFAULT 0,
    streak_protection_used BOOLEAN NOT NULL DEFAULT FALSE,
    week_start_date VARCHAR(10),
    reminder_date VARCHAR(10),
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_streaks_current ON streaks(current_streak) WHERE current_streak > 0;
`

var migration003SpecialEvents = `
CREATE TABLE IF NOT EXISTS special_events (
    id VARCHAR(36) PRIMARY KEY,
    type VARCHAR(32) NOT NULL,
    name VARCHAR(255) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    icon VARCHAR(16) NOT NULL DEFAULT '',
    starts_at TIMESTAMPTZ NOT NULL,
    ends_at TIMESTAMPTZ NOT NULL CHECK (ends_at > starts_at),
    bonuses JSONB NOT NULL DEFAULT '{}'::jsonb,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_special_events_ends_at ON special_events(ends_at);
`
