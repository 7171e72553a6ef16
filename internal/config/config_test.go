package config

import (
	"os"
	"strings"
	"testing"
)

func TestLoadSQLiteDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("STORAGE_DRIVER", "SQLite")
	t.Setenv("ADMIN_IDS", "10, 20")
	t.Setenv("ADMIN_PASSWORD_HASH", "$argon2id$stub")

	cfg, err := loadFromEnv()
	if err != nil {
		t.Fatalf("loadFromEnv: %v", err)
	}
	if cfg.StorageDriver != StorageSQLite {
		t.Fatalf("driver = %q", cfg.StorageDriver)
	}
	if cfg.SQLitePath != "data/rewards.db" {
		t.Fatalf("sqlite path = %q", cfg.SQLitePath)
	}
	if len(cfg.AdminIDs) != 2 || !cfg.IsAdmin(20) || cfg.IsAdmin(30) {
		t.Fatalf("admin ids = %v", cfg.AdminIDs)
	}
	if cfg.StreakReminderHour != 18 || cfg.StreakReminderThreshold != 3 {
		t.Fatalf("streak defaults = %d/%d", cfg.StreakReminderHour, cfg.StreakReminderThreshold)
	}
	if cfg.Location() == nil {
		t.Fatal("location must not be nil")
	}
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "restore-me")
	os.Unsetenv("TELEGRAM_BOT_TOKEN")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	if _, err := loadFromEnv(); err == nil {
		t.Fatal("expected error without TELEGRAM_BOT_TOKEN")
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			StorageDriver:           StoragePostgres,
			DBPassword:              "secret",
			DBMaxConns:              10,
			DBMinConns:              1,
			BotMaxInflight:          4,
			BotUpdateTimeoutSeconds: 30,
			StreakReminderHour:      18,
		}
	}

	cases := []struct {
		name   string
		mutate func(c *Config)
		errSub string
	}{
		{"ok", func(c *Config) {}, ""},
		{"no db password", func(c *Config) { c.DBPassword = "" }, "DB_PASSWORD"},
		{"bad driver", func(c *Config) { c.StorageDriver = "mongo" }, "STORAGE_DRIVER"},
		{"bad hour", func(c *Config) { c.StreakReminderHour = 24 }, "STREAK_REMINDER_HOUR"},
		{"admins without hash", func(c *Config) { c.AdminIDs = []int64{1} }, "ADMIN_PASSWORD_HASH"},
		{"negative price", func(c *Config) { c.StreakProtectionPrice = -1 }, "STREAK_PROTECTION_PRICE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base()
			tc.mutate(&c)
			err := c.Validate()
			if tc.errSub == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.errSub) {
				t.Fatalf("expected error containing %q, got %v", tc.errSub, err)
			}
		})
	}
}

func TestParseInt64CSV(t *testing.T) {
	ids, err := parseInt64CSV(" 1,2 ,,3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 3 || ids[2] != 3 {
		t.Fatalf("ids = %v", ids)
	}
	if _, err := parseInt64CSV("1,x"); err == nil {
		t.Fatal("expected parse error")
	}
}
