package lock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Снимаем ключ, только если в нём всё ещё наш токен:
// после истечения TTL блокировку мог взять другой процесс.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis — блокировка через SET NX с TTL, общая для всех реплик бота.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisOptions — параметры подключения.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// NewRedis подключается к Redis и проверяет соединение.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		MaxRetries:   3,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis недоступен: %w", err)
	}

	log.WithField("addr", opts.Addr).Info("Подключение к Redis установлено")
	return NewRedisWithClient(client, opts.Prefix, opts.TTL), nil
}

// NewRedisWithClient оборачивает готовый клиент.
func NewRedisWithClient(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	if prefix == "" {
		prefix = "rwd"
	}
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) key(key string) string {
	return strings.Join([]string{r.prefix, "lock", key}, ":")
}

func (r *Redis) TryLock(ctx context.Context, key string) (func(), bool, error) {
	fullKey := r.key(key)
	token := uuid.NewString()

	ok, err := r.client.SetNX(ctx, fullKey, token, r.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("ошибка захвата блокировки %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		// Контекст запроса мог уже отмениться, снимаем блокировку отдельно
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, r.client, []string{fullKey}, token).Err(); err != nil {
			log.WithError(err).WithField("key", fullKey).Warn("Не удалось снять блокировку")
		}
	}
	return release, true, nil
}

// Close закрывает соединение с Redis.
func (r *Redis) Close() error {
	return r.client.Close()
}
