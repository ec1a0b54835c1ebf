// Package redislock provides a keyed lock shared between service instances.
package redislock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "smc:lock:"

// ErrLock возвращается при ошибке работы с redis
var ErrLock = errors.New("redislock: lock error")

// unlockScript удаляет ключ только если он принадлежит владельцу токена
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript продлевает TTL ключа, только если он принадлежит владельцу токена
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// Locker распределенная блокировка на SET NX PX.
// Пока блокировка удерживается, TTL продлевается каждые ttl/3;
// после падения инстанса ключ истекает через ttl.
type Locker struct {
	client     redis.Cmdable
	ttl        time.Duration
	retryDelay time.Duration
}

const defaultTTL = 10 * time.Second

func New(client redis.Cmdable, ttl, retryDelay time.Duration) *Locker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Locker{client: client, ttl: ttl, retryDelay: retryDelay}
}

// Lock ждет освобождения ключа, пока не истечет ctx
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	redisKey := keyPrefix + key

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: acquire %s: %v", ErrLock, key, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryDelay):
		}
	}

	stop := make(chan struct{})
	stopped := make(chan struct{})
	go l.keepAlive(redisKey, token, stop, stopped)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-stopped

			// Отдельный контекст: освобождаем блокировку даже если запрос уже отменен
			releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = unlockScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err()
		})
	}, nil
}

// keepAlive продлевает TTL, пока не закрыт stop или ключ не перешел к другому владельцу
func (l *Locker) keepAlive(redisKey, token string, stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), l.ttl/3)
			extended, err := extendScript.Run(ctx, l.client, []string{redisKey}, token, l.ttl.Milliseconds()).Int64()
			cancel()
			if err == nil && extended == 0 {
				return
			}
		}
	}
}
