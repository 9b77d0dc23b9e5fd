package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "go-gin-seat-map/pkg/app_errors"
	"go-gin-seat-map/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SelectionUpdateFunc receives the stored selection and returns the one to store.
type SelectionUpdateFunc func(current []string) ([]string, error)

type SessionStore interface {
	// 讀取：session 的已選座位 (不存在時為空)
	Selection(ctx context.Context, sessionID string) ([]string, error)
	// 更新：讀取-修改-寫回，同一 session 的並發更新不會互相覆蓋
	UpdateSelection(ctx context.Context, sessionID string, fn SelectionUpdateFunc) ([]string, error)
	// 讀取：主題 (未設定時為空字串)
	Theme(ctx context.Context, sessionID string) (string, error)
	SetTheme(ctx context.Context, sessionID string, theme string) error
}

const maxSelectionTxRetries = 5

type RedisSessionStoreImpl struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) SessionStore {
	return &RedisSessionStoreImpl{
		client: client,
		ttl:    ttl,
	}
}

// 已選座位 key
func (s *RedisSessionStoreImpl) getSelectionKey(sessionID string) string {
	return fmt.Sprintf("session:%s:selection", sessionID)
}

// 主題 key
func (s *RedisSessionStoreImpl) getThemeKey(sessionID string) string {
	return fmt.Sprintf("session:%s:theme", sessionID)
}

func (s *RedisSessionStoreImpl) Selection(ctx context.Context, sessionID string) ([]string, error) {
	return readSelection(ctx, s.client, s.getSelectionKey(sessionID))
}

// UpdateSelection runs fn inside WATCH/MULTI and retries when another writer
// touched the key first. After maxSelectionTxRetries lost races it gives up
// with ErrSelectionConflict.
func (s *RedisSessionStoreImpl) UpdateSelection(ctx context.Context, sessionID string, fn SelectionUpdateFunc) ([]string, error) {
	key := s.getSelectionKey(sessionID)
	var next []string

	txf := func(tx *redis.Tx) error {
		current, err := readSelection(ctx, tx, key)
		if err != nil {
			return err
		}
		next, err = fn(current)
		if err != nil {
			return err
		}
		payload, err := json.Marshal(next)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxSelectionTxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return next, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, apperrors.ErrSelectionConflict
}

func (s *RedisSessionStoreImpl) Theme(ctx context.Context, sessionID string) (string, error) {
	raw, err := s.client.Get(ctx, s.getThemeKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	var theme string
	if err := json.Unmarshal(raw, &theme); err != nil {
		logger.WithComponent("cache").Warn("discarding unreadable theme", zap.String("session_id", sessionID), zap.Error(err))
		return "", nil
	}
	return theme, nil
}

func (s *RedisSessionStoreImpl) SetTheme(ctx context.Context, sessionID string, theme string) error {
	payload, err := json.Marshal(theme)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.getThemeKey(sessionID), payload, s.ttl).Err()
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// readSelection treats a missing or unreadable blob as an empty selection.
func readSelection(ctx context.Context, c stringGetter, key string) ([]string, error) {
	raw, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		logger.WithComponent("cache").Warn("discarding unreadable selection", zap.String("key", key), zap.Error(err))
		return []string{}, nil
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
