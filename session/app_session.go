package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// VisitsKey is the session value counting views of the landing page.
const VisitsKey = "num_visits"

type AppSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAppSessionStore(rdb *redis.Client, ttl time.Duration) *AppSessionStore {
	return &AppSessionStore{rdb: rdb, ttl: ttl}
}

func (s *AppSessionStore) TTL() time.Duration { return s.ttl }

type AppSession struct {
	UserID    string `json:"uid"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

func key(id string) string         { return fmt.Sprintf("ll:sess:%s", id) }
func dataKey(id string) string     { return fmt.Sprintf("ll:sess:%s:data", id) }
func userSetKey(uid string) string { return fmt.Sprintf("ll:user_sessions:%s", uid) }

func (s *AppSessionStore) Create(ctx context.Context, id, userID string) error {
	now := time.Now()
	b, err := json.Marshal(AppSession{
		UserID:    userID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	})
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, key(id), b, s.ttl)
	pipe.SAdd(ctx, userSetKey(userID), id)
	pipe.Expire(ctx, userSetKey(userID), s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *AppSessionStore) Get(ctx context.Context, id string) (*AppSession, error) {
	b, err := s.rdb.Get(ctx, key(id)).Bytes()
	if err != nil {
		return nil, err
	}
	var as AppSession
	if err := json.Unmarshal(b, &as); err != nil {
		return nil, err
	}
	return &as, nil
}

func (s *AppSessionStore) Delete(ctx context.Context, id string) error {
	as, _ := s.Get(ctx, id)
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key(id), dataKey(id))
	if as != nil {
		pipe.SRem(ctx, userSetKey(as.UserID), id)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// RevokeAllForUser logs a user out everywhere, e.g. after the account is deleted.
func (s *AppSessionStore) RevokeAllForUser(ctx context.Context, userID string) error {
	ids, err := s.rdb.SMembers(ctx, userSetKey(userID)).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	for _, sid := range ids {
		pipe.Del(ctx, key(sid), dataKey(sid))
	}
	pipe.Del(ctx, userSetKey(userID))
	_, err = pipe.Exec(ctx)
	return err
}

// getValue reads a per-session value. ok is false when it was never set.
func (s *AppSessionStore) getValue(ctx context.Context, id, name string) (val string, ok bool, err error) {
	val, err = s.rdb.HGet(ctx, dataKey(id), name).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// GetInt reads an integer session value, def when unset.
func (s *AppSessionStore) GetInt(ctx context.Context, id, name string, def int64) (int64, error) {
	v, ok, err := s.getValue(ctx, id, name)
	if err != nil || !ok {
		return def, err
	}
	return strconv.ParseInt(v, 10, 64)
}

// IncrVisits adds one to the session's visit counter and returns the new
// value; an unset counter counts as 0.
func (s *AppSessionStore) IncrVisits(ctx context.Context, id string) (int64, error) {
	pipe := s.rdb.TxPipeline()
	incr := pipe.HIncrBy(ctx, dataKey(id), VisitsKey, 1)
	pipe.Expire(ctx, dataKey(id), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
