package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/redis/go-redis/v9"
)

// Store keeps WebAuthn ceremony state between the begin and finish calls.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store { return &Store{rdb: rdb, ttl: ttl} }

func inviteRegKey(token string) string { return fmt.Sprintf("ll:webauthn:reg:inv:%s", token) }
func userRegKey(uid string) string     { return fmt.Sprintf("ll:webauthn:reg:user:%s", uid) }
func loginKey(sid string) string       { return fmt.Sprintf("ll:webauthn:login:%s", sid) }

func (s *Store) save(ctx context.Context, k string, sd *webauthn.SessionData) error {
	b, err := json.Marshal(sd)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, k, b, s.ttl).Err()
}

func (s *Store) load(ctx context.Context, k string) (*webauthn.SessionData, error) {
	b, err := s.rdb.Get(ctx, k).Bytes()
	if err != nil {
		return nil, err
	}
	var sd webauthn.SessionData
	if err := json.Unmarshal(b, &sd); err != nil {
		return nil, err
	}
	return &sd, nil
}

func (s *Store) del(ctx context.Context, k string) { _ = s.rdb.Del(ctx, k).Err() }

// Registration through an invite token.
func (s *Store) SaveInviteReg(ctx context.Context, token string, sd *webauthn.SessionData) error {
	return s.save(ctx, inviteRegKey(token), sd)
}
func (s *Store) LoadInviteReg(ctx context.Context, token string) (*webauthn.SessionData, error) {
	return s.load(ctx, inviteRegKey(token))
}
func (s *Store) DelInviteReg(ctx context.Context, token string) { s.del(ctx, inviteRegKey(token)) }

// Registration of an extra passkey by a logged-in user.
func (s *Store) SaveUserReg(ctx context.Context, userID string, sd *webauthn.SessionData) error {
	return s.save(ctx, userRegKey(userID), sd)
}
func (s *Store) LoadUserReg(ctx context.Context, userID string) (*webauthn.SessionData, error) {
	return s.load(ctx, userRegKey(userID))
}
func (s *Store) DelUserReg(ctx context.Context, userID string) { s.del(ctx, userRegKey(userID)) }

func (s *Store) SaveLogin(ctx context.Context, sid string, sd *webauthn.SessionData) error {
	return s.save(ctx, loginKey(sid), sd)
}
func (s *Store) LoadLogin(ctx context.Context, sid string) (*webauthn.SessionData, error) {
	return s.load(ctx, loginKey(sid))
}
func (s *Store) DelLogin(ctx context.Context, sid string) { s.del(ctx, loginKey(sid)) }
