// controllers/srv.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"Gin_postgres_redis_local_library/app"
	"Gin_postgres_redis_local_library/db"
	"Gin_postgres_redis_local_library/logger"
	"Gin_postgres_redis_local_library/models"
	"Gin_postgres_redis_local_library/session"

	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/google/uuid"
)

// Srv carries what the authentication handlers share.
type Srv struct {
	WA      *webauthn.WebAuthn
	Repo    *db.Repo
	Sess    *session.Store
	AppSess *session.AppSessionStore
	Cfg     app.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		WA:      a.WA,
		Repo:    a.Repo,
		Sess:    a.Ceremonies(),
		AppSess: a.AppSessions(),
		Cfg:     a.Config,
	}
}

func (s *Srv) setAppCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.Cfg.SecureCookies(),
		MaxAge:   int(maxAge / time.Second),
	})
}

// issueSession creates the app session after any successful login.
func (s *Srv) issueSession(ctx context.Context, w http.ResponseWriter, userID string, ip, ua string) error {
	if err := s.Repo.TouchUserLogin(ctx, userID, ip, ua); err != nil {
		logger.Log.WithError(err).WithField("user", userID).Warn("touch login")
	}
	id := uuid.NewString()
	if err := s.AppSess.Create(ctx, id, userID); err != nil {
		return err
	}
	s.setAppCookie(w, id, s.AppSess.TTL())
	return nil
}

// waUser adapts a member and their passkeys to webauthn.User.
type waUser struct {
	user  models.User
	creds []webauthn.Credential
}

func (u *waUser) WebAuthnID() []byte                         { id, _ := uuid.Parse(u.user.ID); return id[:] }
func (u *waUser) WebAuthnName() string                       { return u.user.Username }
func (u *waUser) WebAuthnDisplayName() string                { return u.user.DisplayName }
func (u *waUser) WebAuthnIcon() string                       { return "" }
func (u *waUser) WebAuthnCredentials() []webauthn.Credential { return u.creds }

func toWaCred(c models.Credential) webauthn.Credential {
	return webauthn.Credential{
		ID:              c.CredentialID,
		PublicKey:       c.PublicKey,
		AttestationType: c.AttestationType,
		Authenticator: webauthn.Authenticator{
			AAGUID:       c.AAGUID,
			SignCount:    c.SignCount,
			CloneWarning: c.CloneWarning,
		},
		Flags: webauthn.CredentialFlags{
			BackupEligible: c.BackupEligible,
			BackupState:    c.BackupState,
		},
	}
}

func fromWaCred(userID string, cred *webauthn.Credential) *models.Credential {
	return &models.Credential{
		UserID:          userID,
		CredentialID:    cred.ID,
		PublicKey:       cred.PublicKey,
		AttestationType: cred.AttestationType,
		AAGUID:          cred.Authenticator.AAGUID,
		SignCount:       cred.Authenticator.SignCount,
		CloneWarning:    cred.Authenticator.CloneWarning,
		BackupEligible:  cred.Flags.BackupEligible,
		BackupState:     cred.Flags.BackupState,
	}
}

func (s *Srv) withCredentials(ctx context.Context, u *models.User) *waUser {
	cs, err := s.Repo.LoadUserCredentials(ctx, u.ID)
	if err != nil {
		logger.Log.WithError(err).WithField("user", u.ID).Warn("load credentials")
	}
	ws := make([]webauthn.Credential, 0, len(cs))
	for _, c := range cs {
		ws = append(ws, toWaCred(c))
	}
	return &waUser{user: *u, creds: ws}
}

func (s *Srv) loadWAUserByID(ctx context.Context, id string) (*waUser, error) {
	u, err := s.Repo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withCredentials(ctx, u), nil
}

func (s *Srv) loadWAUserByUsername(ctx context.Context, username string) (*waUser, error) {
	u, err := s.Repo.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.withCredentials(ctx, u), nil
}
