// controllers/webauthn_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"Gin_postgres_redis_local_library/app"
	"Gin_postgres_redis_local_library/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const ceremonyTimeout = 3 * time.Second

func registrationOptions() []webauthn.RegistrationOption {
	return []webauthn.RegistrationOption{
		webauthn.WithResidentKeyRequirement(protocol.ResidentKeyRequirementRequired),
		webauthn.WithAuthenticatorSelection(protocol.AuthenticatorSelection{
			UserVerification: protocol.VerificationRequired,
		}),
	}
}

// Registration by invite

// POST /webauthn/register/begin
func (s *Srv) BeginRegistration(c *gin.Context) {
	var in struct {
		InviteToken string `json:"inviteToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), ceremonyTimeout)
	defer cancel()

	inv, err := s.Repo.GetInviteByToken(ctx, in.InviteToken)
	if err != nil || !inv.Usable(time.Now()) {
		c.JSON(http.StatusForbidden, app.H{"error": "invalid or expired invite"})
		return
	}

	// The username is always the invited email.
	u, err := s.Repo.FindOrCreateUser(ctx, inv.Email, uuid.NewString())
	if err != nil {
		writeError(c, err)
		return
	}

	opts, sd, err := s.WA.BeginRegistration(s.withCredentials(ctx, u), registrationOptions()...)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.Sess.SaveInviteReg(ctx, in.InviteToken, sd); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"opts": opts})
}

// POST /webauthn/register/finish?inviteToken=
func (s *Srv) FinishRegistration(c *gin.Context) {
	token := c.Query("inviteToken")
	if token == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing inviteToken"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), ceremonyTimeout)
	defer cancel()

	inv, err := s.Repo.GetInviteByToken(ctx, token)
	if err != nil || !inv.Usable(time.Now()) {
		c.JSON(http.StatusForbidden, app.H{"error": "invalid or expired invite"})
		return
	}
	wUser, err := s.loadWAUserByUsername(ctx, inv.Email)
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "user not found"})
		return
	}
	sd, err := s.Sess.LoadInviteReg(ctx, token)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "session expired or invalid"})
		return
	}

	cred, err := s.WA.FinishRegistration(wUser, *sd, c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if err := s.Repo.AddCredential(ctx, fromWaCred(wUser.user.ID, cred)); err != nil {
		writeError(c, err)
		return
	}
	s.Sess.DelInviteReg(ctx, token)
	if err := s.Repo.MarkInviteUsed(ctx, token); err != nil {
		logger.Log.WithError(err).Warn("mark invite used")
	}
	if inv.CreatedBy == app.BootstrapInviter {
		if err := s.Repo.SetUserAdmin(ctx, wUser.user.ID, true); err != nil {
			writeError(c, err)
			return
		}
		logger.Log.WithField("user", wUser.user.Username).Info("bootstrap admin registered")
	}

	// Registering also logs in.
	if err := s.issueSession(ctx, c.Writer, wUser.user.ID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": "create app session failed"})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "username": wUser.user.Username})
}

// Extra passkeys for a logged-in member

// POST /api/credentials/add/begin
func (s *Srv) BeginAddCredential(c *gin.Context) {
	u := app.CurrentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), ceremonyTimeout)
	defer cancel()

	opts, sd, err := s.WA.BeginRegistration(s.withCredentials(ctx, u), registrationOptions()...)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.Sess.SaveUserReg(ctx, u.ID, sd); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"opts": opts})
}

// POST /api/credentials/add/finish
func (s *Srv) FinishAddCredential(c *gin.Context) {
	u := app.CurrentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), ceremonyTimeout)
	defer cancel()

	sd, err := s.Sess.LoadUserReg(ctx, u.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "session expired or invalid"})
		return
	}
	cred, err := s.WA.FinishRegistration(s.withCredentials(ctx, u), *sd, c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if err := s.Repo.AddCredential(ctx, fromWaCred(u.ID, cred)); err != nil {
		writeError(c, err)
		return
	}
	s.Sess.DelUserReg(ctx, u.ID)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// Login

type loginBeginReq struct {
	Username     string `json:"username"`
	Discoverable bool   `json:"discoverable"`
}

type loginBeginResp struct {
	Options   *protocol.CredentialAssertion `json:"options"`
	SessionID string                        `json:"sessionId"`
}

// POST /webauthn/login/begin
func (s *Srv) BeginLogin(c *gin.Context) {
	var req loginBeginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "bad request"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), ceremonyTimeout)
	defer cancel()

	var (
		opts *protocol.CredentialAssertion
		sd   *webauthn.SessionData
		err  error
	)
	if req.Discoverable {
		opts, sd, err = s.WA.BeginDiscoverableLogin(webauthn.WithUserVerification(protocol.VerificationRequired))
	} else {
		wUser, lookupErr := s.loadWAUserByUsername(ctx, req.Username)
		if lookupErr != nil {
			c.JSON(http.StatusNotFound, app.H{"error": "user not found"})
			return
		}
		opts, sd, err = s.WA.BeginLogin(wUser, webauthn.WithUserVerification(protocol.VerificationRequired))
	}
	if err != nil {
		writeError(c, err)
		return
	}

	sid := uuid.NewString()
	if err := s.Sess.SaveLogin(ctx, sid, sd); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginBeginResp{Options: opts, SessionID: sid})
}

// POST /webauthn/login/finish?sessionId=[&username=]
func (s *Srv) FinishLogin(c *gin.Context) {
	sid := c.Query("sessionId")
	if sid == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing sessionId"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), ceremonyTimeout)
	defer cancel()

	sd, err := s.Sess.LoadLogin(ctx, sid)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "session expired or invalid"})
		return
	}

	var (
		userID string
		cred   *webauthn.Credential
	)
	if username := c.Query("username"); username != "" {
		wUser, err := s.loadWAUserByUsername(ctx, username)
		if err != nil {
			c.JSON(http.StatusNotFound, app.H{"error": "user not found"})
			return
		}
		cred, err = s.WA.FinishLogin(wUser, *sd, c.Request)
		if err != nil {
			c.JSON(http.StatusUnauthorized, app.H{"error": err.Error()})
			return
		}
		userID = wUser.user.ID
	} else {
		handler := func(rawID, _ []byte) (webauthn.User, error) {
			u, err := s.Repo.FindUserByCredentialID(ctx, rawID)
			if err != nil {
				return nil, protocol.ErrBadRequest.WithDetails("credential not found")
			}
			return s.withCredentials(ctx, u), nil
		}
		user, found, err := s.WA.FinishPasskeyLogin(handler, *sd, c.Request)
		if err != nil {
			c.JSON(http.StatusUnauthorized, app.H{"error": err.Error()})
			return
		}
		userID = user.(*waUser).user.ID
		cred = found
	}
	s.Sess.DelLogin(ctx, sid)

	if err := s.Repo.MarkCredentialUsed(ctx, cred.ID, cred.Authenticator.SignCount, cred.Authenticator.CloneWarning); err != nil {
		logger.Log.WithError(err).Warn("mark credential used")
	}
	if cred.Authenticator.CloneWarning {
		logger.Log.WithFields(logrus.Fields{"user": userID}).Warn("authenticator clone warning")
	}
	if err := s.issueSession(ctx, c.Writer, userID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": "create app session failed"})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "redirect": "/catalog"})
}
