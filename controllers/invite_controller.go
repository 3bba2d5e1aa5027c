package controllers

import (
	"context"
	"fmt"
	"net/http"
	"net/smtp"
	"strings"
	"time"

	"Gin_postgres_redis_local_library/app"
	"Gin_postgres_redis_local_library/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type InviteController struct {
	*Srv
	send func(cfg app.SMTPConfig, to, link string, days int) error
}

func GetInviteController(s *Srv) *InviteController {
	return &InviteController{Srv: s, send: sendInviteMail}
}

// POST /admin/invites
func (ic *InviteController) CreateInvite(c *gin.Context) {
	var in struct {
		Email   string `json:"email" binding:"required,email"`
		Expires int    `json:"expiresDays"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if in.Expires <= 0 {
		in.Expires = 1
	}

	createdBy := "admin"
	if u := app.CurrentUser(c); u != nil {
		createdBy = u.Username
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	token := app.NewInviteToken()
	inv, err := ic.Repo.CreateInvite(ctx, strings.ToLower(in.Email), token,
		time.Now().AddDate(0, 0, in.Expires), createdBy)
	if err != nil {
		writeError(c, err)
		return
	}

	link := app.InviteLink(ic.Cfg, token)
	// Mail failures are logged; the link is still returned.
	if err := ic.send(ic.Cfg.SMTP, inv.Email, link, in.Expires); err != nil {
		logger.Log.WithError(err).WithField("email", inv.Email).Warn("invite mail failed")
	}

	c.JSON(http.StatusCreated, app.H{
		"token":  token,
		"link":   link,
		"invite": inv,
	})
}

// sendInviteMail only logs the link when SMTP is not configured.
func sendInviteMail(conf app.SMTPConfig, toEmail, link string, expiresDays int) error {
	if conf.Host == "" || (conf.Username == "" && conf.From == "") {
		logger.Log.WithFields(logrus.Fields{"email": toEmail, "days": expiresDays}).
			Infof("[DEV] invite link: %s", link)
		return nil
	}

	fromAddr := conf.From
	if fromAddr == "" {
		fromAddr = conf.Username
	}
	subject := fmt.Sprintf("%s Invitation", conf.AppName)
	body := fmt.Sprintf(`<div style="font-family:Arial,sans-serif;font-size:14px;color:#222">
  <p>Hello,</p>
  <p>You have been invited to borrow books from <b>%s</b>. Open the link below to create your passkey:</p>
  <p><a href="%s">%s</a></p>
  <p>This invitation expires in %d day(s).</p>
</div>
`, conf.AppName, link, link, expiresDays)

	msg := buildMIME(conf.AppName, fromAddr, toEmail, subject, body)
	auth := smtp.PlainAuth("", conf.Username, conf.Password, conf.Host)
	return smtp.SendMail(conf.Host+":"+conf.Port, auth, fromAddr, []string{toEmail}, []byte(msg))
}

func buildMIME(fromName, fromAddr, to, subject, html string) string {
	headers := []string{
		fmt.Sprintf("From: %s <%s>", fromName, fromAddr),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
	}
	return strings.Join(headers, "\r\n") + "\r\n\r\n" + html
}
