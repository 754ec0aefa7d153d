// internal/app/system/mailer/reset.go
package mailer

import (
	"context"
	"net/url"
)

// ResetSender adapts the Mailer to the password-reset delivery contract:
// it turns a raw token into a reset link and mails it to the account.
type ResetSender struct {
	Mailer   *Mailer
	BaseURL  string
	SiteName string
}

func (s *ResetSender) SendPasswordReset(ctx context.Context, email, token string) error {
	link := s.BaseURL + "/reset-password?email=" + url.QueryEscape(email) +
		"&token=" + url.QueryEscape(token)

	e := BuildResetEmail(ResetEmailData{
		SiteName:  s.SiteName,
		ResetLink: link,
		ExpiresIn: "1 hour",
	})
	e.To = email
	return s.Mailer.Send(ctx, e)
}
