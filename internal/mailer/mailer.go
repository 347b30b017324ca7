// Package mailer delivers account security email. Delivery is best-effort:
// callers log failures and carry on, the primary state change never rolls
// back because a message could not be sent.
package mailer

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/dashforge/api/internal/config"
)

type Mailer interface {
	SendOtp(email, code string) error
	SendResetConfirmation(email string) error
	SendPasswordChangedNotice(email string) error
}

// Default is the process-wide mailer. Boot swaps in an SMTP mailer when
// SMTP_HOST is configured; tests swap in a recorder.
var Default Mailer = &LogMailer{}

func Init(cfg *config.Config) {
	if cfg.SMTPHost == "" {
		log.Println("SMTP not configured, email delivery disabled (log only)")
		return
	}
	Default = &SMTPMailer{
		addr:    cfg.SMTPHost + ":" + cfg.SMTPPort,
		auth:    smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost),
		from:    cfg.MailFrom,
		appName: cfg.AppName,
	}
}

type SMTPMailer struct {
	addr    string
	auth    smtp.Auth
	from    string
	appName string
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, to, subject, body)
	return smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg))
}

func (m *SMTPMailer) SendOtp(email, code string) error {
	body := fmt.Sprintf(
		"Hello,\n\nYou requested to reset your password for your %s account.\n\n"+
			"Your One-Time Password (OTP) is: %s\n\nThis OTP is valid for 10 minutes.\n\n"+
			"If you did not request this password reset, please ignore this email.\n\n"+
			"Best regards,\n%s Team\n",
		m.appName, code, m.appName)
	return m.send(email, m.appName+" - Password Reset OTP", body)
}

func (m *SMTPMailer) SendResetConfirmation(email string) error {
	body := fmt.Sprintf(
		"Hello,\n\nYour password has been successfully reset for your %s account.\n\n"+
			"If you did not perform this action, please contact support immediately.\n\n"+
			"Best regards,\n%s Team\n",
		m.appName, m.appName)
	return m.send(email, m.appName+" - Password Reset Successful", body)
}

func (m *SMTPMailer) SendPasswordChangedNotice(email string) error {
	body := fmt.Sprintf(
		"Hello,\n\nYour password has been successfully changed for your %s account.\n\n"+
			"If you did not perform this action, please contact support immediately and reset your password.\n\n"+
			"Best regards,\n%s Team\n",
		m.appName, m.appName)
	return m.send(email, m.appName+" - Password Changed", body)
}

// LogMailer writes mail to the process log instead of the wire. Used in
// development and as the unconfigured default.
type LogMailer struct{}

func (m *LogMailer) SendOtp(email, code string) error {
	log.Printf("mail (otp) to=%s code=%s", email, code)
	return nil
}

func (m *LogMailer) SendResetConfirmation(email string) error {
	log.Printf("mail (reset confirmation) to=%s", email)
	return nil
}

func (m *LogMailer) SendPasswordChangedNotice(email string) error {
	log.Printf("mail (password changed) to=%s", email)
	return nil
}
