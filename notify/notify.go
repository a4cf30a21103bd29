// Package notify sends transactional email. Sends are best-effort: callers
// log the boolean result and never retry or roll back on failure.
package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"net"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/artlurun/api/config"
)

// Order carries the fields of a new-order notice to the admin.
type Order struct {
	Name     string
	Email    string
	RaceName string
	GoalTime string
	City     string
	State    string
}

// Notifier is the outbound notification capability.
type Notifier interface {
	SendAccessCode(email, name, raceName, code string) bool
	SendReportReady(email, name, raceName string) bool
	SendOrderNotice(admin string, o Order) bool
}

const fromName = "ARTLU.RUN"

// Mailer sends HTML email over SMTP with STARTTLS. Without credentials it
// logs each send instead and reports it as unsuccessful, which keeps dev
// environments working without a mail account.
type Mailer struct {
	host     string
	port     string
	username string
	password string
	log      *zap.Logger
}

// NewMailer creates a Mailer from config.
func NewMailer(cfg *config.Config, log *zap.Logger) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		log:      log,
	}
}

// SendAccessCode delivers the purchase confirmation with the access code.
func (m *Mailer) SendAccessCode(email, name, raceName, code string) bool {
	subject := fmt.Sprintf("Your %s Race Plan — Access Code Inside", raceName)
	return m.send(email, subject, accessCodeTmpl, map[string]string{
		"Name":     orRunner(name),
		"RaceName": raceName,
		"Code":     code,
	})
}

// SendReportReady tells the customer their plan is ready to view.
func (m *Mailer) SendReportReady(email, name, raceName string) bool {
	subject := fmt.Sprintf("Your %s Plan is Ready!", raceName)
	return m.send(email, subject, reportReadyTmpl, map[string]string{
		"Name":     orRunner(name),
		"RaceName": raceName,
	})
}

// SendOrderNotice tells the admin a new order needs analysis.
func (m *Mailer) SendOrderNotice(admin string, o Order) bool {
	subject := fmt.Sprintf("New ARTLU.RUN Order: %s", o.RaceName)
	return m.send(admin, subject, orderNoticeTmpl, o)
}

func (m *Mailer) send(to, subject string, tmpl *template.Template, data interface{}) bool {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		m.log.Error("email template failed", zap.String("to", to), zap.Error(err))
		return false
	}

	if m.username == "" || m.password == "" {
		m.log.Info("email not configured, skipping send",
			zap.String("to", to), zap.String("subject", subject))
		return false
	}

	msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		fromName, m.username, to, subject, body.String())

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	addr := net.JoinHostPort(m.host, m.port)
	if err := smtp.SendMail(addr, auth, m.username, []string{to}, []byte(msg)); err != nil {
		m.log.Error("email send failed", zap.String("to", to), zap.Error(err))
		return false
	}

	m.log.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return true
}

func orRunner(name string) string {
	if name == "" {
		return "Runner"
	}
	return name
}

var accessCodeTmpl = template.Must(template.New("access_code").Parse(`
<div style="font-family: -apple-system, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #e74c3c;">ARTLU.RUN</h1>
  <h2>Hey {{.Name}}!</h2>
  <p>Thanks for purchasing a personalized race plan for <strong>{{.RaceName}}</strong>.
  We're building your custom analysis now — it'll be ready within 24-48 hours.</p>
  <div style="border: 2px solid #e74c3c; border-radius: 12px; padding: 24px; text-align: center;">
    <p style="font-size: 14px; color: #666;">YOUR ACCESS CODE</p>
    <p style="font-size: 28px; font-weight: 700; color: #e74c3c; letter-spacing: 2px;">{{.Code}}</p>
  </div>
  <p>Use this code along with your email at
  <a href="https://artlu.run/dashboard">artlu.run/dashboard</a>.
  We'll email you again when your plan is ready.</p>
</div>`))

var reportReadyTmpl = template.Must(template.New("report_ready").Parse(`
<div style="font-family: -apple-system, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #e74c3c;">ARTLU.RUN</h1>
  <h2>Your plan is ready, {{.Name}}!</h2>
  <p>Your personalized <strong>{{.RaceName}}</strong> race strategy is complete and waiting for you.</p>
  <p><a href="https://artlu.run/dashboard" style="background: #e74c3c; color: white; padding: 14px 28px; border-radius: 8px; text-decoration: none;">View Your Plan</a></p>
  <p>Log in with your email and access code to see your full strategy.</p>
</div>`))

var orderNoticeTmpl = template.Must(template.New("order_notice").Parse(`
<div style="font-family: monospace; padding: 20px;">
  <h2>New Race Plan Order</h2>
  <table>
    <tr><td><b>Customer:</b></td><td>{{.Name}}</td></tr>
    <tr><td><b>Email:</b></td><td>{{.Email}}</td></tr>
    <tr><td><b>Race:</b></td><td>{{.RaceName}}</td></tr>
    <tr><td><b>Goal Time:</b></td><td>{{.GoalTime}}</td></tr>
    <tr><td><b>Training City:</b></td><td>{{.City}}, {{.State}}</td></tr>
  </table>
</div>`))
