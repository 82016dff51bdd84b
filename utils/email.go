package utils

import (
	"crypto/tls"
	"errors"
	"net/smtp"
	"os"
	"strings"

	"github.com/jordan-wright/email"
)

// AlertMailConfigured reports whether operator alert mail is set up.
func AlertMailConfigured() bool {
	return os.Getenv("SMTP_HOST") != "" &&
		os.Getenv("SMTP_PORT") != "" &&
		os.Getenv("SMTP_USER") != "" &&
		os.Getenv("SMTP_PASS") != "" &&
		os.Getenv("SMTP_FROM") != "" &&
		os.Getenv("OPS_ALERT_EMAIL") != ""
}

// SendOrphanAlertMail notifies the operator about an orphaned object the
// reconcile worker gave up on.
func SendOrphanAlertMail(bucket, storageKey, reason string) error {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")
	to := os.Getenv("OPS_ALERT_EMAIL")
	if host == "" || port == "" || user == "" || pass == "" || from == "" || to == "" {
		return errors.New("smtp config missing")
	}

	e := email.NewEmail()
	e.From = from
	e.To = []string{to}
	e.Subject = "GoVault: orphaned object needs manual cleanup"
	e.HTML = []byte(`
		<h2>Orphan cleanup failed</h2>
		<p>Bucket: ` + bucket + `</p>
		<p>Key: ` + storageKey + `</p>
		<p>Last error: ` + reason + `</p>
		<p>The orphan_object row was kept; delete the object manually.</p>
	`)

	addr := host + ":" + port
	auth := smtp.PlainAuth("", user, pass, host)
	tlsConfig := &tls.Config{ServerName: host}
	useTLS := strings.EqualFold(os.Getenv("SMTP_TLS"), "true") ||
		os.Getenv("SMTP_TLS") == "1" ||
		port == "465"
	useStartTLS := strings.EqualFold(os.Getenv("SMTP_STARTTLS"), "true") ||
		os.Getenv("SMTP_STARTTLS") == "1"

	if useTLS {
		return e.SendWithTLS(addr, auth, tlsConfig)
	}
	if useStartTLS {
		return e.SendWithStartTLS(addr, auth, tlsConfig)
	}
	return e.Send(addr, auth)
}
