package notify

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	FrontendURL string
}

// SMTPNotifier sends HTML mail through an SMTP relay, opening one
// connection per message.
type SMTPNotifier struct {
	from        string
	frontendURL string
	log         *zap.Logger
	send        func(*gomail.Message) error
}

func NewSMTPNotifier(cfg SMTPConfig, logger *zap.Logger) *SMTPNotifier {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &SMTPNotifier{
		from:        cfg.From,
		frontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
		log:         logger,
		send:        func(m *gomail.Message) error { return dialer.DialAndSend(m) },
	}
}

func (n *SMTPNotifier) SendVerification(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", n.frontendURL, url.QueryEscape(token))
	body := "<h2>Welcome to Campus Connect!</h2>" +
		"<p>Please verify your email address by clicking the link below:</p>" +
		fmt.Sprintf("<a href=\"%s\">Verify Email</a>", html.EscapeString(link))

	return n.deliver(ctx, to, "Verify your Campus Connect account", body)
}

func (n *SMTPNotifier) SendAdmire(ctx context.Context, to string) error {
	body := "<h2>You have a secret admirer!</h2>" +
		"<p>Someone on Campus Connect thinks you're cool and admires you.</p>" +
		"<p>Check the app to see if it's a mutual match!</p>"

	return n.deliver(ctx, to, "Someone admires you on Campus Connect!", body)
}

func (n *SMTPNotifier) SendMutualAdmire(ctx context.Context, to, matchName string) error {
	body := "<h2>Congratulations!</h2>" +
		fmt.Sprintf("<p>You and %s both admire each other!</p>", html.EscapeString(matchName)) +
		"<p>Time to connect.</p>"

	return n.deliver(ctx, to, "Mutual Admiration Match!", body)
}

func (n *SMTPNotifier) deliver(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := n.send(m); err != nil {
		return fmt.Errorf("send %q mail: %w", subject, err)
	}

	n.log.Debug("mail sent", zap.String("subject", subject))
	return nil
}
