package notify

import (
	"fmt"

	"github.com/guonaihong/gout"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Settings provides the notification configuration values.
type Settings interface {
	GetString(category, key string) string
	GetInt64(category, key string) int64
	GetBool(category, key string) bool
}

// Notifier delivers order-completion notifications over webhook and mail,
// both switched through system settings.
type Notifier struct {
	settings Settings
}

func NewNotifier(settings Settings) *Notifier {
	return &Notifier{settings: settings}
}

// CompletionMessage describes a completed production order.
type CompletionMessage struct {
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Produced    int    `json:"produced"`
	Planned     int    `json:"planned"`
}

// OrderCompleted fans the message out to every enabled channel. Delivery
// failures are logged, never propagated: notification is best-effort.
func (n *Notifier) OrderCompleted(msg CompletionMessage) {
	if n.settings.GetBool("notify", "webhook_enabled") {
		n.sendWebhook(msg)
	}
	if n.settings.GetBool("notify", "mail_enabled") {
		n.sendMail(msg)
	}
}

func (n *Notifier) sendWebhook(msg CompletionMessage) {
	url := n.settings.GetString("notify", "webhook_url")
	if url == "" {
		return
	}

	var code int
	err := gout.POST(url).
		SetJSON(msg).
		Code(&code).
		Do()
	if err != nil || code >= 300 {
		zap.L().Warn("completion webhook delivery failed",
			zap.String("url", url),
			zap.Int("code", code),
			zap.Error(err))
		return
	}
	zap.L().Info("completion webhook delivered",
		zap.String("order_number", msg.OrderNumber),
		zap.String("url", url))
}

func (n *Notifier) sendMail(msg CompletionMessage) {
	host := n.settings.GetString("notify", "smtp_host")
	user := n.settings.GetString("notify", "smtp_user")
	to := n.settings.GetString("notify", "mail_to")
	if host == "" || user == "" || to == "" {
		return
	}
	port := int(n.settings.GetInt64("notify", "smtp_port"))

	m := gomail.NewMessage()
	m.SetHeader("From", user)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Production order %s completed", msg.OrderNumber))
	m.SetBody("text/plain", fmt.Sprintf("Order %s finished production: %d of %d units.",
		msg.OrderNumber, msg.Produced, msg.Planned))

	d := gomail.NewDialer(host, port, user, n.settings.GetString("notify", "smtp_passwd"))
	if err := d.DialAndSend(m); err != nil {
		zap.L().Warn("completion mail delivery failed", zap.String("to", to), zap.Error(err))
		return
	}
	zap.L().Info("completion mail delivered",
		zap.String("order_number", msg.OrderNumber),
		zap.String("to", to))
}
