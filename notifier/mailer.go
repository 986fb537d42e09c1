package notifier

import (
	"fmt"

	"github.com/BRIANBC93/RealEstate/config"
	"github.com/BRIANBC93/RealEstate/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Mailer sends a best-effort notification when a property price changes.
// It never fails the originating request; delivery errors are logged only.
type Mailer struct {
	cfg config.SMTPConfig
	log *logrus.Logger
}

// NewMailer returns nil when SMTP is not configured, which disables
// notifications.
func NewMailer(cfg config.SMTPConfig, log *logrus.Logger) *Mailer {
	if cfg.Host == "" || len(cfg.Recipients) == 0 {
		return nil
	}
	return &Mailer{cfg: cfg, log: log}
}

func (m *Mailer) PriceChanged(property *models.Property, oldPrice, newPrice decimal.Decimal) {
	subject := fmt.Sprintf("Price change: %s (%s)", property.Name, property.CodeInternal)
	body := fmt.Sprintf(`
		<html>
			<body>
				<h3>Property price changed</h3>
				<p>Property: <strong>%s</strong> (code %s)</p>
				<p>Old price: %s</p>
				<p>New price: <strong>%s</strong></p>
				<p>This is an auto-generated email. Please do not reply.</p>
			</body>
		</html>
	`, property.Name, property.CodeInternal, oldPrice.StringFixed(2), newPrice.StringFixed(2))

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.Sender)
	msg.SetHeader("To", m.cfg.Recipients...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Sender, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		m.log.WithError(err).WithField("property_id", property.ID).
			Warn("failed to send price-change notification")
	}
}
