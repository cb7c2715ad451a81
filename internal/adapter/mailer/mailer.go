package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	gomail "gopkg.in/gomail.v2"

	"github.com/bob1127/eSIM-pwa-sub000/internal/domain/model"
)

// Mailer delivers the QR code notification for a fulfilled order.
type Mailer interface {
	SendQRCodes(ctx context.Context, order *model.Order) error
}

// SMTPMailer sends notifications through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer builds the SMTP sender.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

var bodyTemplate = template.Must(template.New("qrcodes").Parse(`<html>
<body>
<p>Hi {{.Name}},</p>
<p>Your eSIM order <b>{{.OrderID}}</b> is ready. Scan each QR code below to install your profile:</p>
{{range .Codes}}
<div style="margin-bottom:24px">
  <p><b>{{.ProductName}}</b></p>
  <img src="{{.QRCodeURL}}" alt="eSIM QR code for {{.ProductName}}" width="240" height="240">
</div>
{{end}}
<p>Install the profile before you travel; most plans start counting once the device activates them.</p>
</body>
</html>
`))

type bodyData struct {
	Name    string
	OrderID string
	Codes   []model.FulfillmentRecord
}

// SendQRCodes renders and sends one email per order with every QR code block.
func (m *SMTPMailer) SendQRCodes(ctx context.Context, order *model.Order) error {
	if len(order.Fulfillment) == 0 {
		return fmt.Errorf("order %s has no fulfillment records to send", order.ID)
	}

	var body bytes.Buffer
	err := bodyTemplate.Execute(&body, bodyData{
		Name:    order.Contact.Name,
		OrderID: order.ID,
		Codes:   order.Fulfillment,
	})
	if err != nil {
		return fmt.Errorf("render notification body: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", order.Contact.Email)
	msg.SetHeader("Subject", fmt.Sprintf("Your eSIM QR codes for order %s", order.ID))
	msg.SetBody("text/html", body.String())

	done := make(chan error, 1)
	go func() { done <- m.dialer.DialAndSend(msg) }()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
