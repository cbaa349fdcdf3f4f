package mailer

import (
	"log"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"tutorlink_backend/internals/configs"
)

// Message is one outbound email. Delivery is fire-and-forget: failures are
// logged and never propagate to the caller.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(msg Message)
}

/* =========================================================
   SendGrid mailer
========================================================= */

type sendgridMailer struct {
	key  string
	from *sgmail.Email
}

func NewSendgridMailer() Mailer {
	if configs.SendgridAPIKey == "" {
		return consoleMailer{}
	}
	return &sendgridMailer{
		key:  configs.SendgridAPIKey,
		from: sgmail.NewEmail("TutorLink", configs.DefaultFromEmail),
	}
}

func (m *sendgridMailer) Send(msg Message) {
	go func() {
		p := sgmail.NewPersonalization()
		p.Subject = msg.Subject
		for _, to := range msg.To {
			if to == "" {
				continue
			}
			p.AddTos(sgmail.NewEmail("", to))
		}
		if len(p.To) == 0 {
			log.Println("[WARN] mailer: no valid recipients, skipping")
			return
		}

		v3 := sgmail.NewV3Mail()
		v3.SetFrom(m.from)
		v3.AddPersonalizations(p)
		v3.AddContent(sgmail.NewContent("text/html", msg.HTML))

		client := sendgrid.NewSendClient(m.key)
		resp, err := client.Send(v3)
		if err != nil {
			log.Printf("[ERROR] mailer: send failed: %v", err)
			return
		}
		if resp.StatusCode >= 400 {
			log.Printf("[ERROR] mailer: sendgrid status %d: %s", resp.StatusCode, resp.Body)
		}
	}()
}

/* =========================================================
   Console fallback (no API key configured)
========================================================= */

type consoleMailer struct{}

func (consoleMailer) Send(msg Message) {
	log.Printf("[MAIL] to=%v subject=%q", msg.To, msg.Subject)
}
