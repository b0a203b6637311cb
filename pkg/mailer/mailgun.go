package mailer

import (
	"context"
	"fmt"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun wraps Mailgun client configuration.
type Mailgun struct {
	Domain string
	APIKey string
	Sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender}
}

// Send sends an email via Mailgun. html is optional; if provided it is used
// as the HTML body.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	client := mg.NewMailgun(m.Domain, m.APIKey)
	msg := client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := client.Send(c, msg)
	return err
}

// Render fills in subject and text for template-based jobs. Jobs with an
// explicit subject/body pass through unchanged.
func Render(job *EmailJob) {
	if job.Subject != "" || job.Template == "" {
		return
	}
	switch job.Template {
	case "welcome":
		name, _ := job.Data["FirstName"].(string)
		if name == "" {
			name = "there"
		}
		job.Subject = "Welcome to Stacks"
		job.Text = fmt.Sprintf("Hi %s,\n\nYour account is ready. Browse deals near you and start saving.\n", name)
	case "merchant_welcome":
		name, _ := job.Data["Name"].(string)
		job.Subject = "Your merchant account is live"
		job.Text = fmt.Sprintf("Hi,\n\n%s is now registered on Stacks. Publish your first deal from the dashboard.\n", name)
	default:
		job.Subject = "Notification"
	}
}
