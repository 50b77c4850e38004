package notify

import (
	"context"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
	"gorm.io/gorm"

	"flesk/internal/models"
)

// Sender sends composed messages. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// MailPublisher emails high-priority notifications to their owner.
type MailPublisher struct {
	db     *gorm.DB
	sender Sender
	from   string
}

// NewMailPublisher creates a MailPublisher delivering through an SMTP dialer.
func NewMailPublisher(db *gorm.DB, host string, port int, user, password, from string) *MailPublisher {
	return NewMailPublisherWithSender(db, gomail.NewDialer(host, port, user, password), from)
}

// NewMailPublisherWithSender creates a MailPublisher with a custom Sender.
func NewMailPublisherWithSender(db *gorm.DB, sender Sender, from string) *MailPublisher {
	return &MailPublisher{db: db, sender: sender, from: from}
}

// Publish emails n when its priority is high. Other priorities are skipped.
func (p *MailPublisher) Publish(ctx context.Context, n *models.Notification) error {
	if n.Priority != models.PriorityHigh {
		return nil
	}

	var user models.User
	if err := p.db.WithContext(ctx).Select("id", "email").First(&user, "id = ?", n.UserID).Error; err != nil {
		return fmt.Errorf("load recipient %s: %w", n.UserID, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", p.from)
	msg.SetHeader("To", user.Email)
	msg.SetHeader("Subject", n.Title)
	msg.SetBody("text/html", fmt.Sprintf("<p>%s</p>", html.EscapeString(n.Message)))

	if err := p.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email to %s: %w", user.Email, err)
	}
	return nil
}
