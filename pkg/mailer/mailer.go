package mailer

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/constructai/demobooking/config"
	"github.com/constructai/demobooking/internal/entity"
)

const demoTimeFormat = "Monday, January 2, 2006 at 3:04 PM MST"

// Mailer отправляет письма о бронированиях демо через SMTP.
// При email.enabled=false письма только логируются в dev-режиме
// на стороне вызывающего и наружу ничего не уходит.
type Mailer struct {
	cfg    *config.EmailConfig
	dialer *gomail.Dialer
}

func NewMailer(cfg *config.EmailConfig) *Mailer {
	return &Mailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (m *Mailer) send(to, subject, body string) error {
	if !m.cfg.Enabled {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func (m *Mailer) SendConfirmation(contact *entity.Contact, booking *entity.Booking) error {
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Your demo is confirmed!\n\n"+
			"When: %s\n"+
			"Duration: %d minutes\n"+
			"Contact method: %s\n"+
			"Meeting link: %s\n\n"+
			"We look forward to showing you what we can do for %s.\n\n"+
			"The ConstructAI Team",
		contact.ContactName,
		booking.DemoStart.Format(demoTimeFormat),
		booking.DurationMinutes,
		booking.ContactMethod,
		booking.MeetingLink,
		contact.CompanyName,
	)
	return m.send(contact.Email, "Your demo is scheduled", body)
}

func (m *Mailer) SendCancellation(contact *entity.Contact, booking *entity.Booking) error {
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Your demo scheduled for %s has been cancelled.\n\n"+
			"You can book a new time any time on our scheduling page.\n\n"+
			"The ConstructAI Team",
		contact.ContactName,
		booking.DemoStart.Format(demoTimeFormat),
	)
	return m.send(contact.Email, "Your demo has been cancelled", body)
}

func (m *Mailer) SendReschedule(contact *entity.Contact, booking *entity.Booking) error {
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Your demo has been moved.\n\n"+
			"New time: %s\n"+
			"Duration: %d minutes\n"+
			"Meeting link: %s\n\n"+
			"The ConstructAI Team",
		contact.ContactName,
		booking.DemoStart.Format(demoTimeFormat),
		booking.DurationMinutes,
		booking.MeetingLink,
	)
	return m.send(contact.Email, "Your demo has been rescheduled", body)
}

func (m *Mailer) SendReminder(contact *entity.Contact, booking *entity.Booking) error {
	hoursLeft := int(time.Until(booking.DemoStart).Hours())
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Just a reminder: your demo starts in about %d hours.\n\n"+
			"When: %s\n"+
			"Meeting link: %s\n\n"+
			"See you there!\n\n"+
			"The ConstructAI Team",
		contact.ContactName,
		hoursLeft,
		booking.DemoStart.Format(demoTimeFormat),
		booking.MeetingLink,
	)
	return m.send(contact.Email, "Your demo is coming up", body)
}
