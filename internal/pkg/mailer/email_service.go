package mailer

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendRiskAlert(toEmail, sessionId string, riskLevel int, message string) error
	SendConcernAlert(toEmail, sessionId string, concerns []string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendRiskAlert(toEmail, sessionId string, riskLevel int, message string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("High risk detected in therapy session (level %d)", riskLevel))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Risk Alert</h2>
			<p>A therapy session reported a risk level of <strong>%d</strong>.</p>
			<p>Session: %s</p>
			<p>Triggering message:</p>
			<blockquote style="border-left: 3px solid #E53935; padding-left: 10px;">%s</blockquote>
			<p>Please review the session as soon as possible.</p>
		</div>
	`, riskLevel, sessionId, message)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send risk alert to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Risk alert sent to %s\n", toEmail)
	return nil
}

func (s *emailService) SendConcernAlert(toEmail, sessionId string, concerns []string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Areas of concern found in therapy session review")

	var items strings.Builder
	for _, concern := range concerns {
		items.WriteString(fmt.Sprintf("<li>%s</li>", concern))
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Session Review</h2>
			<p>The review of session %s flagged the following areas of concern:</p>
			<ul>%s</ul>
		</div>
	`, sessionId, items.String())

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send concern alert to %s: %v\n", toEmail, err)
		return err
	}

	return nil
}
