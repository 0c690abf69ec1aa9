package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"HealthLife/config/mail"
	"HealthLife/models"
	"HealthLife/util"

	"github.com/rs/zerolog/log"
)

var errNoInbox = errors.New("contact inbox not configured")

type ContactService struct {
	mailer mail.Mailer
	inbox  string
}

func NewContactService(mailer mail.Mailer, inbox string) *ContactService {
	return &ContactService{mailer: mailer, inbox: inbox}
}

/*
* Escape the visitor's input into the html body
* Mail it to the configured inbox
 */
func (s *ContactService) Send(ctx context.Context, req models.ContactRequest) error {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Message) == "" {
		return util.BadRequest(util.PROVIDE_VALID_DETAILS)
	}
	if s.inbox == "" {
		log.Error().Msg("contact form used without an inbox")
		return util.Internal(util.CONTACT_FAILED, errNoInbox)
	}
	subject := "New Contact Form Message: " + strings.TrimSpace(req.Subject)
	body := fmt.Sprintf(`<h3>New Message from Contact Form</h3>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Message:</strong><br/>%s</p>`,
		html.EscapeString(req.Name), html.EscapeString(req.Email), html.EscapeString(req.Message))

	if err := s.mailer.Send(ctx, s.inbox, subject, body); err != nil {
		log.Error().Err(err).Msg("contact mail failed")
		return util.Internal(util.CONTACT_FAILED, err)
	}
	return nil
}
