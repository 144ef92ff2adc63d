package domain

import "context"

// EmailSender delivers a single HTML email. Implementations log, or call a
// transactional email API.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
