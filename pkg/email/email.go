// Package email renders and delivers transactional emails through a
// pluggable Sender.
package email

import (
	"context"
	"fmt"
	"time"
)

// Message is a rendered email for a single recipient
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers rendered messages
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Config holds provider independent email settings
type Config struct {
	FromEmail string
	FromName  string
	Timeout   time.Duration
}

// From renders the sender address as "Name <email>"
func (c Config) From() string {
	if c.FromName == "" {
		return c.FromEmail
	}
	return fmt.Sprintf("%s <%s>", c.FromName, c.FromEmail)
}
