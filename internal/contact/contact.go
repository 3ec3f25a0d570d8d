// Package contact handles contact form submissions. Unlike content reads,
// a failed submission is reported back to the visitor.
package contact

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/cms"
	"github.com/Zachkp/folio/internal/logging"
)

// Status is the visible outcome of a submission.
type Status int

const (
	StatusIdle Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

const (
	SuccessMessage = "Thank you for your message! I'll get back to you soon."
	ErrorMessage   = "Sorry, there was an error sending your message. Please try again later."
	InvalidMessage = "Please provide your name, a valid email address and a message."
)

// Form is a contact submission as posted by the browser.
type Form struct {
	Name    string `form:"name"    json:"name"    binding:"required,max=200"`
	Email   string `form:"email"   json:"email"   binding:"required,email,max=320"`
	Message string `form:"message" json:"message" binding:"required,max=5000"`
}

// Normalize trims surrounding whitespace from every field.
func (f Form) Normalize() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Message: strings.TrimSpace(f.Message),
	}
}

// Submitter delivers contact messages to the CMS.
type Submitter interface {
	SubmitContact(ctx context.Context, msg cms.ContactMessage) error
}

// Recorder keeps a count of submission outcomes.
type Recorder interface {
	RecordContact(ctx context.Context, status string) error
}

type Service struct {
	submitter Submitter
	notifier  Notifier
	recorder  Recorder
	timeout   time.Duration
	logger    *zap.Logger
}

type Option func(*Service)

// WithNotifier sends a notification after each accepted submission.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(submitter Submitter, opts ...Option) *Service {
	s := &Service{submitter: submitter, timeout: 10 * time.Second}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrNop(s.logger).Named("contact")
	return s
}

// Submit sends the message to the CMS and returns StatusSuccess only if the
// CMS accepted it. A failed notification is logged but does not change the
// outcome.
func (s *Service) Submit(ctx context.Context, f Form) Status {
	f = f.Normalize()

	status := s.submit(ctx, f)
	if s.recorder != nil {
		if err := s.recorder.RecordContact(context.WithoutCancel(ctx), status.String()); err != nil {
			s.logger.Warn("error recording contact outcome", zap.Error(err))
		}
	}
	return status
}

func (s *Service) submit(ctx context.Context, f Form) Status {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	msg := cms.ContactMessage{Name: f.Name, Email: f.Email, Message: f.Message}
	if err := s.submitter.SubmitContact(ctx, msg); err != nil {
		s.logger.Error("contact submission failed", zap.Error(err))
		return StatusError
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, f); err != nil {
			s.logger.Warn("error sending contact notification", zap.Error(err))
		} else {
			s.logger.Info("contact notification sent")
		}
	}
	return StatusSuccess
}
