package email

import (
	"context"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/gomail.v2"

	"github.com/clinicdesk/clinic-api/internal/model"
)

// Config is read from the environment; SMTP credentials never live in the
// config file.
type Config struct {
	Host     string `envconfig:"SMTP_HOST"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	Username string `envconfig:"SMTP_USERNAME"`
	Password string `envconfig:"SMTP_PASSWORD"`
	From     string `envconfig:"SMTP_FROM" default:"noreply@clinicdesk.io"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load smtp config: %w", err)
	}
	return &cfg, nil
}

// Enabled reports whether an SMTP host is configured at all.
func (c *Config) Enabled() bool {
	return c.Host != ""
}

type Service interface {
	SendBookingConfirmation(ctx context.Context, to string, visit *model.Visit) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewService(cfg *Config) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendBookingConfirmation(_ context.Context, to string, visit *model.Visit) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your visit is confirmed")
	m.SetBody("text/plain", fmt.Sprintf(
		"Your visit on %s from %s to %s has been booked.",
		visit.StartTime.Format("2006-01-02"),
		visit.StartTime.Format(time.Kitchen),
		visit.EndTime.Format(time.Kitchen),
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send booking confirmation: %w", err)
	}
	return nil
}
