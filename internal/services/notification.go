package services

import (
	"context"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"inventario/pkg/config"
)

type NotificationServiceInterface interface {
	Send(ctx context.Context, to, subject, body string) error
}

type smtpNotificationService struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

type mockNotificationService struct {
	logger *zap.Logger
}

// NewNotificationService devuelve el emisor SMTP si hay host configurado y un
// emisor que sólo registra en el log en caso contrario, para que los entornos
// de desarrollo no necesiten un servidor de correo.
func NewNotificationService(cfg config.SMTPConfig, logger *zap.Logger) NotificationServiceInterface {
	if cfg.Host == "" {
		logger.Warn("SMTP sin configurar, las notificaciones sólo se registrarán en el log")
		return &mockNotificationService{logger: logger}
	}
	return &smtpNotificationService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

func (s *smtpNotificationService) Send(ctx context.Context, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("no se pudo enviar la notificación",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *mockNotificationService) Send(_ context.Context, to, subject, body string) error {
	s.logger.Info("notificación simulada",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}
