package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/interfaces"
	"github.com/sirapurapushyam/AluminiHub-sub000/pkg/events"
	"go.uber.org/zap"
)

// Notifier publishes mail events. Delivery is best effort: errors are logged
// and never returned to the caller.
type Notifier struct {
	producer    interfaces.ProducerHandler
	frontendURL string
}

func NewNotifier(producer interfaces.ProducerHandler, frontendURL string) *Notifier {
	return &Notifier{
		producer:    producer,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func (n *Notifier) CollegeApproved(ctx context.Context, college *domain.College, admin *domain.User) {
	n.publish(ctx, events.TypeCollegeApproved, events.CollegeApproved{
		CollegeName:    college.Name,
		CollegeCode:    college.Code(),
		AdminEmail:     admin.Email,
		AdminFirstName: admin.FirstName,
		LoginURL:       n.frontendURL + "/login",
	})
}

func (n *Notifier) PasswordReset(ctx context.Context, user *domain.User, token string, expiresAt time.Time) {
	n.publish(ctx, events.TypePasswordReset, events.PasswordReset{
		Email:     user.Email,
		FirstName: user.FirstName,
		ResetURL:  n.ResetURL(token, user.Email),
		ExpiresAt: expiresAt,
	})
}

func (n *Notifier) ResetURL(token, email string) string {
	return fmt.Sprintf("%s/reset-password?token=%s&email=%s",
		n.frontendURL, url.QueryEscape(token), url.QueryEscape(email))
}

func (n *Notifier) publish(ctx context.Context, eventType string, data any) {
	if n == nil || n.producer == nil {
		return
	}

	payload, err := events.Encode(eventType, data)
	if err != nil {
		zap.S().Warnw("encode event failed", "type", eventType, "error", err)
		return
	}
	if err := n.producer.PublishMessage(ctx, []byte(eventType), payload); err != nil {
		zap.S().Warnw("publish event failed", "type", eventType, "error", err)
	}
}
