package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirapurapushyam/AluminiHub-sub000/mail-svc/internal/services"
	"github.com/sirapurapushyam/AluminiHub-sub000/pkg/events"
	"go.uber.org/zap"
)

type Mailer interface {
	SendCollegeApproved(ctx context.Context, ev events.CollegeApproved) error
	SendPasswordReset(ctx context.Context, ev events.PasswordReset) error
}

var _ Mailer = (*services.MailService)(nil)

type MailHandler struct {
	Mailer Mailer
}

func NewMailHandler(m Mailer) *MailHandler {
	return &MailHandler{Mailer: m}
}

// HandleMessage dispatches one notification event. Unknown types are skipped.
func (h *MailHandler) HandleMessage(ctx context.Context, key string, value []byte) error {
	env, err := events.Decode(value)
	if err != nil {
		return fmt.Errorf("decode event: %w", err)
	}

	switch env.Type {
	case events.TypeCollegeApproved:
		var ev events.CollegeApproved
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return h.Mailer.SendCollegeApproved(ctx, ev)

	case events.TypePasswordReset:
		var ev events.PasswordReset
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return h.Mailer.SendPasswordReset(ctx, ev)

	default:
		zap.S().Debugw("event ignored", "type", env.Type, "key", key)
		return nil
	}
}
