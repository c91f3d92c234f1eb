package events

import (
	"encoding/json"
	"errors"
	"time"
)

const (
	TypeCollegeApproved = "college.approved"
	TypePasswordReset   = "user.password_reset"
)

// Envelope is the message value on the notifications topic. The message key
// carries the same Type.
type Envelope struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

type CollegeApproved struct {
	CollegeName    string `json:"college_name"`
	CollegeCode    string `json:"college_code"`
	AdminEmail     string `json:"admin_email"`
	AdminFirstName string `json:"admin_first_name"`
	LoginURL       string `json:"login_url"`
}

type PasswordReset struct {
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	ResetURL  string    `json:"reset_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

func Encode(eventType string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       raw,
	})
}

func Decode(b []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return Envelope{}, err
	}
	if env.Type == "" {
		return Envelope{}, errors.New("event type missing")
	}
	return env, nil
}
