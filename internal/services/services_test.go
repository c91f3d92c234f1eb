package services

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/dto"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/helper"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/interfaces"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/repository/memory"
	"github.com/sirapurapushyam/AluminiHub-sub000/pkg/events"
	"github.com/stretchr/testify/require"
)

type published struct {
	key   string
	value []byte
}

type fakeProducer struct {
	mu   sync.Mutex
	msgs []published
}

func (p *fakeProducer) PublishMessage(_ context.Context, key, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, published{key: string(key), value: value})
	return nil
}

func (p *fakeProducer) events(t *testing.T, eventType string) []events.Envelope {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []events.Envelope
	for _, m := range p.msgs {
		env, err := events.Decode(m.value)
		require.NoError(t, err)
		if env.Type == eventType {
			out = append(out, env)
		}
	}
	return out
}

type seqIDs struct{ n atomic.Int64 }

func (s *seqIDs) Next() int64 { return s.n.Add(1) }

type fakeUploader struct {
	uploads   []string
	data      [][]byte
	destroyed []string
}

func (u *fakeUploader) UploadBytes(_ context.Context, folder, publicID, resourceType string, b []byte) (interfaces.UploadedFile, error) {
	id := folder + "/" + publicID
	u.uploads = append(u.uploads, id)
	u.data = append(u.data, b)
	return interfaces.UploadedFile{URL: "https://cdn.test/" + resourceType + "/" + id, PublicID: id}, nil
}

func (u *fakeUploader) Destroy(_ context.Context, publicID, resourceType string) error {
	u.destroyed = append(u.destroyed, publicID)
	return nil
}

type testEnv struct {
	store    *memory.Store
	producer *fakeProducer
	uploader *fakeUploader
	auth     AuthService
	colleges CollegeService
	users    UserService
	admins   AdminService
}

func newEnv(t *testing.T, gen helper.CodeGenerator) *testEnv {
	t.Helper()

	store := memory.NewStore()
	producer := &fakeProducer{}
	uploader := &fakeUploader{}
	a := helper.SetupAuth("test-secret", time.Hour)
	notifier := NewNotifier(producer, "https://alumni.test/")
	audit := NewAuditor(store.AuditLogs(), &seqIDs{})

	return &testEnv{
		store:    store,
		producer: producer,
		uploader: uploader,
		auth:     NewAuthService(store.Colleges(), store.Users(), store.PasswordResets(), a, notifier, time.Hour),
		colleges: NewCollegeService(store.Colleges(), store.Users(), notifier, audit, gen),
		users:    NewUserService(store.Users(), a, uploader, audit),
		admins:   NewAdminService(store.Users(), store.AuditLogs(), a, audit),
	}
}

var bg = context.Background()

func (e *testEnv) superAdmin(t *testing.T) *domain.User {
	t.Helper()
	u, err := e.auth.RegisterUser(bg, dto.RegisterUserRequest{
		FirstName: "Root", LastName: "Admin", Email: "root@platform.test", Password: "rootpass", Role: "super_admin",
	})
	require.NoError(t, err)
	return u
}

func collegeRequest(name, email, adminEmail string) dto.RegisterCollegeRequest {
	return dto.RegisterCollegeRequest{
		Name:  name,
		Email: email,
		Phone: "+1 555 0100",
		Address: dto.AddressInput{
			Street: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701", Country: "USA",
		},
		AdminFirstName: "Ada",
		AdminLastName:  "Admin",
		AdminEmail:     adminEmail,
		AdminPassword:  "adminpass",
	}
}

// approvedCollege registers and approves a college, returning it with its admin.
func (e *testEnv) approvedCollege(t *testing.T, root *domain.User, name, email, adminEmail string) (*domain.College, *domain.User) {
	t.Helper()
	c, err := e.auth.RegisterCollege(bg, collegeRequest(name, email, adminEmail))
	require.NoError(t, err)
	c, err = e.colleges.DecideCollege(bg, root, c.ID, dto.CollegeDecisionRequest{Status: "approved"})
	require.NoError(t, err)
	admin, err := e.store.Users().FindByID(bg, c.AdminUserID)
	require.NoError(t, err)
	return c, admin
}

func (e *testEnv) registerMember(t *testing.T, role, email, code string) *domain.User {
	t.Helper()
	u, err := e.auth.RegisterUser(bg, dto.RegisterUserRequest{
		FirstName: "Sam", LastName: "Member", Email: email, Password: "memberpass", Role: role, CollegeCode: code,
	})
	require.NoError(t, err)
	return u
}

// resetToken extracts the raw token from the last published reset event.
func (e *testEnv) resetToken(t *testing.T) string {
	t.Helper()
	envs := e.producer.events(t, events.TypePasswordReset)
	require.NotEmpty(t, envs)

	var ev events.PasswordReset
	require.NoError(t, json.Unmarshal(envs[len(envs)-1].Data, &ev))
	u, err := url.Parse(ev.ResetURL)
	require.NoError(t, err)
	return u.Query().Get("token")
}

// fixedCodes returns the given codes in order, then repeats the last one.
func fixedCodes(codes ...string) helper.CodeGenerator {
	var mu sync.Mutex
	i := 0
	return func(string) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		c := codes[i]
		if i < len(codes)-1 {
			i++
		}
		return c, nil
	}
}

func lower(s string) string { return strings.ToLower(s) }
