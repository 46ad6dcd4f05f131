package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jeerawut3427/personal-system/internal/auth"
	"github.com/jeerawut3427/personal-system/internal/domain"
	"github.com/jeerawut3427/personal-system/internal/observability"
	util "github.com/jeerawut3427/personal-system/pkg/util"
)

type fakeCommand struct {
	name    string
	spec    Spec
	handled bool
	result  *Result
	err     error
}

func (c *fakeCommand) Name() string { return c.name }
func (c *fakeCommand) Spec() Spec   { return c.spec }
func (c *fakeCommand) Handle(_ context.Context, _ *Request) (*Result, error) {
	c.handled = true
	return c.result, c.err
}

type tokenRow struct {
	username  string
	createdAt time.Time
}

type fakeSessionStore struct {
	sessions map[string]tokenRow
	roles    map[string]domain.Role
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[string]tokenRow),
		roles:    make(map[string]domain.Role),
	}
}

func (s *fakeSessionStore) Create(_ context.Context, token, username string, createdAt time.Time) error {
	s.sessions[token] = tokenRow{username: username, createdAt: createdAt}
	return nil
}

func (s *fakeSessionStore) GetWithUser(_ context.Context, token string) (*domain.Session, error) {
	row, ok := s.sessions[token]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &domain.Session{
		Token:     token,
		Username:  row.username,
		CreatedAt: row.createdAt,
		Role:      s.roles[row.username],
	}, nil
}

func (s *fakeSessionStore) DeleteExpired(_ context.Context, cutoff time.Time) error {
	for token, row := range s.sessions {
		if row.createdAt.Before(cutoff) {
			delete(s.sessions, token)
		}
	}
	return nil
}

func (s *fakeSessionStore) Delete(_ context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func newTestDispatcher(t *testing.T, commands ...Command) (*Dispatcher, *fakeSessionStore, *auth.SessionManager) {
	t.Helper()
	store := newFakeSessionStore()
	sessions := auth.NewSessionManager(store, 30*time.Minute, 16)
	dispatcher := NewDispatcher(NewRegistry(commands...), sessions, observability.NewMetrics(), zap.NewNop())
	return dispatcher, store, sessions
}

func issueToken(t *testing.T, store *fakeSessionStore, sessions *auth.SessionManager, username string, role domain.Role) string {
	t.Helper()
	store.roles[username] = role
	token, _, err := sessions.Issue(context.Background(), username)
	require.NoError(t, err)
	return token
}

func TestDispatchUnknownAction(t *testing.T) {
	dispatcher, _, _ := newTestDispatcher(t)

	_, err := dispatcher.Dispatch(context.Background(), &Request{Action: "frobnicate"})
	require.Error(t, err)
	assert.Equal(t, "UNKNOWN_ACTION", util.ToDomainError(err).Code)
}

func TestDispatchRequiresAuthentication(t *testing.T) {
	cmd := &fakeCommand{name: "list_personnel", spec: Spec{AuthRequired: true}}
	dispatcher, store, sessions := newTestDispatcher(t, cmd)

	_, err := dispatcher.Dispatch(context.Background(), &Request{Action: "list_personnel"})
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", util.ToDomainError(err).Code)
	assert.False(t, cmd.handled)

	// a stale token is the same as none
	_, err = dispatcher.Dispatch(context.Background(), &Request{Action: "list_personnel", Token: "expired"})
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", util.ToDomainError(err).Code)

	token := issueToken(t, store, sessions, "somchai", domain.RoleUser)
	_, err = dispatcher.Dispatch(context.Background(), &Request{Action: "list_personnel", Token: token})
	require.NoError(t, err)
	assert.True(t, cmd.handled)
}

func TestDispatchEnforcesAdminRole(t *testing.T) {
	cmd := &fakeCommand{name: "list_users", spec: Spec{AuthRequired: true, AdminOnly: true}}
	dispatcher, store, sessions := newTestDispatcher(t, cmd)

	userToken := issueToken(t, store, sessions, "somchai", domain.RoleUser)
	_, err := dispatcher.Dispatch(context.Background(), &Request{Action: "list_users", Token: userToken})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", util.ToDomainError(err).Code)
	assert.False(t, cmd.handled)

	adminToken := issueToken(t, store, sessions, "admin", domain.RoleAdmin)
	_, err = dispatcher.Dispatch(context.Background(), &Request{Action: "list_users", Token: adminToken})
	require.NoError(t, err)
	assert.True(t, cmd.handled)
}

func TestDispatchOpenCommandRunsWithoutSession(t *testing.T) {
	cmd := &fakeCommand{name: "login", spec: Spec{}}
	dispatcher, _, _ := newTestDispatcher(t, cmd)

	result, err := dispatcher.Dispatch(context.Background(), &Request{Action: "login"})
	require.NoError(t, err)
	assert.True(t, cmd.handled)
	assert.NotNil(t, result.Body)
}

func TestDispatchAttachesSessionToRequest(t *testing.T) {
	var seen *domain.Session
	cmd := &capturingCommand{name: "whoami", spec: Spec{AuthRequired: true}, capture: func(req *Request) {
		seen = req.Session
	}}
	dispatcher, store, sessions := newTestDispatcher(t, cmd)

	token := issueToken(t, store, sessions, "somchai", domain.RoleUser)
	_, err := dispatcher.Dispatch(context.Background(), &Request{Action: "whoami", Token: token})
	require.NoError(t, err)
	require.NotNil(t, seen)
	assert.Equal(t, "somchai", seen.Username)
}

func TestDispatchNormalizesNilResult(t *testing.T) {
	cmd := &fakeCommand{name: "noop", spec: Spec{}, result: nil}
	dispatcher, _, _ := newTestDispatcher(t, cmd)

	result, err := dispatcher.Dispatch(context.Background(), &Request{Action: "noop"})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotNil(t, result.Body)
	assert.Empty(t, result.Directives)
}

type capturingCommand struct {
	name    string
	spec    Spec
	capture func(*Request)
}

func (c *capturingCommand) Name() string { return c.name }
func (c *capturingCommand) Spec() Spec   { return c.spec }
func (c *capturingCommand) Handle(_ context.Context, req *Request) (*Result, error) {
	c.capture(req)
	return &Result{}, nil
}
