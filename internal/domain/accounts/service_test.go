package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreds struct {
	users     map[string]User
	passwords map[string]string
}

func newFakeCreds() *fakeCreds {
	return &fakeCreds{users: map[string]User{}, passwords: map[string]string{}}
}

func (f *fakeCreds) Verify(ctx context.Context, email, password string) (User, error) {
	u, ok := f.users[email]
	if !ok || f.passwords[email] != password {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (f *fakeCreds) Create(ctx context.Context, u User, password string) error {
	if _, ok := f.users[u.Email]; ok {
		return ErrEmailTaken
	}
	f.users[u.Email] = u
	f.passwords[u.Email] = password
	return nil
}

func (f *fakeCreds) FindByEmail(ctx context.Context, email string) (User, error) {
	u, ok := f.users[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

type fakeTokens struct {
	ttl time.Duration
	now time.Time
	err error
}

func (f *fakeTokens) Issue(ctx context.Context, u User) (string, time.Time, error) {
	if f.err != nil {
		return "", time.Time{}, f.err
	}
	return "token-" + u.ID, f.now.Add(f.ttl), nil
}

type fakeSessions struct {
	sess *Session
}

func (f *fakeSessions) Save(ctx context.Context, s Session) error {
	f.sess = &s
	return nil
}

func (f *fakeSessions) Load(ctx context.Context) (Session, error) {
	if f.sess == nil {
		return Session{}, ErrNoSession
	}
	return *f.sess, nil
}

func (f *fakeSessions) Clear(ctx context.Context) error {
	f.sess = nil
	return nil
}

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *fakeCreds, *fakeSessions, *fakeTokens) {
	t.Helper()

	creds := newFakeCreds()
	sessions := &fakeSessions{}
	tokens := &fakeTokens{ttl: time.Hour, now: testNow}

	svc := NewService(creds, tokens, sessions, nil)
	svc.now = func() time.Time { return testNow }
	n := 0
	svc.newID = func() string {
		n++
		return "user-" + string(rune('0'+n))
	}
	return svc, creds, sessions, tokens
}

func TestSeedDemoUsers(t *testing.T) {
	ctx := context.Background()
	svc, creds, _, _ := newTestService(t)

	n, err := svc.SeedDemoUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Segunda vez no crea nada.
	n, err = svc.SeedDemoUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	assert.Equal(t, RoleAdmin, creds.users["admin@example.com"].Role)
	assert.Equal(t, "User Test", creds.users["user@example.com"].Name)
}

func TestLogin_DemoUsers(t *testing.T) {
	ctx := context.Background()
	svc, _, sessions, _ := newTestService(t)
	_, err := svc.SeedDemoUsers(ctx)
	require.NoError(t, err)

	sess, err := svc.Login(ctx, "  Admin@Example.com ", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "token-1", sess.Token)
	assert.Equal(t, "Administrator", sess.User.Name)
	assert.Equal(t, testNow.Add(time.Hour), sess.ExpiresAt)
	require.NotNil(t, sessions.sess)

	tok, ok := svc.Token(ctx)
	assert.True(t, ok)
	assert.Equal(t, "token-1", tok)
	assert.True(t, svc.IsAuthenticated(ctx))

	u, ok := svc.CurrentUser(ctx)
	assert.True(t, ok)
	assert.Equal(t, "1", u.ID)
}

func TestLogin_Rejected(t *testing.T) {
	ctx := context.Background()
	svc, _, sessions, _ := newTestService(t)
	_, err := svc.SeedDemoUsers(ctx)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "admin123")
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Nil(t, sessions.sess)
	assert.False(t, svc.IsAuthenticated(ctx))
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, creds, _, _ := newTestService(t)

	sess, err := svc.Register(ctx, RegisterInput{Name: " Ana ", Email: "Ana@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", sess.User.ID)
	assert.Equal(t, "ana@example.com", sess.User.Email)
	assert.Equal(t, "Ana", sess.User.Name)
	assert.Equal(t, RoleUser, sess.User.Role)
	assert.Equal(t, "secret1", creds.passwords["ana@example.com"])

	_, err = svc.Register(ctx, RegisterInput{Name: "Otra", Email: "ana@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_Invalid(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService(t)

	cases := []RegisterInput{
		{Name: "", Email: "a@example.com", Password: "secret1"},
		{Name: "Ana", Email: "no-es-email", Password: "secret1"},
		{Name: "Ana", Email: "a@example.com", Password: "123"},
	}
	for _, in := range cases {
		_, err := svc.Register(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidInput, "%+v", in)
	}
}

func TestRegister_TokenFailure(t *testing.T) {
	ctx := context.Background()
	svc, _, sessions, tokens := newTestService(t)
	tokens.err = errors.New("boom")

	_, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "a@example.com", Password: "secret1"})
	require.Error(t, err)
	assert.Nil(t, sessions.sess)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService(t)
	_, err := svc.SeedDemoUsers(ctx)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "user@example.com", "user123")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx))

	_, ok := svc.Token(ctx)
	assert.False(t, ok)
	_, ok = svc.CurrentUser(ctx)
	assert.False(t, ok)
}

func TestIsAuthenticated_Expired(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService(t)
	_, err := svc.SeedDemoUsers(ctx)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "user@example.com", "user123")
	require.NoError(t, err)

	svc.now = func() time.Time { return testNow.Add(2 * time.Hour) }
	assert.False(t, svc.IsAuthenticated(ctx))
}

func TestForgotPassword(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService(t)
	_, err := svc.SeedDemoUsers(ctx)
	require.NoError(t, err)

	assert.NoError(t, svc.ForgotPassword(ctx, "USER@example.com"))
	assert.ErrorIs(t, svc.ForgotPassword(ctx, "nadie@example.com"), ErrUserNotFound)
	assert.ErrorIs(t, svc.ForgotPassword(ctx, " "), ErrInvalidInput)
}
