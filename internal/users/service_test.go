package users

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailydiet/internal/session"
)

type fakeRepo struct {
	users     map[string]*User
	createErr error
	existsErr error
	deleteErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]*User{}}
}

func (r *fakeRepo) Create(ctx context.Context, user *User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrEmailExists
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (r *fakeRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if r.existsErr != nil {
		return false, r.existsErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) List(ctx context.Context) ([]User, error) {
	out := []User{}
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.users, id)
	return nil
}

// fakeSessions records bindings in memory
type fakeSessions struct {
	bound     map[string]string
	createErr error
	bindErr   error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{bound: map[string]string{}}
}

func (f *fakeSessions) Create(ctx context.Context, userID string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	token := "token-" + userID
	f.bound[token] = userID
	return token, nil
}

func (f *fakeSessions) Bind(ctx context.Context, sessionID, userID string) error {
	if f.bindErr != nil {
		return f.bindErr
	}
	if _, ok := f.bound[sessionID]; ok {
		return session.ErrSessionExists
	}
	f.bound[sessionID] = userID
	return nil
}

func (f *fakeSessions) Get(ctx context.Context, sessionID string) (*session.Session, error) {
	userID, ok := f.bound[sessionID]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return &session.Session{ID: sessionID, UserID: userID}, nil
}

func (f *fakeSessions) Ping(ctx context.Context) error { return nil }

var douglas = RegisterRequest{FirstName: "Douglas", LastName: "da Silva", Email: "douglasdasilva@orkut.com.br"}

func TestRegister_IssuesSessionWhenNoneSent(t *testing.T) {
	repo, sessions := newFakeRepo(), newFakeSessions()
	svc := NewService(repo, sessions)

	reg, err := svc.Register(context.Background(), douglas, "")
	require.NoError(t, err)

	assert.True(t, reg.Issued)
	assert.NotEmpty(t, reg.User.ID)
	assert.Equal(t, reg.User.ID, sessions.bound[reg.SessionID])
	assert.False(t, reg.User.CreatedAt.IsZero())
	assert.Len(t, repo.users, 1)
}

func TestRegister_BindsUnknownCookie(t *testing.T) {
	sessions := newFakeSessions()
	svc := NewService(newFakeRepo(), sessions)

	reg, err := svc.Register(context.Background(), douglas, "browser-token")
	require.NoError(t, err)

	assert.False(t, reg.Issued, "no new cookie when the caller already has one")
	assert.Equal(t, "browser-token", reg.SessionID)
	assert.Equal(t, reg.User.ID, sessions.bound["browser-token"])
}

func TestRegister_KeepsBoundCookie(t *testing.T) {
	sessions := newFakeSessions()
	sessions.bound["existing"] = "someone-else"
	svc := NewService(newFakeRepo(), sessions)

	reg, err := svc.Register(context.Background(), douglas, "existing")
	require.NoError(t, err)

	assert.False(t, reg.Issued)
	assert.Empty(t, reg.SessionID)
	assert.Equal(t, "someone-else", sessions.bound["existing"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, newFakeSessions())

	_, err := svc.Register(context.Background(), douglas, "")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), douglas, "")
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.Len(t, repo.users, 1, "no duplicate row")
}

func TestRegister_StorageFailures(t *testing.T) {
	repo := newFakeRepo()
	repo.existsErr = errors.New("db down")
	svc := NewService(repo, newFakeSessions())

	_, err := svc.Register(context.Background(), douglas, "")
	assert.Error(t, err)

	sessions := newFakeSessions()
	sessions.createErr = errors.New("redis down")
	svc = NewService(newFakeRepo(), sessions)

	_, err = svc.Register(context.Background(), douglas, "")
	assert.Error(t, err)
}

func TestRegister_SessionFailureRemovesUser(t *testing.T) {
	repo, sessions := newFakeRepo(), newFakeSessions()
	sessions.createErr = errors.New("redis down")
	svc := NewService(repo, sessions)

	_, err := svc.Register(context.Background(), douglas, "")
	require.Error(t, err)
	assert.Empty(t, repo.users, "user row must not outlive a failed session write")

	sessions.createErr = nil
	reg, err := svc.Register(context.Background(), douglas, "")
	require.NoError(t, err)
	assert.True(t, reg.Issued)
	assert.Len(t, repo.users, 1)
}

func TestRegister_BindFailureRemovesUser(t *testing.T) {
	repo, sessions := newFakeRepo(), newFakeSessions()
	sessions.bindErr = errors.New("redis down")
	svc := NewService(repo, sessions)

	_, err := svc.Register(context.Background(), douglas, "browser-token")
	require.Error(t, err)
	assert.Empty(t, repo.users)

	sessions.bindErr = nil
	_, err = svc.Register(context.Background(), douglas, "browser-token")
	require.NoError(t, err)
	assert.Equal(t, 1, len(repo.users))
}

func TestRegister_RollbackFailureIsReported(t *testing.T) {
	repo, sessions := newFakeRepo(), newFakeSessions()
	sessions.createErr = errors.New("redis down")
	repo.deleteErr = errors.New("db down")
	svc := NewService(repo, sessions)

	_, err := svc.Register(context.Background(), douglas, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis down")
	assert.Contains(t, err.Error(), "db down")
}
