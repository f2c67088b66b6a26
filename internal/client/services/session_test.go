package services

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/dmitrijs2005/fruitpie/internal/client/client"
	"github.com/dmitrijs2005/fruitpie/internal/client/models"
	"github.com/dmitrijs2005/fruitpie/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fruitpie/internal/client/ui"
	"github.com/dmitrijs2005/fruitpie/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

// ---- fakes ----

// fakeClient implements client.Client for session unit tests.
type fakeClient struct {
	mu sync.Mutex

	TokenRet string
	TokenErr error

	UserRet *models.User
	UserErr error

	RegisterErr error

	// onCurrentUser runs at the start of CurrentUser, before the result is returned.
	onCurrentUser func(token string)

	TokenCalls    int
	UserCalls     int
	RegisterCalls int
	LastToken     string
	LastUsername  string
	LastPassword  string
	LastReg       models.Registration
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) RequestToken(_ context.Context, username string, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TokenCalls++
	f.LastUsername, f.LastPassword = username, password
	return f.TokenRet, f.TokenErr
}

func (f *fakeClient) CurrentUser(_ context.Context, token string) (*models.User, error) {
	if f.onCurrentUser != nil {
		f.onCurrentUser(token)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UserCalls++
	f.LastToken = token
	if f.UserRet == nil {
		return nil, f.UserErr
	}
	u := *f.UserRet
	return &u, f.UserErr
}

func (f *fakeClient) Register(_ context.Context, reg models.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RegisterCalls++
	f.LastReg = reg
	return f.RegisterErr
}

// recordingSurface remembers every applied view.
type recordingSurface struct {
	mu    sync.Mutex
	views []ui.View
}

func (r *recordingSurface) Apply(v ui.View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, v)
}

func (r *recordingSurface) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

func (r *recordingSurface) last() ui.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.views[len(r.views)-1]
}

type brokenStore struct {
	token    string
	clearErr error
}

func (b *brokenStore) Token(context.Context) (string, error)   { return b.token, nil }
func (b *brokenStore) SaveToken(context.Context, string) error { return errors.New("disk full") }
func (b *brokenStore) ClearToken(context.Context) error        { return b.clearErr }

func newSession(t *testing.T, fc *fakeClient) (*Session, *recordingSurface, TokenStore) {
	t.Helper()
	store := NewTokenStore(metadata.NewSQLiteRepository(setupDB(t)))
	surface := &recordingSurface{}
	return NewSession(fc, store, surface, logging.Discard()), surface, store
}

func storedToken(t *testing.T, s TokenStore) string {
	t.Helper()
	tok, err := s.Token(context.Background())
	require.NoError(t, err)
	return tok
}

var invalidCredentials = &client.APIError{StatusCode: http.StatusUnauthorized, Detail: "Invalid credentials"}

// ---- token accessors ----

func TestTokenRoundTrip(t *testing.T) {
	s, _, _ := newSession(t, &fakeClient{})
	ctx := context.Background()

	tok, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, s.SaveToken(ctx, "abc"))
	tok, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	require.NoError(t, s.ClearToken(ctx))
	tok, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

// ---- FetchCurrentUser ----

func TestFetchCurrentUser_NoToken_NoRequest(t *testing.T) {
	fc := &fakeClient{UserRet: &models.User{Username: "alice"}}
	s, _, _ := newSession(t, fc)

	u, err := s.FetchCurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Zero(t, fc.UserCalls)
}

func TestFetchCurrentUser_Success(t *testing.T) {
	fc := &fakeClient{UserRet: &models.User{Username: "alice", IsSeeker: true}}
	s, _, store := newSession(t, fc)
	require.NoError(t, store.SaveToken(context.Background(), "abc"))

	u, err := s.FetchCurrentUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "abc", fc.LastToken)
	assert.Equal(t, "abc", storedToken(t, store))
}

func TestFetchCurrentUser_Rejected_ClearsToken(t *testing.T) {
	fc := &fakeClient{UserErr: client.ErrUnauthorized}
	s, _, store := newSession(t, fc)
	require.NoError(t, store.SaveToken(context.Background(), "stale"))

	u, err := s.FetchCurrentUser(context.Background())

	assert.Nil(t, u)
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Empty(t, storedToken(t, store))
}

func TestFetchCurrentUser_RejectedAfterLogin_AppliesAnonymousView(t *testing.T) {
	fc := &fakeClient{TokenRet: "abc", UserRet: &models.User{Username: "alice", IsPoster: true}}
	s, surface, store := newSession(t, fc)
	ctx := context.Background()
	require.NoError(t, s.Login(ctx, "alice", "pw"))
	require.Equal(t, ui.Authenticated, surface.last().Mode)

	fc.mu.Lock()
	fc.UserRet, fc.UserErr = nil, client.ErrUnauthorized
	fc.mu.Unlock()

	u, err := s.FetchCurrentUser(ctx)

	assert.Nil(t, u)
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Empty(t, storedToken(t, store))
	assert.Nil(t, s.User())
	assert.Equal(t, ui.Anonymous, s.Mode())
	assert.Equal(t, ui.Anonymous, surface.last().Mode)
	assert.False(t, surface.last().LogoutButton)
	assert.False(t, surface.last().PostJobButton)
	assert.Empty(t, surface.last().Username)
}

func TestFetchCurrentUser_TransportFailure_KeepsToken(t *testing.T) {
	for _, cause := range []error{client.ErrUnavailable, client.ErrMalformedResponse} {
		t.Run(cause.Error(), func(t *testing.T) {
			fc := &fakeClient{UserErr: cause}
			s, _, store := newSession(t, fc)
			require.NoError(t, store.SaveToken(context.Background(), "abc"))

			u, err := s.FetchCurrentUser(context.Background())

			assert.Nil(t, u)
			require.ErrorIs(t, err, cause)
			assert.Equal(t, "abc", storedToken(t, store))
		})
	}
}

func TestFetchCurrentUser_RejectedAndClearFails_ReportsBoth(t *testing.T) {
	fc := &fakeClient{UserErr: client.ErrUnauthorized}
	store := &brokenStore{token: "stale", clearErr: errors.New("locked")}
	s := NewSession(fc, store, &recordingSurface{}, logging.Discard())

	_, err := s.FetchCurrentUser(context.Background())

	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Contains(t, err.Error(), "locked")
}

// ---- Resolve ----

func TestResolve_ValidStoredToken_Authenticated(t *testing.T) {
	fc := &fakeClient{UserRet: &models.User{Username: "alice"}}
	s, surface, store := newSession(t, fc)
	require.NoError(t, store.SaveToken(context.Background(), "abc"))

	require.NoError(t, s.Resolve(context.Background()))

	assert.Equal(t, ui.Authenticated, s.Mode())
	assert.Equal(t, 1, surface.count())
	assert.Equal(t, "alice", surface.last().Username)
}

func TestResolve_NoToken_AppliesAnonymous(t *testing.T) {
	s, surface, _ := newSession(t, &fakeClient{})

	require.NoError(t, s.Resolve(context.Background()))

	assert.Equal(t, ui.Anonymous, s.Mode())
	assert.Equal(t, ui.Render(nil), surface.last())
}

func TestResolve_StaleToken_ClearedAndAnonymous(t *testing.T) {
	fc := &fakeClient{UserErr: client.ErrUnauthorized}
	s, surface, store := newSession(t, fc)
	require.NoError(t, store.SaveToken(context.Background(), "from-last-visit"))

	err := s.Resolve(context.Background())

	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Empty(t, storedToken(t, store))
	assert.Equal(t, ui.Anonymous, surface.last().Mode)
}

func TestResolve_ServerDown_AnonymousButTokenKept(t *testing.T) {
	fc := &fakeClient{UserErr: client.ErrUnavailable}
	s, surface, store := newSession(t, fc)
	require.NoError(t, store.SaveToken(context.Background(), "abc"))

	err := s.Resolve(context.Background())

	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.Equal(t, ui.Anonymous, surface.last().Mode, "a token without a user is logged out for the UI")
	assert.Nil(t, s.User())
	assert.Equal(t, "abc", storedToken(t, store))
}

// ---- Login ----

func TestLogin_Seeker_AuthenticatedWithoutPostJob(t *testing.T) {
	fc := &fakeClient{TokenRet: "abc", UserRet: &models.User{Username: "alice", IsSeeker: true, IsPoster: false}}
	s, surface, store := newSession(t, fc)

	require.NoError(t, s.Login(context.Background(), "alice", "pw"))

	assert.Equal(t, "abc", storedToken(t, store))
	assert.Equal(t, ui.Authenticated, s.Mode())
	assert.False(t, surface.last().PostJobButton)
	assert.Equal(t, "alice", surface.last().Username)
	assert.Equal(t, 1, surface.count())
	assert.Equal(t, "alice", fc.LastUsername)
	assert.Equal(t, "pw", fc.LastPassword)
}

func TestLogin_Poster_ShowsPostJob(t *testing.T) {
	fc := &fakeClient{TokenRet: "abc", UserRet: &models.User{Username: "alice", IsSeeker: true, IsPoster: true}}
	s, surface, _ := newSession(t, fc)

	require.NoError(t, s.Login(context.Background(), "alice", "pw"))

	assert.Equal(t, ui.Authenticated, surface.last().Mode)
	assert.True(t, surface.last().PostJobButton)
}

func TestLogin_TokenPersistedBeforeVerification(t *testing.T) {
	fc := &fakeClient{TokenRet: "abc", UserRet: &models.User{Username: "alice"}}
	s, _, store := newSession(t, fc)

	var seen string
	fc.onCurrentUser = func(string) { seen = storedToken(t, store) }

	require.NoError(t, s.Login(context.Background(), "alice", "pw"))
	assert.Equal(t, "abc", seen)
}

func TestLogin_InvalidCredentials_StateUnchanged(t *testing.T) {
	tests := []struct {
		name  string
		prior string
	}{
		{name: "no previous token", prior: ""},
		{name: "previous token kept", prior: "old"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeClient{TokenErr: invalidCredentials}
			s, surface, store := newSession(t, fc)
			if tt.prior != "" {
				require.NoError(t, store.SaveToken(context.Background(), tt.prior))
			}

			err := s.Login(context.Background(), "alice", "wrong")

			require.Error(t, err)
			assert.Equal(t, "Invalid credentials", UserMessage(err, MsgLoginFailed))
			assert.Equal(t, tt.prior, storedToken(t, store))
			assert.Zero(t, surface.count(), "view must not change")
			assert.Zero(t, fc.UserCalls)
		})
	}
}

func TestLogin_TransportFailure_GenericMessage(t *testing.T) {
	fc := &fakeClient{TokenErr: client.ErrUnavailable}
	s, surface, store := newSession(t, fc)

	err := s.Login(context.Background(), "alice", "pw")

	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.Equal(t, MsgUnexpected, UserMessage(err, MsgLoginFailed))
	assert.Empty(t, storedToken(t, store))
	assert.Zero(t, surface.count())
}

func TestLogin_VerificationFailure_DiscardsToken(t *testing.T) {
	for _, cause := range []error{client.ErrUnauthorized, client.ErrUnavailable} {
		t.Run(cause.Error(), func(t *testing.T) {
			fc := &fakeClient{TokenRet: "abc", UserErr: cause}
			s, surface, store := newSession(t, fc)

			err := s.Login(context.Background(), "alice", "pw")

			require.ErrorIs(t, err, ErrVerificationFailed)
			require.ErrorIs(t, err, cause)
			assert.Equal(t, MsgVerificationFailed, UserMessage(err, MsgLoginFailed))
			assert.Empty(t, storedToken(t, store))
			assert.Equal(t, ui.Anonymous, surface.last().Mode)
			assert.Nil(t, s.User())
		})
	}
}

func TestLogin_ReplacesEarlierUser(t *testing.T) {
	fc := &fakeClient{TokenRet: "t1", UserRet: &models.User{Username: "alice"}}
	s, _, _ := newSession(t, fc)
	require.NoError(t, s.Login(context.Background(), "alice", "pw"))

	fc.TokenErr = nil
	fc.TokenRet = "t2"
	fc.UserRet = &models.User{Username: "carol", IsPoster: true}
	require.NoError(t, s.Login(context.Background(), "carol", "pw"))

	assert.Equal(t, "carol", s.User().Username)
}

func TestLogin_Validation_NoRequest(t *testing.T) {
	fc := &fakeClient{}
	s, surface, _ := newSession(t, fc)

	err := s.Login(context.Background(), "", "")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "username is required; password is required", UserMessage(err, MsgLoginFailed))
	assert.Zero(t, fc.TokenCalls)
	assert.Zero(t, surface.count())
}

func TestLogin_SaveTokenFails_NoVerification(t *testing.T) {
	fc := &fakeClient{TokenRet: "abc", UserRet: &models.User{Username: "alice"}}
	surface := &recordingSurface{}
	s := NewSession(fc, &brokenStore{}, surface, logging.Discard())

	err := s.Login(context.Background(), "alice", "pw")

	require.Error(t, err)
	assert.Equal(t, MsgUnexpected, UserMessage(err, MsgLoginFailed))
	assert.Zero(t, fc.UserCalls)
	assert.Zero(t, surface.count())
}

// ---- Logout ----

func TestLogout_AlwaysAnonymous(t *testing.T) {
	fc := &fakeClient{TokenRet: "abc", UserRet: &models.User{Username: "alice", IsPoster: true}}
	s, surface, store := newSession(t, fc)
	require.NoError(t, s.Login(context.Background(), "alice", "pw"))

	require.NoError(t, s.Logout(context.Background()))

	assert.Empty(t, storedToken(t, store))
	assert.Equal(t, ui.Anonymous, s.Mode())
	assert.Equal(t, ui.Render(nil), surface.last())

	require.NoError(t, s.Logout(context.Background()), "logout from anonymous is fine")
	assert.Equal(t, ui.Anonymous, s.Mode())
}

func TestLogout_StorageFailure_StillAnonymous(t *testing.T) {
	surface := &recordingSurface{}
	s := NewSession(&fakeClient{}, &brokenStore{clearErr: errors.New("locked")}, surface, logging.Discard())

	err := s.Logout(context.Background())

	require.Error(t, err)
	assert.Equal(t, ui.Anonymous, surface.last().Mode)
}

// ---- Register ----

func TestRegister_Success_DoesNotLogIn(t *testing.T) {
	fc := &fakeClient{}
	s, surface, store := newSession(t, fc)
	reg := models.Registration{Username: "bob", Email: "bob@example.com", Password: "pw", IsSeeker: true}

	require.NoError(t, s.Register(context.Background(), reg))

	assert.Equal(t, reg, fc.LastReg)
	assert.Empty(t, storedToken(t, store))
	assert.Zero(t, fc.TokenCalls)
	assert.Zero(t, surface.count())
	assert.Equal(t, ui.Anonymous, s.Mode())
}

func TestRegister_ServerDetailSurfaced(t *testing.T) {
	fc := &fakeClient{RegisterErr: &client.APIError{StatusCode: 400, Detail: "Username already registered"}}
	s, _, _ := newSession(t, fc)

	err := s.Register(context.Background(), models.Registration{Username: "bob", Email: "b@example.com", Password: "pw"})

	assert.Equal(t, "Username already registered", UserMessage(err, MsgRegisterFailed))
}

func TestRegister_Validation(t *testing.T) {
	fc := &fakeClient{}
	s, _, _ := newSession(t, fc)

	err := s.Register(context.Background(), models.Registration{Username: "bob", Email: "not-an-email"})

	assert.Equal(t, "email must be a valid email; password is required", UserMessage(err, MsgRegisterFailed))
	assert.Zero(t, fc.RegisterCalls)
}

// ---- messages ----

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback string
		want     string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "detail", err: invalidCredentials, fallback: MsgLoginFailed, want: "Invalid credentials"},
		{name: "empty detail", err: &client.APIError{StatusCode: 500}, fallback: MsgLoginFailed, want: MsgLoginFailed},
		{name: "transport", err: client.ErrUnavailable, fallback: MsgLoginFailed, want: MsgUnexpected},
		{name: "other", err: errors.New("boom"), fallback: MsgRegisterFailed, want: MsgUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err, tt.fallback))
		})
	}
}
