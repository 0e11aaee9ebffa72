package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/handlekeeper/internal/client/api"
	"github.com/dmitrijs2005/handlekeeper/internal/client/config"
)

type fakeAPI struct {
	signUpReq api.SignUpRequest
	signInReq api.SignInRequest
	meToken   string

	res     *api.AuthResponse
	user    *api.User
	err     error
	pingErr error
}

func (f *fakeAPI) SignUp(_ context.Context, req api.SignUpRequest) (*api.AuthResponse, error) {
	f.signUpReq = req
	return f.res, f.err
}
func (f *fakeAPI) SignIn(_ context.Context, req api.SignInRequest) (*api.AuthResponse, error) {
	f.signInReq = req
	return f.res, f.err
}
func (f *fakeAPI) Me(_ context.Context, token string) (*api.User, error) {
	f.meToken = token
	return f.user, f.err
}
func (f *fakeAPI) Ping(context.Context) error { return f.pingErr }

func newTestApp(fa *fakeAPI, input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		config: &config.Config{ServerURL: "http://test"},
		api:    fa,
		reader: rdr(input),
		out:    &out,
	}, &out
}

// stubPassword replaces the password prompt and records the slice handed out.
func stubPassword(t *testing.T, pw string) *[]byte {
	t.Helper()
	var handed []byte
	old := getPassword
	getPassword = func(io.Writer) ([]byte, error) {
		handed = []byte(pw)
		return handed, nil
	}
	t.Cleanup(func() { getPassword = old })
	return &handed
}

func okResponse(handle string) *api.AuthResponse {
	return &api.AuthResponse{Message: "ok", Token: "tok-" + handle, User: api.User{Handle: handle}}
}

func TestSignUp_SendsInputAndKeepsToken(t *testing.T) {
	handed := stubPassword(t, "pw1")
	fa := &fakeAPI{res: okResponse("bob")}
	app, out := newTestApp(fa, "Bob\nBob B\nBob@X.com\n")

	require.NoError(t, app.SignUp(context.Background()))

	assert.Equal(t, api.SignUpRequest{Handle: "Bob", Username: "Bob B", Email: "Bob@X.com", Password: "pw1"}, fa.signUpReq)
	assert.True(t, app.isLoggedIn())
	assert.Equal(t, "(bob)", app.status())
	assert.Contains(t, out.String(), "ok")
	assert.Equal(t, []byte{0, 0, 0}, *handed, "password wiped")
}

func TestSignIn_PicksEmailOrHandle(t *testing.T) {
	stubPassword(t, "pw1")

	fa := &fakeAPI{res: okResponse("bob")}
	app, _ := newTestApp(fa, "bob@x.com\n")
	require.NoError(t, app.SignIn(context.Background()))
	assert.Equal(t, api.SignInRequest{Email: "bob@x.com", Password: "pw1"}, fa.signInReq)

	fa = &fakeAPI{res: okResponse("bob")}
	app, _ = newTestApp(fa, "bob\n")
	require.NoError(t, app.SignIn(context.Background()))
	assert.Equal(t, api.SignInRequest{Handle: "bob", Password: "pw1"}, fa.signInReq)
}

func TestSignIn_ReportsServerMessage(t *testing.T) {
	stubPassword(t, "bad")
	fa := &fakeAPI{err: &api.Error{Status: http.StatusUnauthorized, Message: "Invalid credentials"}}
	app, out := newTestApp(fa, "bob\n")

	err := app.SignIn(context.Background())
	require.Error(t, err)
	assert.False(t, app.isLoggedIn())
	assert.Contains(t, out.String(), "Error: Invalid credentials")
}

func TestMe(t *testing.T) {
	fa := &fakeAPI{user: &api.User{Handle: "bob", Username: "Bob B", Email: "bob@x.com"}}
	app, out := newTestApp(fa, "")

	assert.ErrorIs(t, app.Me(context.Background()), ErrNotSignedIn)

	app.token, app.handle = "tok", "bob"
	require.NoError(t, app.Me(context.Background()))
	assert.Equal(t, "tok", fa.meToken)
	assert.Contains(t, out.String(), "bob (Bob B) <bob@x.com>")
}

func TestMe_ExpiredTokenSignsOut(t *testing.T) {
	fa := &fakeAPI{err: &api.Error{Status: http.StatusUnauthorized, Message: "Token expired"}}
	app, _ := newTestApp(fa, "")
	app.token, app.handle = "tok", "bob"

	require.Error(t, app.Me(context.Background()))
	assert.False(t, app.isLoggedIn())
}

func TestRun_WarnsWhenServerDown(t *testing.T) {
	fa := &fakeAPI{pingErr: errors.New("refused")}
	app, out := newTestApp(fa, "exit\n")

	app.Run(context.Background())
	assert.Contains(t, out.String(), "not reachable")
	assert.Contains(t, out.String(), "Bye!")
}

