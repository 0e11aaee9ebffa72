package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubExec struct {
	loggedIn bool
	calls    []string
}

func (s *stubExec) isLoggedIn() bool { return s.loggedIn }
func (s *stubExec) SignUp(context.Context) error {
	s.calls = append(s.calls, "signup")
	return nil
}
func (s *stubExec) SignIn(context.Context) error {
	s.calls = append(s.calls, "signin")
	s.loggedIn = true
	return nil
}
func (s *stubExec) Me(context.Context) error {
	s.calls = append(s.calls, "me")
	return nil
}
func (s *stubExec) SignOut(context.Context) error {
	s.calls = append(s.calls, "signout")
	s.loggedIn = false
	return nil
}

func TestRunREPL_Dispatch(t *testing.T) {
	s := &stubExec{}
	var out bytes.Buffer

	runREPL(context.Background(), s, func() string { return "" },
		rdr("help\n\nsignup\nlogin\nhelp\nme\nbogus\nsignout\nexit\nme\n"), &out)

	assert.Equal(t, []string{"signup", "signin", "me", "signout"}, s.calls)
	assert.Contains(t, out.String(), "Available commands: signup, signin, exit")
	assert.Contains(t, out.String(), "Available commands: me, signout, exit")
	assert.Contains(t, out.String(), "Unknown command: bogus")
	assert.Contains(t, out.String(), "Bye!")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	s := &stubExec{}
	var out bytes.Buffer

	runREPL(context.Background(), s, func() string { return "(bob)" }, rdr("me"), &out)

	assert.Equal(t, []string{"me"}, s.calls)
	assert.Contains(t, out.String(), "hk(bob)> ")
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &stubExec{}

	runREPL(ctx, s, func() string { return "" }, rdr("signup\n"), &bytes.Buffer{})
	assert.Empty(t, s.calls)
}
