package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/handlekeeper/internal/client/api"
	"github.com/dmitrijs2005/handlekeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// ErrNotSignedIn is returned by commands that need a token.
var ErrNotSignedIn = errors.New("not signed in")

// SignUp prompts for handle, display name, email and password, registers the
// account and keeps the returned token.
func (a *App) SignUp(ctx context.Context) error {
	handle, err := getSimpleText(a.reader, "Enter handle", a.out)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Enter display name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.api.SignUp(ctx, api.SignUpRequest{
		Handle:   handle,
		Username: username,
		Email:    email,
		Password: string(password),
	})
	if err != nil {
		return a.report(err)
	}

	a.remember(res)
	return nil
}

// SignIn prompts for a handle or email and a password. Input containing "@"
// is sent as an email.
func (a *App) SignIn(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter handle or email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	req := api.SignInRequest{Password: string(password)}
	if strings.Contains(id, "@") {
		req.Email = id
	} else {
		req.Handle = id
	}

	res, err := a.api.SignIn(ctx, req)
	if err != nil {
		return a.report(err)
	}

	a.remember(res)
	return nil
}

// Me prints the account bound to the current token.
func (a *App) Me(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.printf("Sign in first.\n")
		return ErrNotSignedIn
	}

	u, err := a.api.Me(ctx, a.token)
	if err != nil {
		if api.StatusOf(err) == http.StatusUnauthorized {
			_ = a.SignOut(ctx)
		}
		return a.report(err)
	}

	a.printf("%s (%s) <%s>\n", u.Handle, u.Username, u.Email)
	return nil
}

// SignOut forgets the token. Tokens are stateless, so nothing is sent.
func (a *App) SignOut(ctx context.Context) error {
	a.token = ""
	a.handle = ""
	return nil
}

func (a *App) remember(res *api.AuthResponse) {
	a.token = res.Token
	a.handle = res.User.Handle
	a.printf("%s\n", res.Message)
}

func (a *App) report(err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		a.printf("Error: %s\n", apiErr.Message)
	} else {
		a.printf("Error: %v\n", err)
	}
	return err
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
