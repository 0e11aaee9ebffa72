package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/handlekeeper/internal/client/api"
	"github.com/dmitrijs2005/handlekeeper/internal/client/config"
)

// authAPI is the part of api.Client the commands use.
type authAPI interface {
	SignUp(ctx context.Context, req api.SignUpRequest) (*api.AuthResponse, error)
	SignIn(ctx context.Context, req api.SignInRequest) (*api.AuthResponse, error)
	Me(ctx context.Context, token string) (*api.User, error)
	Ping(ctx context.Context) error
}

type App struct {
	config *config.Config
	api    authAPI
	reader *bufio.Reader
	out    io.Writer

	token  string
	handle string
}

func NewApp(c *config.Config) (*App, error) {
	return &App{
		config: c,
		api:    api.NewClient(c.ServerURL, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}

func (a *App) status() string {
	if a.handle == "" {
		return ""
	}
	return "(" + a.handle + ")"
}

// Run checks the server and starts the REPL. It returns when the user exits
// or stdin closes.
func (a *App) Run(ctx context.Context) {
	if err := a.api.Ping(ctx); err != nil {
		a.printf("Server %s is not reachable: %v\n", a.config.ServerURL, err)
	}
	a.printf("Welcome to handlekeeper CLI (type 'help' for commands)\n")
	runREPL(ctx, a, a.status, a.reader, a.out)
}
