// Package cli implements the authkeeper terminal client commands.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/authkeeper/internal/client/api"
	"github.com/dmitrijs2005/authkeeper/internal/common"
)

const usage = `usage: client [-a url] [-t seconds] [-c file] <command>

commands:
  signup                 create an account (prompts for email and password)
  login                  obtain a token pair (prompts for email and password)
  refresh <refreshToken> exchange a refresh token for a new pair
  me <accessToken>       show the identity behind an access token`

// ErrUsage is returned for an unknown command or missing argument.
var ErrUsage = errors.New("invalid usage")

// Service is the subset of the API client the commands use.
type Service interface {
	Signup(ctx context.Context, email, password string) (*api.TokenPair, error)
	Login(ctx context.Context, email, password string) (*api.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*api.TokenPair, error)
	Me(ctx context.Context, accessToken string) (*api.Identity, error)
}

type App struct {
	api    Service
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(svc Service, in io.Reader, out io.Writer) *App {
	return &App{api: svc, reader: bufio.NewReader(in), out: out}
}

// Run executes one command and prints its JSON result.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, usage)
		return ErrUsage
	}

	var (
		result any
		err    error
	)

	switch args[0] {
	case "signup":
		result, err = a.withCredentials(ctx, a.api.Signup)
	case "login":
		result, err = a.withCredentials(ctx, a.api.Login)
	case "refresh":
		if len(args) < 2 {
			return fmt.Errorf("%w: refresh needs a token", ErrUsage)
		}
		result, err = a.api.Refresh(ctx, args[1])
	case "me":
		if len(args) < 2 {
			return fmt.Errorf("%w: me needs an access token", ErrUsage)
		}
		result, err = a.api.Me(ctx, args[1])
	case "help", "-h", "--help":
		fmt.Fprintln(a.out, usage)
		return nil
	default:
		fmt.Fprintln(a.out, usage)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func (a *App) withCredentials(ctx context.Context, call func(ctx context.Context, email, password string) (*api.TokenPair, error)) (*api.TokenPair, error) {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return nil, err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(password)

	return call(ctx, email, string(password))
}
