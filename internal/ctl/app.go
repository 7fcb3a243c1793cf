// Package ctl implements florifyctl, an administrative command line that
// talks to the data loader directly instead of going through the HTTP API.
package ctl

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/florify/florify/internal/common"
	"github.com/florify/florify/internal/netx"
	"github.com/florify/florify/internal/server/models"
)

// Loader is the part of the data loader florifyctl drives.
type Loader interface {
	Register(ctx context.Context, u models.NewUser) (*models.User, error)
	CreateSession(ctx context.Context, email, password string) (string, error)
	DestroySession(ctx context.Context, token string) error
	PhotoUploadURL(ctx context.Context, plantID int64) (string, string, error)
	DiscardPhotoUpload(ctx context.Context, plantID int64, key string) error
}

// ErrUsage is returned for unknown commands and malformed flags.
var ErrUsage = errors.New("usage error")

const usage = `usage: florifyctl [server flags] <command> [flags]

commands:
  register -email <email> [-phone <phone>]   create a user (password is prompted)
  login    -email <email>                    print a new session token
  logout   -token <token>                    destroy a session
  photo    -plant <id> -file <path>          upload a plant photo
`

type App struct {
	loader Loader
	out    io.Writer
	http   *http.Client
}

func NewApp(loader Loader, out io.Writer) *App {
	return &App{loader: loader, out: out, http: http.DefaultClient}
}

type command func(ctx context.Context, args []string) error

func (a *App) commands() map[string]command {
	return map[string]command{
		"register": a.register,
		"login":    a.login,
		"logout":   a.logout,
		"photo":    a.photo,
	}
}

// Run locates the command in args and runs it with the arguments that
// follow it. Anything before the command belongs to the server config.
func (a *App) Run(ctx context.Context, args []string) error {
	cmds := a.commands()
	for i, arg := range args {
		if cmd, ok := cmds[arg]; ok {
			return cmd(ctx, args[i+1:])
		}
	}
	fmt.Fprint(a.out, usage)
	return ErrUsage
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func (a *App) register(ctx context.Context, args []string) error {
	fs := a.flagSet("register")
	email := fs.String("email", "", "user email")
	phone := fs.String("phone", "", "user phone (optional)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	pw, err := getPassword(a.out, "Enter password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	in := models.NewUser{Email: strings.TrimSpace(*email), Password: string(pw)}
	if *phone != "" {
		in.Phone = phone
	}

	u, err := a.loader.Register(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "registered user %d (%s)\n", u.ID, u.Email)
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := a.flagSet("login")
	email := fs.String("email", "", "user email")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	pw, err := getPassword(a.out, "Enter password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	token, err := a.loader.CreateSession(ctx, strings.TrimSpace(*email), string(pw))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, token)
	return nil
}

func (a *App) logout(ctx context.Context, args []string) error {
	fs := a.flagSet("logout")
	token := fs.String("token", "", "session token")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if *token == "" {
		return fmt.Errorf("%w: -token is required", ErrUsage)
	}

	if err := a.loader.DestroySession(ctx, *token); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "session destroyed")
	return nil
}

func (a *App) photo(ctx context.Context, args []string) error {
	fs := a.flagSet("photo")
	plantID := fs.Int64("plant", 0, "plant id")
	path := fs.String("file", "", "photo file")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if *plantID <= 0 || *path == "" {
		return fmt.Errorf("%w: -plant and -file are required", ErrUsage)
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		return err
	}

	key, url, err := a.loader.PhotoUploadURL(ctx, *plantID)
	if err != nil {
		return err
	}
	if err := netx.UploadPhoto(ctx, a.http, url, data); err != nil {
		if dErr := a.loader.DiscardPhotoUpload(context.WithoutCancel(ctx), *plantID, key); dErr != nil {
			return errors.Join(err, fmt.Errorf("discarding photo key: %w", dErr))
		}
		return err
	}

	fmt.Fprintf(a.out, "uploaded %s\n", key)
	return nil
}
