package local

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/andrebq/gatepass/credential"
	"github.com/andrebq/gatepass/internal/cmdflags"
	"github.com/andrebq/gatepass/internal/prompt"
	"github.com/andrebq/gatepass/session"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	var verifier *credential.Verifier
	var store session.Store
	var usersFile string
	var storeKind string
	storePath := defaultStorePath()
	return &cli.Command{
		Name:  "local",
		Usage: "Client-only mode: check passwords against provisioned records and keep a local session",
		Flags: append([]cli.Flag{
			cmdflags.Users(&usersFile),
		}, cmdflags.SessionStore(&storeKind, &storePath)...),
		Before: func(ctx *cli.Context) error {
			records, err := credential.LoadRecordsFile(usersFile)
			if err != nil {
				return err
			}
			store, err = session.Open(ctx.Context, storeKind, storePath)
			if err != nil {
				return err
			}
			verifier = credential.NewVerifier(records, store)
			return nil
		},
		After: func(ctx *cli.Context) error {
			if store == nil {
				return nil
			}
			return store.Close()
		},
		Subcommands: []*cli.Command{
			loginCmd(&verifier),
			whoamiCmd(&verifier),
			logoutCmd(&verifier),
		},
	}
}

func loginCmd(verifier **credential.Verifier) *cli.Command {
	var username string
	return &cli.Command{
		Name:  "login",
		Usage: "Start a local session (password is read from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "username",
				Aliases:     []string{"u", "user"},
				Usage:       "User to log in as",
				Destination: &username,
				Required:    true,
			},
		},
		Action: func(ctx *cli.Context) error {
			password, err := prompt.Password("Password")
			if err != nil {
				return err
			}
			user, err := (*verifier).Login(ctx.Context, username, password)
			switch {
			case errors.Is(err, credential.ErrInvalidCredentials):
				return cli.Exit("Invalid credentials.", 1)
			case errors.Is(err, credential.ErrNotConfigured):
				return cli.Exit("Auth is not configured, provision at least one user record.", 2)
			case err != nil:
				return err
			}
			fmt.Fprintf(ctx.App.Writer, "Signed in as %v (%v)\n", user.Username, roleOrNone(user.Role))
			return nil
		},
	}
}

func whoamiCmd(verifier **credential.Verifier) *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Print the user of the current local session",
		Action: func(ctx *cli.Context) error {
			m, err := (*verifier).Session(ctx.Context)
			if err != nil {
				return err
			}
			if m == nil {
				return cli.Exit("Not signed in.", 1)
			}
			fmt.Fprintf(ctx.App.Writer, "%v (%v) since %v\n", m.User.Username, roleOrNone(m.User.Role), m.UpdatedAt.Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}
}

func logoutCmd(verifier **credential.Verifier) *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Clear the local session",
		Action: func(ctx *cli.Context) error {
			return (*verifier).ClearSession(ctx.Context)
		},
	}
}

func roleOrNone(role string) string {
	if role == "" {
		return "no role"
	}
	return role
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "gatepass", "session.db")
}
