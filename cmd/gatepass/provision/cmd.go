package provision

import (
	"crypto/rand"
	"os"

	"github.com/andrebq/gatepass/credential"
	"github.com/andrebq/gatepass/internal/logutil"
	"github.com/andrebq/gatepass/internal/prompt"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	var username string
	var role string
	format := credential.FormatYAML
	return &cli.Command{
		Name:  "provision",
		Usage: "Print a user record for the local verifier (password is read from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "username",
				Aliases:     []string{"u", "user"},
				Usage:       "Name of the user to provision",
				Destination: &username,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "role",
				Usage:       "Role stored with the record",
				Destination: &role,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "Output format (yaml or json)",
				Value:       format,
				Destination: &format,
			},
		},
		Action: func(ctx *cli.Context) error {
			password, err := prompt.Password("Password for " + username)
			if err != nil {
				return err
			}
			log := logutil.GetOrDefault(ctx.Context)
			log.Info().Int("iterations", credential.DefaultIterations).Msg("Deriving key, this takes a moment")
			rec, err := credential.Provision(rand.Reader, username, password, role)
			if err != nil {
				return err
			}
			return credential.EncodeRecords(os.Stdout, format, rec)
		},
	}
}
