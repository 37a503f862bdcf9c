package cmdflags

import (
	"github.com/andrebq/gatepass/session"
	"github.com/urfave/cli/v2"
)

func Bind(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "bind",
		Usage:       "Address to bind for incoming requests",
		Destination: out,
		Value:       *out,
	}
}

// EnvVarName declares a flag holding the *name* of an environment
// variable. Secrets themselves are never accepted as arguments.
func EnvVarName(name, what string, out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        name,
		Usage:       "Name of the environment variable that holds the " + what + ". The value itself should not be passed as an argument",
		Value:       *out,
		Destination: out,
	}
}

func SessionStore(kind, path *string) []cli.Flag {
	if len(*kind) == 0 {
		*kind = session.KindBolt
	}
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "store",
			Usage:       "Where the local session is kept (memory, sqlite or bolt)",
			Value:       *kind,
			Destination: kind,
		},
		&cli.StringFlag{
			Name:        "store-path",
			Usage:       "File backing the session store (ignored for memory)",
			Value:       *path,
			Destination: path,
		},
	}
}

func Users(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "users",
		Usage:       "Path to the YAML/JSON file with provisioned user records",
		Required:    true,
		Destination: out,
		Value:       *out,
	}
}
