package serve

import (
	"errors"
	"net/http"
	"net/url"
	"os"

	"github.com/andrebq/gatepass/internal/boomproxy"
	"github.com/andrebq/gatepass/internal/cmdflags"
	"github.com/andrebq/gatepass/internal/httpserver"
	"github.com/andrebq/gatepass/internal/logutil"
	"github.com/andrebq/gatepass/token"
	"github.com/andrebq/gatepass/token/api"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	bindAddr := "localhost:3000"
	ttl := token.DefaultTTL
	upstream := ""
	envNames := token.DefaultEnvNames()
	upstreamKeyEnvVar := boomproxy.UpstreamKeyEnvVar
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the token service (/api/login, /api/me and the optional /api/chat proxy)",
		Flags: []cli.Flag{
			cmdflags.Bind(&bindAddr),
			&cli.DurationFlag{
				Name:        "ttl",
				Usage:       "How long issued tokens stay valid",
				Value:       ttl,
				Destination: &ttl,
			},
			&cli.StringFlag{
				Name:        "upstream",
				Usage:       "Chat completion endpoint that authenticated POST /api/chat requests are forwarded to (empty disables the proxy)",
				Value:       upstream,
				Destination: &upstream,
			},
			cmdflags.EnvVarName("token-secret-envvar", "token signing secret", &envNames.Secret),
			cmdflags.EnvVarName("admin-username-envvar", "administrator username", &envNames.AdminUsername),
			cmdflags.EnvVarName("admin-password-envvar", "administrator password", &envNames.AdminPassword),
			cmdflags.EnvVarName("upstream-key-envvar", "upstream api key", &upstreamKeyEnvVar),
		},
		Action: func(ctx *cli.Context) error {
			log := logutil.GetOrDefault(ctx.Context)
			if ttl <= 0 {
				return errors.New("ttl must be positive")
			}
			cfg := token.ConfigFromEnv(envNames, os.Getenv, os.Setenv)
			cfg.TTL = ttl
			tokens, err := token.New(cfg)
			if errors.Is(err, token.ErrNotConfigured) {
				// keep serving so clients get a clear 501 instead of a refused connection
				log.Warn().
					Str("secret_envvar", envNames.Secret).
					Str("username_envvar", envNames.AdminUsername).
					Str("password_envvar", envNames.AdminPassword).
					Msg("Token service disabled, secrets missing from environment")
			} else if err != nil {
				return err
			}

			var chat http.Handler
			if upstream != "" {
				upstreamURL, err := url.Parse(upstream)
				if err != nil {
					return err
				}
				if upstreamURL.Scheme == "" || upstreamURL.Host == "" {
					return errors.New("upstream must be an absolute url")
				}
				apiKey := boomproxy.KeyFromEnv(upstreamKeyEnvVar, os.Getenv, os.Setenv)
				if apiKey == "" {
					log.Warn().Str("envvar", upstreamKeyEnvVar).Msg("Upstream api key is empty, requests will be forwarded without credentials")
				}
				chat = boomproxy.AsHandler(ctx.Context, upstreamURL, apiKey)
			}

			log.Info().Dur("ttl", ttl).Bool("auth.enabled", tokens != nil).Bool("proxy.enabled", chat != nil).Msg("Starting token service")
			return httpserver.Serve(ctx.Context, bindAddr, api.AsHandler(ctx.Context, tokens, chat))
		},
	}
}
