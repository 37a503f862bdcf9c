// Package token issues and verifies self-contained bearer tokens for a
// single administrator identity.
//
// Tokens are compact HS256 JWTs: the header and the payload are encoded
// with base64url and signed together with a server-held secret. Nothing
// is kept on the server side, so a token stays valid until it expires;
// there is no revocation and no refresh. Rotating the secret invalidates
// every outstanding token at once.
//
// The whole service is disabled unless the signing secret and the
// administrator username/password are configured. Callers must check for
// ErrNotConfigured and surface it distinctly from a credentials failure.
//
// Every verification failure (malformed token, wrong signature, expired)
// is reported with its own error so it can be logged, but all of them
// belong to the same outward category, see IsUnauthorized.
package token
