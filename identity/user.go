// Package identity holds the user record that both the token service and the
// local credential verifier hand back to their callers.
package identity

type (
	// User is the caller-facing view of an authenticated principal.
	User struct {
		Username string `json:"username" yaml:"username"`
		Role     string `json:"role" yaml:"role"`
	}
)

// AdminRole is the only role the token service ever grants.
const AdminRole = "admin"
