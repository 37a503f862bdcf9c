package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andrebq/gatepass/identity"
	"github.com/andrebq/gatepass/internal/logutil"
	"github.com/andrebq/gatepass/session"
)

// MarkerKey is the store key the session marker lives under.
const MarkerKey = "gatepass_auth_static_v1"

var decoySalt [SaltSize]byte

type (
	// Marker records a past successful local login. It proves nothing
	// on its own.
	Marker struct {
		User      identity.User `json:"user"`
		UpdatedAt time.Time     `json:"updated_at"`
	}

	Verifier struct {
		records []Record
		store   session.Store
		now     func() time.Time
	}

	Option func(*Verifier)
)

func WithClock(now func() time.Time) Option {
	return func(v *Verifier) {
		v.now = now
	}
}

// NewVerifier copies records, later changes to the slice are not seen.
func NewVerifier(records []Record, store session.Store, opts ...Option) *Verifier {
	v := &Verifier{
		records: append([]Record(nil), records...),
		store:   store,
		now:     time.Now,
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Login checks password against the record for username and, on
// success, persists a session marker. Unknown users and wrong passwords
// both yield ErrInvalidCredentials.
func (v *Verifier) Login(ctx context.Context, username, password string) (identity.User, error) {
	log := logutil.GetOrDefault(ctx)
	if len(v.records) == 0 {
		return identity.User{}, ErrNotConfigured
	}
	rec, found := v.lookup(username)
	if !found {
		// burn the same work a real record would cost
		DeriveKey(password, decoySalt[:], v.records[0].Iterations)
		log.Debug().Msg("Unknown user")
		return identity.User{}, ErrInvalidCredentials
	}
	if reason := rec.incomplete(); reason != "" {
		return identity.User{}, InvalidRecord{Username: rec.Username, Reason: reason}
	}
	derived := DeriveKey(password, rec.Salt, rec.Iterations)
	if !equalBytes(derived, rec.Hash) {
		log.Debug().Msg("Password mismatch")
		return identity.User{}, ErrInvalidCredentials
	}
	user := identity.User{Username: rec.Username, Role: rec.Role}
	buf, err := json.Marshal(Marker{User: user, UpdatedAt: v.now().UTC()})
	if err != nil {
		return identity.User{}, err
	}
	if err := v.store.Set(ctx, MarkerKey, buf); err != nil {
		return identity.User{}, fmt.Errorf("credential: unable to persist session, cause %w", err)
	}
	log.Info().Str("auth.user", user.Username).Msg("Local session started")
	return user, nil
}

// Session returns the current marker or nil when there is none. A
// marker that cannot be decoded counts as no session.
func (v *Verifier) Session(ctx context.Context) (*Marker, error) {
	buf, err := v.store.Get(ctx, MarkerKey)
	if errors.Is(err, session.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("credential: unable to read session, cause %w", err)
	}
	var m Marker
	if err := json.Unmarshal(buf, &m); err != nil || m.User.Username == "" {
		log := logutil.GetOrDefault(ctx)
		log.Warn().Err(err).Msg("Ignoring unreadable session marker")
		return nil, nil
	}
	return &m, nil
}

func (v *Verifier) ClearSession(ctx context.Context) error {
	if err := v.store.Clear(ctx, MarkerKey); err != nil {
		return fmt.Errorf("credential: unable to clear session, cause %w", err)
	}
	return nil
}

func (v *Verifier) lookup(username string) (Record, bool) {
	for _, r := range v.records {
		if r.Username == username {
			return r, true
		}
	}
	return Record{}, false
}
