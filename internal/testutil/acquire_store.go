package testutil

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/andrebq/gatepass/session"
)

type (
	TestLog interface {
		Fatal(...interface{})
		Log(...interface{})
	}

	// Clock is a manually driven time source.
	Clock struct {
		T time.Time
	}
)

func NewClock() *Clock {
	return &Clock{T: time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	return c.T
}

func (c *Clock) Advance(d time.Duration) {
	c.T = c.T.Add(d)
}

// AcquireStore opens a session store of the given kind backed by a
// temporary directory. The cleanup func closes the store and removes
// the directory.
func AcquireStore(ctx context.Context, t TestLog, kind string) (session.Store, func()) {
	dir, err := os.MkdirTemp("", "gatepass-tests")
	if err != nil {
		t.Fatal(err)
	}
	st, err := session.Open(ctx, kind, filepath.Join(dir, kind, "session.db"))
	if err != nil {
		os.RemoveAll(dir)
		t.Fatal(err)
	}
	return st, func() {
		err := st.Close()
		if err != nil {
			t.Log("unable to close session store", err)
		}
		err = os.RemoveAll(dir)
		if err != nil {
			t.Log("unable to cleanup temp dir", dir)
		}
	}
}
