package session_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/andrebq/gatepass/internal/testutil"
	"github.com/andrebq/gatepass/session"
	"github.com/stretchr/testify/require"
)

var kinds = []string{session.KindMemory, session.KindSQLite, session.KindBolt}

func TestStores(t *testing.T) {
	for _, kind := range kinds {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			st, cleanup := testutil.AcquireStore(ctx, t, kind)
			defer cleanup()

			_, err := st.Get(ctx, "marker")
			require.ErrorIs(t, err, session.ErrNotFound)

			require.NoError(t, st.Set(ctx, "marker", []byte(`{"v":1}`)))
			val, err := st.Get(ctx, "marker")
			require.NoError(t, err)
			require.Equal(t, `{"v":1}`, string(val))

			require.NoError(t, st.Set(ctx, "marker", []byte(`{"v":2}`)))
			val, err = st.Get(ctx, "marker")
			require.NoError(t, err)
			require.Equal(t, `{"v":2}`, string(val))

			require.NoError(t, st.Set(ctx, "other", []byte("x")))
			require.NoError(t, st.Clear(ctx, "marker"))
			_, err = st.Get(ctx, "marker")
			require.ErrorIs(t, err, session.ErrNotFound)
			val, err = st.Get(ctx, "other")
			require.NoError(t, err)
			require.Equal(t, "x", string(val))

			// clearing twice is fine
			require.NoError(t, st.Clear(ctx, "marker"))
		})
	}
}

func TestStoresConcurrentUse(t *testing.T) {
	for _, kind := range kinds {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			st, cleanup := testutil.AcquireStore(ctx, t, kind)
			defer cleanup()

			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					key := fmt.Sprintf("k%d", i)
					if err := st.Set(ctx, key, []byte(key)); err != nil {
						t.Error(err)
					}
				}(i)
			}
			wg.Wait()
			for i := 0; i < 8; i++ {
				key := fmt.Sprintf("k%d", i)
				val, err := st.Get(ctx, key)
				require.NoError(t, err)
				require.Equal(t, key, string(val))
			}
		})
	}
}

func TestPersistentStoresSurviveReopen(t *testing.T) {
	for _, kind := range []string{session.KindSQLite, session.KindBolt} {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), "nested", "session.db")
			st, err := session.Open(ctx, kind, path)
			require.NoError(t, err)
			require.NoError(t, st.Set(ctx, "marker", []byte("kept")))
			require.NoError(t, st.Close())

			st, err = session.Open(ctx, kind, path)
			require.NoError(t, err)
			defer st.Close()
			val, err := st.Get(ctx, "marker")
			require.NoError(t, err)
			require.Equal(t, "kept", string(val))
			_, err = os.Stat(path)
			require.NoError(t, err)
		})
	}
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()
	_, err := session.Open(ctx, "redis", "")
	var unknown session.UnknownKind
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, "redis", unknown.Kind)

	_, err = session.Open(ctx, session.KindSQLite, "")
	require.Error(t, err)
	_, err = session.Open(ctx, session.KindBolt, "")
	require.Error(t, err)
}
