package credential

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadRecords(t *testing.T) {
	yamlDoc := `
users:
  - username: admin
    role: admin
    iterations: 200000
    salt_b64: q0lL7olSqvVg4dN70O4+RQ==
    hash_b64: kUVF13mJYdMnUdfMLKSsvUFcy6C01FGtI+oLfN84yt4=
  - username: viewer
    role: ""
    iterations: 1000
    salt_b64: MDEyMzQ1Njc4OWFiY2RlZg==
    hash_b64: pj4T35D2v4tYmC1sTJ1y5tcMADOdtnQGvuHmyYDQh2g=
`
	jsonDoc := `{"users":[
		{"username":"admin","role":"admin","iterations":200000,
		 "salt_b64":"q0lL7olSqvVg4dN70O4+RQ==","hash_b64":"kUVF13mJYdMnUdfMLKSsvUFcy6C01FGtI+oLfN84yt4="},
		{"username":"viewer","role":"","iterations":1000,
		 "salt_b64":"MDEyMzQ1Njc4OWFiY2RlZg==","hash_b64":"pj4T35D2v4tYmC1sTJ1y5tcMADOdtnQGvuHmyYDQh2g="}
	]}`

	for name, doc := range map[string]string{"yaml": yamlDoc, "json": jsonDoc} {
		records, err := LoadRecords(strings.NewReader(doc))
		require.NoError(t, err, name)
		require.Len(t, records, 2, name)
		require.Equal(t, "admin", records[0].Username)
		require.Equal(t, mustB64(t, demoSalt), records[0].Salt)
		require.Equal(t, mustB64(t, demoHash), records[0].Hash)
		require.Equal(t, "viewer", records[1].Username)
		require.Equal(t, Bytes("0123456789abcdef"), records[1].Salt)
		require.Equal(t, 1000, records[1].Iterations)
	}
}

func TestLoadRecordsErrors(t *testing.T) {
	records, err := LoadRecords(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, records)

	_, err = LoadRecords(strings.NewReader("users:\n  - username: a\n    salt_b64: '***'\n"))
	require.Error(t, err)

	_, err = LoadRecords(strings.NewReader("users:\n  - username: a\n    password: plain\n"))
	require.Error(t, err, "unknown fields must be rejected")

	_, err = LoadRecordsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestEncodeRecords(t *testing.T) {
	rec := fastRecord("alice", "pw", "editor")
	for _, format := range []string{FormatYAML, FormatJSON} {
		var buf bytes.Buffer
		require.NoError(t, EncodeRecords(&buf, format, rec))
		require.Contains(t, buf.String(), "MDEyMzQ1Njc4OWFiY2RlZg==", format)

		path := filepath.Join(t.TempDir(), "users."+format)
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
		records, err := LoadRecordsFile(path)
		require.NoError(t, err)
		require.Equal(t, []Record{rec}, records)
	}
	require.Error(t, EncodeRecords(&bytes.Buffer{}, "toml", rec))
}
