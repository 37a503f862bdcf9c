package credential

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

type (
	// Bytes is a byte slice that serializes as standard base64 text.
	Bytes []byte

	Record struct {
		Username   string `json:"username" yaml:"username"`
		Role       string `json:"role" yaml:"role"`
		Iterations int    `json:"iterations" yaml:"iterations"`
		Salt       Bytes  `json:"salt_b64" yaml:"salt_b64"`
		Hash       Bytes  `json:"hash_b64" yaml:"hash_b64"`
	}

	recordFile struct {
		Users []Record `json:"users" yaml:"users"`
	}
)

func (b Bytes) MarshalText() ([]byte, error) {
	out := make([]byte, base64.StdEncoding.EncodedLen(len(b)))
	base64.StdEncoding.Encode(out, b)
	return out, nil
}

func (b *Bytes) UnmarshalText(text []byte) error {
	buf := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(buf, text)
	if err != nil {
		return fmt.Errorf("credential: invalid base64 value, cause %w", err)
	}
	*b = buf[:n]
	return nil
}

// incomplete returns why r cannot be used to verify a password, or "".
func (r Record) incomplete() string {
	switch {
	case r.Iterations <= 0:
		return "missing iterations"
	case len(r.Salt) == 0:
		return "missing salt"
	case len(r.Hash) == 0:
		return "missing hash"
	}
	return ""
}

// LoadRecords reads a document of the form {users: [...]}. Both YAML and
// JSON are accepted. Record order is preserved.
func LoadRecords(in io.Reader) ([]Record, error) {
	var f recordFile
	dec := yaml.NewDecoder(in)
	dec.KnownFields(true)
	err := dec.Decode(&f)
	if err == io.EOF {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("credential: unable to parse records, cause %w", err)
	}
	return f.Users, nil
}

func LoadRecordsFile(path string) ([]Record, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("credential: unable to open %v, cause %w", path, err)
	}
	defer fd.Close()
	return LoadRecords(fd)
}

// EncodeRecords writes records in a form LoadRecords understands.
func EncodeRecords(out io.Writer, format string, records ...Record) error {
	f := recordFile{Users: records}
	switch format {
	case "", FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	default:
		return fmt.Errorf("credential: unknown format %q", format)
	}
}
