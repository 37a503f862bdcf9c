package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var (
	ErrEmptyPassword = errors.New("missing password from stdin")
)

// Password reads a password from stdin. When stdin is a terminal the
// prompt is written to stderr and echo is disabled, otherwise the first
// line of stdin is used as-is.
func Password(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprintf(os.Stderr, "%v: ", label)
		buf, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return nonEmpty(string(buf))
	}
	return firstLine(os.Stdin)
}

func firstLine(in io.Reader) (string, error) {
	sc := bufio.NewScanner(in)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", ErrEmptyPassword
	}
	return nonEmpty(strings.TrimRight(sc.Text(), "\r"))
}

func nonEmpty(password string) (string, error) {
	if len(password) == 0 {
		return "", ErrEmptyPassword
	}
	return password, nil
}
