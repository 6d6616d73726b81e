package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrEmptyInput is returned when a required prompt gets a blank answer.
var ErrEmptyInput = errors.New("value is required")

// Terminal access, swapped out in tests.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// readLine reads one line and trims surrounding whitespace. A final line
// without a newline is accepted; EOF with nothing read is an error.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptRequired asks for a single non-blank value such as a username or a
// task title.
func PromptRequired(reader *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprintf(w, "%s: ", label)
	v, err := readLine(reader)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", fmt.Errorf("%s: %w", strings.ToLower(label), ErrEmptyInput)
	}
	return v, nil
}

// PromptOptional asks for a single value that may be skipped with Enter,
// in which case "" is returned.
func PromptOptional(reader *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprintf(w, "%s (Enter to skip): ", label)
	return readLine(reader)
}

// PromptSecret reads a password. On a terminal the input is not echoed;
// when stdin is piped the next line of reader is used instead.
func PromptSecret(reader *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprintf(w, "%s: ", label)

	var secret string
	if fd := int(os.Stdin.Fd()); isTerminal(fd) {
		b, err := readPassword(fd)
		fmt.Fprintln(w)
		if err != nil {
			return "", err
		}
		secret = string(b)
	} else {
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", err
		}
		// passwords keep inner and surrounding spaces; only the line ending goes
		secret = strings.TrimRight(line, "\r\n")
	}

	if secret == "" {
		return "", fmt.Errorf("%s: %w", strings.ToLower(label), ErrEmptyInput)
	}
	return secret, nil
}

// PromptParagraph reads free text over several lines, ending at the first
// blank line or EOF. Nil means the user entered nothing.
func PromptParagraph(reader *bufio.Reader, w io.Writer, label string) (*string, error) {
	fmt.Fprintf(w, "%s (blank line to finish):\n", label)

	var lines []string
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}

	text := strings.TrimSpace(strings.Join(lines, "\n"))
	if text == "" {
		return nil, nil
	}
	return &text, nil
}
