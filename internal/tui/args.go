package tui

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/mattn/go-shellwords"
)

var (
	ErrInvalidUTF8   = errors.New("line is not valid UTF-8")
	ErrShellOperator = errors.New("unquoted ; & | < or > is not supported")
)

// SplitArgs splits a shell line into arguments with shell quoting rules:
// quotes group words and may produce empty arguments, and a backslash
// escapes the next character outside single quotes. Environment variables
// and backticks are not expanded.
func SplitArgs(line string) ([]string, error) {
	if !utf8.ValidString(line) {
		return nil, ErrInvalidUTF8
	}
	p := shellwords.NewParser()
	args, err := p.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("split %q: %w", line, err)
	}
	if p.Position >= 0 {
		return nil, ErrShellOperator
	}
	return args, nil
}
