package internal

import (
	"fmt"
	"io"
	"strings"
)

func Logf(w io.Writer, prefix, scope string, format string, a ...any) {
	parts := []string{}
	if prefix != "" {
		parts = append(parts, prefix)
	}
	if scope != "" {
		parts = append(parts, scope+":")
	}
	parts = append(parts, fmt.Sprintf(format, a...))
	fmt.Fprintln(w, strings.Join(parts, " "))
}
