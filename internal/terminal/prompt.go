package terminal

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirmer asks yes/no questions on a terminal. With AssumeYes every
// question is answered yes without prompting.
type Confirmer struct {
	AssumeYes bool

	in  *bufio.Reader
	out io.Writer
}

func NewConfirmer(in io.Reader, out io.Writer, assumeYes bool) *Confirmer {
	return &Confirmer{AssumeYes: assumeYes, in: bufio.NewReader(in), out: out}
}

func (c *Confirmer) Confirm(message string) bool {
	if c.AssumeYes {
		return true
	}

	fmt.Fprintf(c.out, "%s [y/N] ", message)
	answer, err := c.in.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
