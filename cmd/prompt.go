package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// prompter reads interactive answers from the command's input stream.
// In non-interactive mode every question returns its zero answer.
type prompter struct {
	in             *bufio.Reader
	out            io.Writer
	nonInteractive bool
}

func newPrompter(in io.Reader, out io.Writer, nonInteractive bool) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out, nonInteractive: nonInteractive}
}

func (p *prompter) line(question string) string {
	if p.nonInteractive {
		return ""
	}
	fmt.Fprint(p.out, question)
	text, err := p.in.ReadString('\n')
	if err != nil && text == "" {
		return ""
	}
	return strings.TrimSpace(text)
}

func (p *prompter) yesNo(question string) bool {
	if p.nonInteractive {
		return false
	}
	answer := strings.ToLower(p.line(question + " (y/n): "))
	return answer == "y" || answer == "yes"
}
