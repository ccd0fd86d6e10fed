package service

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter supplies interactive answers. Functions that need user input take
// a Prompter so that unattended runs and tests can script their answers.
type Prompter interface {
	Input(prompt string) (string, error)
	Password(prompt string) (string, error)
}

// TerminalPrompter reads answers from stdin, passwords without echo.
type TerminalPrompter struct {
	reader *bufio.Reader
}

func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{reader: bufio.NewReader(os.Stdin)}
}

// Input implements Prompter
func (p *TerminalPrompter) Input(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Password implements Prompter. Echo is disabled when stdin is a terminal.
func (p *TerminalPrompter) Password(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		pword, err := term.ReadPassword(fd)
		fmt.Println()
		return string(pword), err
	}
	return p.Input("")
}

// ScriptPrompter replays canned answers in order.
type ScriptPrompter struct {
	Answers []string
	next    int
}

func (p *ScriptPrompter) answer() (string, error) {
	if p.next >= len(p.Answers) {
		return "", io.EOF
	}
	a := p.Answers[p.next]
	p.next++
	return a, nil
}

// Input implements Prompter
func (p *ScriptPrompter) Input(string) (string, error) { return p.answer() }

// Password implements Prompter
func (p *ScriptPrompter) Password(string) (string, error) { return p.answer() }
