package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rotisserie/eris"
)

// ErrCancelled is returned by a Prompter when the user interrupts input or
// closes stdin.
var ErrCancelled = eris.New("console: input cancelled")

// Prompter reads one line of user input per call.
type Prompter interface {
	Ask(prompt string) (string, error)
	Close() error
}

type readlinePrompter struct {
	rl *readline.Instance
}

// NewReadline returns a Prompter backed by readline with history stored in
// historyFile. An empty historyFile uses ~/.analyst-cli/history.
func NewReadline(historyFile string) (Prompter, error) {
	if historyFile == "" {
		home, _ := os.UserHomeDir()
		historyFile = filepath.Join(home, ".analyst-cli", "history")
	}
	_ = os.MkdirAll(filepath.Dir(historyFile), 0o755)

	rl, err := readline.NewEx(&readline.Config{
		HistoryFile:     historyFile,
		HistoryLimit:    500,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, eris.Wrap(err, "console: init readline")
	}
	return &readlinePrompter{rl: rl}, nil
}

func (p *readlinePrompter) Ask(prompt string) (string, error) {
	p.rl.SetPrompt(prompt)
	line, err := p.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return "", ErrCancelled
	}
	if err != nil {
		return "", eris.Wrap(err, "console: read line")
	}
	return strings.TrimSpace(line), nil
}

func (p *readlinePrompter) Close() error {
	return p.rl.Close()
}

type linePrompter struct {
	sc  *bufio.Scanner
	out io.Writer
}

// NewLinePrompter returns a Prompter reading lines from r and echoing
// prompts to out. It is used when stdin is not a terminal.
func NewLinePrompter(r io.Reader, out io.Writer) Prompter {
	return &linePrompter{sc: bufio.NewScanner(r), out: out}
}

func (p *linePrompter) Ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", eris.Wrap(err, "console: read line")
		}
		return "", ErrCancelled
	}
	return strings.TrimSpace(p.sc.Text()), nil
}

func (p *linePrompter) Close() error { return nil }

// confirm asks a y/n question. Anything starting with y is yes.
func confirm(in Prompter, prompt string) bool {
	answer, err := in.Ask(prompt + " (y/n): ")
	if err != nil {
		return false
	}
	return strings.HasPrefix(strings.ToLower(answer), "y")
}

// askInt asks for a number until one is entered. Empty input returns ok=false.
func askInt(in Prompter, out *Printer, prompt string) (n int, ok bool, err error) {
	for {
		answer, err := in.Ask(prompt)
		if err != nil {
			return 0, false, err
		}
		if answer == "" {
			return 0, false, nil
		}
		n, convErr := strconv.Atoi(answer)
		if convErr == nil {
			return n, true, nil
		}
		out.Warn(fmt.Sprintf("Invalid input %q. Please enter a number.", answer))
	}
}

// parseIndexes parses comma-separated 1-based indexes into names. Entries
// that are not numbers or are out of range are skipped, as are repeats.
func parseIndexes(input string, names []string) []string {
	var out []string
	seen := map[int]bool{}
	for _, part := range strings.Split(input, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || i < 1 || i > len(names) || seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, names[i-1])
	}
	return out
}
