package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls  []string
	runs   [][]string
	mobile string
	runErr error
}

func (f *fakeExec) isLoggedIn(context.Context) bool { return f.loggedIn }

func (f *fakeExec) Login(_ context.Context, mobile string) error {
	f.calls = append(f.calls, "login")
	f.mobile = mobile
	f.loggedIn = true
	return nil
}

func (f *fakeExec) Logout(context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

func (f *fakeExec) Run(_ context.Context, args []string) error {
	f.calls = append(f.calls, "run")
	f.runs = append(f.runs, args)
	return f.runErr
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	out := capturePrintln(t)

	input := strings.Join([]string{
		"help",
		"login 9990001111",
		"help",
		"",
		"products list -p 2",
		"categories status c1 inactive",
		"logout",
		"exit",
		"products list",
	}, "\n")
	exec := &fakeExec{}

	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{"login", "run", "run", "logout"}, exec.calls)
	assert.Equal(t, "9990001111", exec.mobile)
	assert.Equal(t, [][]string{
		{"products", "list", "-p", "2"},
		{"categories", "status", "c1", "inactive"},
	}, exec.runs)

	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "Available commands: login [mobile], whoami, exit")
	assert.Contains(t, joined, "Available commands: categories, products, farmers")
	assert.Contains(t, joined, "farmdash> status > ")
	assert.Equal(t, "Bye!", (*out)[len(*out)-1])
}

func TestRunREPL_PrintsErrorsAndContinues(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{loggedIn: true, runErr: errors.New("boom")}
	input := "farmers list\nfarmers list\n"

	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader(input)))

	require.Len(t, exec.runs, 2)
	errLines := 0
	for _, l := range *out {
		if strings.Contains(l, "error: boom") {
			errLines++
		}
	}
	assert.Equal(t, 2, errLines)
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("whoami")))

	assert.Equal(t, [][]string{{"whoami"}}, exec.runs)
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("")))

	assert.Empty(t, exec.calls)
}
