package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/skincheck/internal/client/gateway"
	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	err   error
}

func (f *fakeExec) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(_ context.Context, email string) error {
	f.loggedIn = true
	return f.record("login:" + email)
}
func (f *fakeExec) Signup(context.Context, bool) error { return f.record("signup") }
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) WhoAmI(context.Context) error { return f.record("whoami") }
func (f *fakeExec) Scan(_ context.Context, path, area string) error {
	return f.record("scan:" + path + ":" + area)
}
func (f *fakeExec) History(_ context.Context, o HistoryOptions) error {
	switch {
	case o.Refresh:
		return f.record("refresh")
	case o.Filter != "":
		return f.record("filter:" + o.Filter)
	case o.Sort != "":
		return f.record("sort:" + o.Sort)
	}
	return f.record("history")
}
func (f *fakeExec) More(context.Context) error { return f.record("more") }
func (f *fakeExec) Show(_ context.Context, id string) error { return f.record("show:" + id) }
func (f *fakeExec) Delete(_ context.Context, id string) error { return f.record("delete:" + id) }
func (f *fakeExec) Stats(context.Context) error { return f.record("stats") }
func (f *fakeExec) Export(_ context.Context, path, format string, _ HistoryOptions) error {
	return f.record("export:" + path + ":" + format)
}

func runLines(t *testing.T, f *fakeExec, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), f, func() string { return "" }, reader, &out)
	return out.String()
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	f := &fakeExec{}
	out := runLines(t, f,
		"help",
		"",
		"login ann@example.com",
		"help",
		"scan mole.jpg back",
		"h",
		"more",
		"filter pending",
		"sort confidence",
		"refresh",
		"show 3",
		"delete 4",
		"stats",
		"export out.json",
		"whoami",
		"logout",
		"signup",
		"exit",
		"stats",
	)

	assert.Equal(t, []string{
		"login:ann@example.com",
		"scan:mole.jpg:back",
		"history",
		"more",
		"filter:pending",
		"sort:confidence",
		"refresh",
		"show:3",
		"delete:4",
		"stats",
		"export:out.json:",
		"whoami",
		"logout",
		"signup",
	}, f.calls)
	assert.Contains(t, out, helpSignedOut)
	assert.Contains(t, out, "scan <file> [area]")
	assert.Contains(t, out, "Bye!")
}

func TestRunREPL_UsageAndUnknown(t *testing.T) {
	f := &fakeExec{loggedIn: true}
	out := runLines(t, f, "show", "delete", "filter", "sort", "export", "dance")

	assert.Empty(t, f.calls)
	assert.Contains(t, out, "Usage: show <id>")
	assert.Contains(t, out, "Usage: delete <id>")
	assert.Contains(t, out, "Usage: filter")
	assert.Contains(t, out, "Usage: sort")
	assert.Contains(t, out, "Usage: export")
	assert.Contains(t, out, "Unknown command: dance")
}

func TestRunREPL_PrintsErrorsAndContinues(t *testing.T) {
	f := &fakeExec{err: &gateway.NetworkError{Op: "GET /predict/history", Err: errors.New("dial tcp: refused")}}
	out := runLines(t, f, "history", "stats")

	assert.Equal(t, []string{"history", "stats"}, f.calls)
	assert.Equal(t, 2, strings.Count(out, "Network error."))
}

func TestRunREPL_StopsOnCanceledContext(t *testing.T) {
	f := &fakeExec{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	runREPL(ctx, f, func() string { return "" }, bufio.NewReader(strings.NewReader("stats\n")), &out)
	assert.Empty(t, f.calls)
}
