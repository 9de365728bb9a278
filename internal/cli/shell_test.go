package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellSession(t *testing.T) {
	isolateConfig(t)

	input := strings.Join([]string{
		"add Ada Lovelace",
		"add Alan Turing",
		"update 1 Ada Byron",
		"delete 2",
		"quit",
		"add Never Reached",
	}, "\n")

	res, err := executeRoot(t, input, "shell", "--data-dir", t.TempDir())
	require.NoError(t, err)

	want := strings.Join([]string{
		"snapshot (0 records)",
		"ok",
		"snapshot (1 records)",
		"  #1 Ada Lovelace",
		"ok",
		"snapshot (2 records)",
		"  #1 Ada Lovelace",
		"  #2 Alan Turing",
		"ok",
		"snapshot (2 records)",
		"  #1 Ada Byron",
		"  #2 Alan Turing",
		"ok",
		"snapshot (1 records)",
		"  #1 Ada Byron",
		"",
	}, "\n")
	assert.Equal(t, want, res.out)
}

func TestShellFailuresPublishNothing(t *testing.T) {
	isolateConfig(t)

	input := strings.Join([]string{
		"update 9 No Body",
		"delete 9",
		"close",
		"add Ada Lovelace",
		"close",
	}, "\n")

	res, err := executeRoot(t, input, "shell", "--data-dir", t.TempDir())
	require.NoError(t, err)

	want := strings.Join([]string{
		"snapshot (0 records)",
		"Error [E004]: update failed",
		"Error [E005]: delete failed",
		"ok",
		"Error [E003]: create failed",
		"Error [E001]: close failed",
		"",
	}, "\n")
	assert.Equal(t, want, res.out)
}

func TestShellReopenRepublishes(t *testing.T) {
	isolateConfig(t)

	input := "add Ada Lovelace\nclose\nopen\nlist\n"
	res, err := executeRoot(t, input, "shell", "--data-dir", t.TempDir())
	require.NoError(t, err)

	assert.Contains(t, res.out, "ok\nok\nsnapshot (1 records)\n  #1 Ada Lovelace\n#1 Ada Lovelace\n")
}

func TestShellListWhenClosed(t *testing.T) {
	isolateConfig(t)

	res, err := executeRoot(t, "close\nlist\n", "shell", "--data-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, res.out, "Error [E002]: store is closed")
}

func TestShellBadInput(t *testing.T) {
	isolateConfig(t)

	input := "frobnicate\nadd OnlyOne\nupdate x A B\n\nhelp\n"
	res, err := executeRoot(t, input, "shell", "--data-dir", t.TempDir())
	require.NoError(t, err)

	assert.Contains(t, res.out, `unknown command "frobnicate"`)
	assert.Contains(t, res.out, "usage: add <first> <last>")
	assert.Contains(t, res.out, `invalid id "x"`)
	assert.Contains(t, res.out, "Commands:")
}

func TestShellJSON(t *testing.T) {
	isolateConfig(t)

	res, err := executeRoot(t, "add Ada Lovelace\n", "shell", "--data-dir", t.TempDir(), "--format", "json")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(res.out), "\n")
	require.Len(t, lines, 3)
	assert.JSONEq(t, `{"status":"ok","data":[]}`, lines[0])
	assert.JSONEq(t, `{"status":"ok","data":{"op":"create","ok":true}}`, lines[1])
	assert.JSONEq(t, `{"status":"ok","data":[{"id":1,"first_name":"Ada","last_name":"Lovelace"}]}`, lines[2])
}

func TestShellOpenFailure(t *testing.T) {
	isolateConfig(t)

	_, err := executeRoot(t, "", "shell", "--database", "/no/such/dir/people.db")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestShellQuotedNames(t *testing.T) {
	isolateConfig(t)

	input := "add \"Mary Ann\" Evans\nupdate 1 'Mary Ann' \"Cross Evans\"\n"
	res, err := executeRoot(t, input, "shell", "--data-dir", t.TempDir())
	require.NoError(t, err)

	assert.Contains(t, res.out, "  #1 Mary Ann Evans\n")
	assert.Contains(t, res.out, "  #1 Mary Ann Cross Evans\n")
}

func TestShellUnterminatedQuote(t *testing.T) {
	isolateConfig(t)

	res, err := executeRoot(t, "add \"Mary Ann Evans\n", "shell", "--data-dir", t.TempDir())
	require.NoError(t, err)

	assert.Contains(t, res.out, "Error [E006]: cannot parse")
	assert.NotContains(t, res.out, "snapshot (1 records)")
}
