package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateConfig points the user config dir at a fresh temp dir so no real
// config file is picked up.
func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return dir
}

type execResult struct {
	out string
	err string
}

// executeRoot runs the full command tree with the given stdin.
func executeRoot(t *testing.T, stdin string, args ...string) (execResult, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return execResult{out: out.String(), err: errOut.String()}, err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "roster", cmd.Use)
	assert.Contains(t, cmd.Long, "SQLite")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"list", "add", "update", "delete", "shell", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)

	for _, name := range []string{"data-dir", "database", "driver"} {
		f := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, "", f.DefValue, name)
	}
}

func TestInvalidFormat(t *testing.T) {
	isolateConfig(t)

	_, err := executeRoot(t, "", "list", "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestInvalidDriver(t *testing.T) {
	isolateConfig(t)

	_, err := executeRoot(t, "", "list", "--driver", "postgres", "--data-dir", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid driver "postgres"`)
}

func TestConfigFileIsLoaded(t *testing.T) {
	isolateConfig(t)
	dataDir := t.TempDir()

	cfgPath := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"data_dir: "+dataDir+"\ndatabase: from-config.db\ndriver: sqlite\n"), 0600))

	_, err := executeRoot(t, "", "add", "Ada", "Lovelace", "--config", cfgPath)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dataDir, "from-config.db"))
}

func TestConfigFileFromDefaultPath(t *testing.T) {
	home := isolateConfig(t)
	dataDir := t.TempDir()

	cfgDir := filepath.Join(home, "roster")
	require.NoError(t, os.MkdirAll(cfgDir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(
		"data_dir: "+dataDir+"\ndatabase: default-path.db\n"), 0600))

	_, err := executeRoot(t, "", "list")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dataDir, "default-path.db"))
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	isolateConfig(t)
	dataDir := t.TempDir()

	cfgPath := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("database: from-config.db\n"), 0600))

	_, err := executeRoot(t, "", "list", "--config", cfgPath, "--data-dir", dataDir, "--database", "from-flag.db")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dataDir, "from-flag.db"))
	assert.NoFileExists(t, filepath.Join(dataDir, "from-config.db"))
}

func TestInvalidConfigFile(t *testing.T) {
	isolateConfig(t)

	cfgPath := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log_format: xml\n"), 0600))

	_, err := executeRoot(t, "", "list", "--config", cfgPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestVerboseEnablesDebugLogs(t *testing.T) {
	isolateConfig(t)

	res, err := executeRoot(t, "", "add", "Ada", "Lovelace", "--data-dir", t.TempDir(), "-v")
	require.NoError(t, err)
	assert.Contains(t, res.err, "record created")
}
