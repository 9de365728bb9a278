package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"

	"github.com/roach88/roster/internal/notify"
	"github.com/roach88/roster/internal/record"
	"github.com/roach88/roster/internal/recordstore"
)

const shellPrompt = "roster> "

// shellCommands lists the words the shell understands, for help and
// tab completion.
var shellCommands = []string{"add", "update", "delete", "list", "open", "close", "help", "quit", "exit"}

const shellHelp = `Commands:
  add <first> <last>          create a record
  update <id> <first> <last>  replace the names of a record
  delete <id>                 delete a record
  list                        print the current records
  open                        open the store
  close                       close the store
  help                        show this help
  quit, exit                  leave the shell
Quote names that contain spaces: add "Mary Ann" Evans
Every change prints the snapshot it published.`

// NewShellCommand creates the shell command.
func NewShellCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session on one store",
		Long: `Open the store and read commands interactively. The shell subscribes
to the store before opening it and prints every snapshot the store
publishes, so the effect of each command is visible immediately.

Line editing and history are available when stdin is a terminal.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, rootOpts)
		},
	}
}

// lineReader yields one input line at a time. It returns io.EOF when
// input is exhausted.
type lineReader interface {
	ReadLine() (string, error)
	Close() error
}

type shell struct {
	opts *RootOptions
	f    *OutputFormatter
	rs   *recordstore.RecordStore
	sub  *notify.Subscription[record.Snapshot]
	w    io.Writer
}

func runShell(cmd *cobra.Command, opts *RootOptions) error {
	ctx := cmd.Context()
	f := opts.formatter(cmd)

	rs := newStore(opts)
	sh := &shell{
		opts: opts,
		f:    f,
		rs:   rs,
		sub:  rs.All(),
		w:    cmd.OutOrStdout(),
	}
	defer sh.sub.Unsubscribe()
	defer closeStore(opts, rs)

	if !rs.Open(ctx) {
		return f.Fail(ExitCommandError, ErrCodeOpenFailed,
			fmt.Sprintf("failed to open database %q", opts.settings().Database))
	}
	sh.drain()

	in := sh.newLineReader(cmd)
	defer in.Close()

	for {
		line, err := in.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			fmt.Fprintln(sh.w, "(use quit or Ctrl+D to leave)")
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read input", err)
		}

		if quit := sh.exec(ctx, line); quit {
			return nil
		}
	}
}

// exec runs one command line and reports whether the shell should exit.
func (sh *shell) exec(ctx context.Context, line string) bool {
	fields, err := shellwords.Parse(line)
	if err != nil {
		sh.f.Error(ErrCodeBadArgument, fmt.Sprintf("cannot parse %q: %v", line, err), nil)
		return false
	}
	if len(fields) == 0 {
		return false
	}

	switch name, args := fields[0], fields[1:]; name {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(sh.w, shellHelp)
	case "list":
		if !sh.rs.IsOpen() {
			sh.f.Error(ErrCodeOpenFailed, "store is closed", nil)
			break
		}
		sh.f.Records(sh.rs.Snapshot())
	case "open":
		sh.report(recordstore.OpOpen, ErrCodeOpenFailed, sh.rs.Open(ctx))
	case "close":
		sh.report(recordstore.OpClose, ErrCodeGeneric, sh.rs.Close())
	case "add":
		if len(args) != 2 {
			sh.usage("add <first> <last>")
			break
		}
		sh.report(recordstore.OpCreate, ErrCodeCreateFailed, sh.rs.Create(ctx, args[0], args[1]))
	case "update":
		if len(args) != 3 {
			sh.usage("update <id> <first> <last>")
			break
		}
		id, err := parseID(args[0])
		if err != nil {
			sh.f.Error(ErrCodeBadArgument, err.Error(), nil)
			break
		}
		sh.report(recordstore.OpUpdate, ErrCodeUpdateFailed,
			sh.rs.Update(ctx, renamed(sh.rs, id, args[1], args[2])))
	case "delete":
		if len(args) != 1 {
			sh.usage("delete <id>")
			break
		}
		id, err := parseID(args[0])
		if err != nil {
			sh.f.Error(ErrCodeBadArgument, err.Error(), nil)
			break
		}
		sh.report(recordstore.OpDelete, ErrCodeDeleteFailed, sh.rs.Delete(ctx, record.Record{ID: id}))
	default:
		sh.f.Error(ErrCodeBadArgument, fmt.Sprintf("unknown command %q (try help)", name), nil)
	}

	sh.drain()
	return false
}

// report prints the boolean outcome of a store operation.
func (sh *shell) report(op, code string, ok bool) {
	if !ok {
		sh.f.Error(code, op+" failed", nil)
		return
	}
	if sh.f.Format == "json" {
		sh.f.Success(map[string]any{"op": op, "ok": true})
		return
	}
	fmt.Fprintln(sh.w, "ok")
}

func (sh *shell) usage(syntax string) {
	sh.f.Error(ErrCodeBadArgument, "usage: "+syntax, nil)
}

// drain prints every queued snapshot. The store publishes before an
// operation returns, so a change is always visible here.
func (sh *shell) drain() {
	for {
		snap, ok := sh.sub.TryNext()
		if !ok {
			return
		}
		if sh.f.Format == "json" {
			sh.f.Records(snap)
			continue
		}
		fmt.Fprintf(sh.w, "snapshot (%d records)\n", len(snap))
		for _, r := range snap {
			fmt.Fprintf(sh.w, "  %s\n", r)
		}
	}
}

// newLineReader uses readline when the command reads a terminal and falls
// back to plain line scanning otherwise.
func (sh *shell) newLineReader(cmd *cobra.Command) lineReader {
	in := cmd.InOrStdin()
	if in == os.Stdin && readline.DefaultIsTerminal() {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          shellPrompt,
			HistoryFile:     sh.historyFile(),
			AutoComplete:    shellCompleter(),
			InterruptPrompt: "^C",
			EOFPrompt:       "quit",
			Stdout:          cmd.OutOrStdout(),
			Stderr:          cmd.ErrOrStderr(),
		})
		if err == nil {
			return &readlineReader{rl: rl}
		}
		sh.opts.logger().Warn("line editing unavailable", "error", err)
	}
	return &scanReader{scanner: bufio.NewScanner(in)}
}

// historyFile returns the history path inside the data directory, or ""
// to disable history.
func (sh *shell) historyFile() string {
	dir, err := sh.opts.settings().ResolveDataDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "shell_history")
}

func shellCompleter() *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(shellCommands))
	for _, c := range shellCommands {
		items = append(items, readline.PcItem(c))
	}
	return readline.NewPrefixCompleter(items...)
}

type readlineReader struct {
	rl *readline.Instance
}

func (r *readlineReader) ReadLine() (string, error) { return r.rl.Readline() }
func (r *readlineReader) Close() error              { return r.rl.Close() }

type scanReader struct {
	scanner *bufio.Scanner
}

func (r *scanReader) ReadLine() (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (r *scanReader) Close() error { return nil }
