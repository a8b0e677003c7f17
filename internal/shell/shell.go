// Package shell implements the interactive command loop of rubox.
package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/jangler/rubox/internal/session"
	"github.com/jangler/rubox/internal/settings"
)

// Shell reads one line at a time and runs one command invocation to
// completion before the next line is accepted.
type Shell struct {
	sess *session.Session
	out  io.Writer
	errw io.Writer
}

// New creates a shell over a session, writing to stdout/stderr.
func New(sess *session.Session) *Shell {
	return &Shell{sess: sess, out: os.Stdout, errw: os.Stderr}
}

func (sh *Shell) prompt() string {
	return "rubox:" + sh.sess.Pwd() + "> "
}

// Run executes the read-eval loop until the session's exit flag
// latches or input ends.
func (sh *Shell) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          sh.prompt(),
		HistoryFile:     filepath.Join(settings.DefaultDir(), "history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for !sh.sess.ExitRequested() {
		rl.SetPrompt(sh.prompt())
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		sh.Dispatch(ctx, line)
	}
	return nil
}

// Dispatch resolves one input line to one command invocation. Failures
// print a diagnostic line; the loop continues.
func (sh *Shell) Dispatch(ctx context.Context, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	if strings.HasPrefix(line, "!") {
		sh.shellEscape(strings.TrimSpace(line[1:]))
		return
	}

	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "cd":
		sh.cmdCd(ctx, args)
	case "pwd":
		fmt.Fprintln(sh.out, sh.sess.Pwd())
	case "ls":
		sh.cmdLs(ctx, args)
	case "get":
		sh.cmdGet(ctx, args)
	case "put":
		sh.cmdPut(ctx, args)
	case "rm":
		sh.cmdRm(ctx, args)
	case "mkdir":
		sh.cmdMkdir(ctx, args)
	case "share":
		sh.cmdShare(ctx, args)
	case "refresh":
		sh.cmdRefresh(args)
	case "lcd":
		sh.cmdLcd(args)
	case "lpwd":
		cwd, _ := os.Getwd()
		fmt.Fprintln(sh.out, cwd)
	case "lls":
		sh.cmdLls(args)
	case "help":
		sh.cmdHelp()
	case "exit", "quit":
		sh.sess.RequestExit()
	default:
		fmt.Fprintf(sh.errw, "unknown command: %s (try help)\n", cmd)
	}
}

// shellEscape runs a line in the local system shell.
func (sh *Shell) shellEscape(cmdline string) {
	if cmdline == "" {
		return
	}
	cmd := exec.Command("sh", "-c", cmdline)
	cmd.Stdout = sh.out
	cmd.Stderr = sh.errw
	cmd.Stdin = os.Stdin
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(sh.errw, "!: %v\n", err)
	}
}

func (sh *Shell) cmdHelp() {
	fmt.Fprint(sh.out, `Commands:
  cd [dir|-]          Change remote directory (- swaps with previous)
  pwd                 Print remote working directory
  ls [-l] [pattern]   List remote files (glob patterns supported)
  get pattern...      Download matching remote files
  put file...         Upload local files to the current remote directory
  rm pattern...       Delete matching remote files
  mkdir dir...        Create remote directories
  share pattern...    Print a share link per matching file
  refresh [dir]       Drop a directory's cached listing
  lcd [dir|-]         Change local directory
  lpwd                Print local working directory
  lls [dir]           List local files
  ! cmd...            Run a local shell command
  exit, quit          Leave the shell
`)
}
