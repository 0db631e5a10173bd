// Package shell implements the line oriented pointshell command
// interpreter. Each line is parsed by a fresh urfave/cli application and
// every mesh operation runs under the lock of a pointmesh.Shared.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/soypat/pointmesh"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// ErrQuit is returned by Exec when the user asks to leave the shell.
var ErrQuit = errors.New("quit")

const prompt = "> "

// Shell executes commands against a shared mesh.
type Shell struct {
	log  *zap.Logger
	mesh *pointmesh.Shared
	// pointsFile is used by save and load when --file is not given.
	pointsFile string
	out        io.Writer
}

// New returns a shell operating on mesh that writes command output to out.
func New(log *zap.Logger, mesh *pointmesh.Shared, pointsFile string, out io.Writer) *Shell {
	return &Shell{log: log, mesh: mesh, pointsFile: pointsFile, out: out}
}

// Run reads commands from in until EOF, a quit command or ctx is done.
// Command errors are printed and do not stop the shell.
func (sh *Shell) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	fmt.Fprint(sh.out, prompt)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			err := sh.Exec(ctx, line)
			if errors.Is(err, ErrQuit) {
				return nil
			} else if err != nil {
				sh.log.Debug("command failed", zap.String("line", line), zap.Error(err))
				fmt.Fprintf(sh.out, "error: %v\n", err)
			}
			fmt.Fprint(sh.out, prompt)
		}
	}
}

// Exec parses and runs a single command line. Blank lines are ignored.
func (sh *Shell) Exec(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	sh.log.Debug("exec", zap.Strings("args", args))
	return sh.app().RunContext(ctx, append([]string{"pointshell"}, args...))
}

func (sh *Shell) app() *cli.App {
	return &cli.App{
		Name:        "pointshell",
		Usage:       "manipulate 3D point clouds",
		HideVersion: true,
		Writer:      sh.out,
		ErrWriter:   sh.out,
		// Errors are reported by Run. Never exit the process.
		ExitErrHandler: func(*cli.Context, error) {},
		Action: func(c *cli.Context) error {
			if c.Args().Present() {
				return fmt.Errorf("unknown command %q", c.Args().First())
			}
			return nil
		},
		Commands: sh.commands(),
	}
}
