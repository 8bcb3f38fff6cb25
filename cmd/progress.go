package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/darktalk/pkg/dialog"
	"github.com/marcus/darktalk/pkg/tui"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

var progressNoCancel bool

var progressCmd = &cobra.Command{
	Use:   "progress TITLE [MESSAGE]",
	Short: "Show a progress bar fed from stdin",
	Long: `Show a progress dialog and update it from integer percentages read from
stdin, one per line ("42" or "42%"). The dialog completes at exactly 100.

Exits 0 on completion, 1 when aborted and 2 when stdin ends first:

  for i in $(seq 0 10 100); do echo $i; sleep 1; done | darktalk progress "Copying"`,
	GroupID: "dialogs",
	Args:    cobra.RangeArgs(1, 2),
	RunE:    runProgress,
}

func init() {
	rootCmd.AddCommand(progressCmd)
	progressCmd.Flags().BoolVar(&progressNoCancel, "no-cancel", false, "Abort closes the dialog without cancelling")
}

// progressSink is the part of tui.Program the stdin feeder drives.
type progressSink interface {
	SetProgress(d *dialog.Dialog, percent int)
	Remove(d *dialog.Dialog)
}

func runProgress(cmd *cobra.Command, args []string) error {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return errors.New("progress reads percentages from stdin: pipe them in")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	model := tui.NewModel(tui.WithContentWidth(cfg.Dialog.Width), tui.WithLogger(logger))
	opts := dialog.Options{Cancelable: dialog.Bool(cfg.Dialog.Cancelable && !progressNoCancel)}
	d, err := dialog.NewManager(model, managerOptions()...).Show(request(dialog.KindProgress, args, opts))
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(gctx)
	defer cancel()

	// Keys come from the controlling terminal since stdin is the feed.
	prog := tui.NewProgram(runCtx, model, tea.WithOutput(cmd.ErrOrStderr()), tea.WithInputTTY())
	lines := scanLines(runCtx, cmd.InOrStdin())

	g.Go(func() error {
		defer cancel()
		if err := prog.Run(); err != nil && runCtx.Err() == nil {
			return fmt.Errorf("run progress: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return feedProgress(runCtx, prog, d, lines)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return outcome(cmd, d)
}

// scanLines streams r line by line until EOF or ctx ends. The reader
// goroutine may outlive ctx while blocked in Read.
func scanLines(ctx context.Context, r io.Reader) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case out <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// feedProgress applies each percentage line to d. When the input ends
// before completion the dialog is removed.
func feedProgress(ctx context.Context, sink progressSink, d *dialog.Dialog, lines <-chan string) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				logger.Debug("progress input ended", "id", d.ID())
				sink.Remove(d)
				return nil
			}
			line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), "%"))
			if line == "" {
				continue
			}
			pct, err := strconv.Atoi(line)
			if err != nil {
				logger.Warn("ignoring progress line", "line", line, "err", err)
				continue
			}
			sink.SetProgress(d, pct)
			if pct == 100 {
				return nil
			}
		}
	}
}
