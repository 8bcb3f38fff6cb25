package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/darktalk/pkg/dialog"
	"github.com/marcus/darktalk/pkg/tui"
	"github.com/spf13/cobra"
)

// dialogFlags are shared by every command that shows or renders a dialog.
type dialogFlags struct {
	buttons  []dialog.Button
	noCancel bool
	password bool
}

func (f *dialogFlags) register(cmd *cobra.Command, withPassword bool) {
	cmd.Flags().Var(newButtonsValue(&f.buttons), "button", "Button as key=label (repeatable, in display order)")
	cmd.Flags().BoolVar(&f.noCancel, "no-cancel", false, "Escape and cancel buttons close the dialog without cancelling")
	if withPassword {
		cmd.Flags().BoolVar(&f.password, "password", false, "Mask the input field")
	}
}

func (f *dialogFlags) options() dialog.Options {
	opts := dialog.Options{
		Buttons:    f.buttons,
		Cancelable: dialog.Bool(cfg.Dialog.Cancelable && !f.noCancel),
	}
	if f.password {
		opts.Type = dialog.InputPassword
	}
	return opts
}

// managerOptions applies the configured labels, stacking start and logger.
func managerOptions() []dialog.Option {
	return []dialog.Option{
		dialog.WithLabels(cfg.DialogLabels()),
		dialog.WithStacker(dialog.NewCounter(cfg.Dialog.StackStart)),
		dialog.WithLogger(logger),
	}
}

// request builds a dialog request from positional args:
// TITLE MESSAGE [VALUE].
func request(kind dialog.Kind, args []string, opts dialog.Options) dialog.Request {
	req := dialog.Request{Kind: kind, Options: opts}
	if len(args) > 0 {
		req.Title = args[0]
	}
	if len(args) > 1 {
		req.Message = args[1]
	}
	if len(args) > 2 {
		req.Value = args[2]
	}
	return req
}

func newDialogCommand(kind dialog.Kind, use, short, long string, args cobra.PositionalArgs) *cobra.Command {
	flags := &dialogFlags{}
	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		Long:    long,
		GroupID: "dialogs",
		Args:    args,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDialog(cmd, request(kind, args, flags.options()))
		},
	}
	flags.register(cmd, kind == dialog.KindPrompt)
	return cmd
}

var alertCmd = newDialogCommand(dialog.KindAlert,
	"alert TITLE [MESSAGE]",
	"Show a message with an OK button",
	`Show a message with a single OK button and wait for it to be dismissed.`,
	cobra.RangeArgs(1, 2),
)

var confirmCmd = newDialogCommand(dialog.KindConfirm,
	"confirm TITLE [MESSAGE]",
	"Ask a yes/no question",
	`Show a message with OK and Cancel buttons.

Exits 0 when accepted and 1 when cancelled, so it composes with && and ||:

  darktalk confirm "Deploy?" "Push main to production" && make deploy`,
	cobra.RangeArgs(1, 2),
)

var promptCmd = newDialogCommand(dialog.KindPrompt,
	"prompt TITLE [MESSAGE] [VALUE]",
	"Ask for a line of text",
	`Show a message with an input field, prefilled with VALUE.

The accepted text is printed to stdout; the dialog itself draws on stderr.`,
	cobra.RangeArgs(1, 3),
)

func init() {
	rootCmd.AddCommand(alertCmd, confirmCmd, promptCmd)
}

// runDialog shows req in the terminal and waits for it to close.
func runDialog(cmd *cobra.Command, req dialog.Request) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	model := tui.NewModel(tui.WithContentWidth(cfg.Dialog.Width), tui.WithLogger(logger))
	d, err := dialog.NewManager(model, managerOptions()...).Show(req)
	if err != nil {
		return err
	}

	prog := tui.NewProgram(ctx, model, tea.WithOutput(cmd.ErrOrStderr()))
	if err := prog.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run dialog: %w", err)
	}
	return outcome(cmd, d)
}

// outcome maps how a dialog closed to the command's result. Accepted
// values are printed on stdout.
func outcome(cmd *cobra.Command, d *dialog.Dialog) error {
	res, settled, err := d.Handle().Outcome()
	switch {
	case !settled:
		logger.Debug("dialog closed unsettled", "id", d.ID(), "state", d.State())
		return &exitError{code: 2}
	case errors.Is(err, dialog.ErrCancelled):
		return &exitError{code: 1, err: err}
	case err != nil:
		return err
	}
	if res.HasValue {
		fmt.Fprintln(cmd.OutOrStdout(), res.Value)
	}
	return nil
}

