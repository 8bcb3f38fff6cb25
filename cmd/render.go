package cmd

import (
	"fmt"

	"github.com/marcus/darktalk/pkg/dialog"
	"github.com/spf13/cobra"
)

var (
	renderFlags   dialogFlags
	renderPercent int
	renderInner   bool
)

var renderCmd = &cobra.Command{
	Use:   "render KIND TITLE [MESSAGE] [VALUE]",
	Short: "Print a dialog's sanitized HTML",
	Long: `Print the markup a dialog would mount, after sanitizing, without showing
it. KIND is alert, confirm, prompt or progress.`,
	GroupID: "dialogs",
	Args:    cobra.RangeArgs(2, 4),
	RunE:    runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderFlags.register(renderCmd, true)
	renderCmd.Flags().IntVar(&renderPercent, "percent", 0, "Progress to render for progress dialogs")
	renderCmd.Flags().BoolVar(&renderInner, "inner", false, "Omit the stacking root container")
}

func runRender(cmd *cobra.Command, args []string) error {
	kind, err := dialog.ParseKind(args[0])
	if err != nil {
		return err
	}

	d, err := dialog.NewManager(nil, managerOptions()...).Show(request(kind, args[1:], renderFlags.options()))
	if err != nil {
		return err
	}
	if p, ok := d.AsProgress(); ok && renderPercent != 0 {
		p.SetProgress(renderPercent)
	}

	out := d.HTML()
	if renderInner {
		out = d.Markup()
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
