package tuicmder

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/docgpt/cmd/docgpt/bootstrap"
	"github.com/papercomputeco/docgpt/pkg/render"
	"github.com/papercomputeco/docgpt/pkg/tui"
)

const tuiLongDesc string = `Open the DocGPT form in the terminal.

Type your symptoms, optionally a path or URL of an image, and press enter.
The form stays open for further questions until esc or ctrl+c.`

const tuiShortDesc string = "Open the terminal form"

type tuiCommander struct {
	opts bootstrap.Options
}

func NewTUICmd() *cobra.Command {
	cmder := &tuiCommander{}

	cmd := &cobra.Command{
		Use:   "tui",
		Short: tuiShortDesc,
		Long:  tuiLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context())
		},
	}

	bootstrap.AddFlags(cmd, &cmder.opts)

	return cmd
}

func (c *tuiCommander) run(ctx context.Context) error {
	app, err := bootstrap.Build(c.opts)
	if err != nil {
		return err
	}
	defer app.Logger.Sync()

	style := render.New(os.Stdout).Style()
	model := tui.New(ctx, app.Pipeline, style)

	_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
	return err
}
