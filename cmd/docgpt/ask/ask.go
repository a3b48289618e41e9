package askcmder

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/docgpt/cmd/docgpt/bootstrap"
	"github.com/papercomputeco/docgpt/pkg/advice"
	"github.com/papercomputeco/docgpt/pkg/imaging"
	"github.com/papercomputeco/docgpt/pkg/render"
)

const askLongDesc string = `Ask for advice once and print it.

The symptom description is taken from the arguments. An image can be
attached from a local JPEG/PNG file or an http(s) URL. When both are
given the file wins.

Examples:
  docgpt ask "I have a mild headache and sore throat"
  docgpt ask --image rash.jpg "itchy rash on my forearm"
  docgpt ask --image-url https://example.com/rash.png "itchy rash"`

const askShortDesc string = "Ask for advice from the command line"

type askCommander struct {
	opts     bootstrap.Options
	image    string
	imageURL string
}

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:           "ask <symptoms...>",
		Short:         askShortDesc,
		Long:          askLongDesc,
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd, strings.Join(args, " "))
		},
	}

	bootstrap.AddFlags(cmd, &cmder.opts)
	cmd.Flags().StringVarP(&cmder.image, "image", "i", "", "Path to a JPEG or PNG image")
	cmd.Flags().StringVarP(&cmder.imageURL, "image-url", "u", "", "URL of a JPEG or PNG image")

	return cmd
}

func (c *askCommander) run(ctx context.Context, cmd *cobra.Command, text string) error {
	app, err := bootstrap.Build(c.opts)
	if err != nil {
		return err
	}
	defer app.Logger.Sync()

	sub := advice.Submission{Text: text}
	switch {
	case c.image != "":
		sub.Image = imaging.FileSource{Path: c.image}
	case c.imageURL != "":
		sub.Image = imaging.URLSource{URL: c.imageURL}
	}

	result := app.Pipeline.Run(ctx, sub)
	if !result.OK() {
		errOut := render.New(cmd.ErrOrStderr())
		if result.Err.Kind == advice.InputError {
			err = errOut.Warning(result.Err.Message)
		} else {
			err = errOut.Error(result.Err.Message)
		}
		if err != nil {
			return err
		}
		return &bootstrap.ReportedError{Err: result.Err}
	}

	return render.New(cmd.OutOrStdout()).Advice(result.Advice)
}
