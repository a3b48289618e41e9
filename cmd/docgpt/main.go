package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	askcmder "github.com/papercomputeco/docgpt/cmd/docgpt/ask"
	"github.com/papercomputeco/docgpt/cmd/docgpt/bootstrap"
	mcpcmder "github.com/papercomputeco/docgpt/cmd/docgpt/mcp"
	servecmder "github.com/papercomputeco/docgpt/cmd/docgpt/serve"
	tuicmder "github.com/papercomputeco/docgpt/cmd/docgpt/tui"
)

const rootLongDesc string = `DocGPT is an informal medical assistant.

Describe your symptoms, optionally attach an image, and receive an informal
diagnosis with remedy suggestions from a hosted chat completion model.

The API key is read from OPENAI_SECRET (a .env file is honored).`

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "docgpt",
		Short:         "DocGPT: your medical assistant",
		Long:          rootLongDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(tuicmder.NewTUICmd())
	cmd.AddCommand(mcpcmder.NewMCPCmd())

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		var reported *bootstrap.ReportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
