package mcpcmder

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/docgpt/cmd/docgpt/bootstrap"
	"github.com/papercomputeco/docgpt/pkg/advice"
	"github.com/papercomputeco/docgpt/pkg/imaging"
)

const mcpLongDesc string = `Serve DocGPT as an MCP tool over stdio.

The server exposes one tool, medical_advice, taking a symptom description
and an optional image URL. Logs go to stderr; stdout carries the protocol.`

const mcpShortDesc string = "Serve the advice tool over MCP stdio"

const (
	serverName    = "docgpt"
	serverVersion = "0.1.0"
	toolName      = "medical_advice"
)

// Runner runs one submission.
type Runner interface {
	Run(ctx context.Context, sub advice.Submission) advice.Result
}

// AdviceInput is the tool input.
type AdviceInput struct {
	Symptoms string `json:"symptoms" jsonschema:"free-text description of the symptoms or health concern"`
	ImageURL string `json:"image_url,omitempty" jsonschema:"optional http(s) URL of a JPEG or PNG image"`
}

// AdviceOutput is the tool output.
type AdviceOutput struct {
	Advice string `json:"advice"`
}

type mcpCommander struct {
	opts bootstrap.Options
}

func NewMCPCmd() *cobra.Command {
	cmder := &mcpCommander{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: mcpShortDesc,
		Long:  mcpLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context())
		},
	}

	bootstrap.AddFlags(cmd, &cmder.opts)

	return cmd
}

func (c *mcpCommander) run(ctx context.Context) error {
	app, err := bootstrap.Build(c.opts)
	if err != nil {
		return err
	}
	defer app.Logger.Sync()

	server := NewServer(app.Pipeline, app.Logger.Named("mcp"))
	app.Logger.Info("serving MCP over stdio", zap.String("tool", toolName))

	return server.Run(ctx, &mcp.StdioTransport{})
}

// NewServer builds an MCP server exposing the advice tool.
func NewServer(runner Runner, logger *zap.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name: toolName,
		Description: "Informal medical assistant: returns a possible diagnosis, remedy suggestions " +
			"and emotional support for a symptom description, optionally with an image.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in AdviceInput) (*mcp.CallToolResult, AdviceOutput, error) {
		sub := advice.Submission{
			Text:  in.Symptoms,
			Image: imaging.ParseSource(in.ImageURL),
		}
		if _, isFile := sub.Image.(imaging.FileSource); isFile {
			// Local paths are not reachable through the tool.
			sub.Image = imaging.URLSource{URL: in.ImageURL}
		}

		result := runner.Run(ctx, sub)
		if !result.OK() {
			logger.Warn("tool call failed",
				zap.String("kind", string(result.Err.Kind)),
				zap.NamedError("cause", result.Err.Cause),
			)
			return nil, AdviceOutput{}, result.Err
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: result.Advice}},
		}, AdviceOutput{Advice: result.Advice}, nil
	})

	return server
}
