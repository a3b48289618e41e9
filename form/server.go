// Package form serves the DocGPT web form and its JSON counterpart.
package form

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papercomputeco/docgpt/pkg/advice"
	"github.com/papercomputeco/docgpt/pkg/imaging"
	"github.com/papercomputeco/docgpt/pkg/llm"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Server is the web form. It is stateless between submissions: every
// submission runs through the pipeline independently.
type Server struct {
	config   Config
	pipeline *advice.Pipeline
	logger   *zap.Logger
	server   *fiber.App
}

// page is the template data for the form.
type page struct {
	Symptoms string
	ImageURL string
	Advice   string
	Warning  string
	Error    string
}

// AdviceRequest is the JSON body accepted by /api/advice. ImageURL and
// ImageBase64 are mutually exclusive; ImageBase64 wins when both are set.
type AdviceRequest struct {
	Text        string `json:"text"`
	ImageURL    string `json:"image_url,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

// AdviceResponse is the JSON body returned by /api/advice on success.
type AdviceResponse struct {
	Advice    string `json:"advice"`
	RequestID string `json:"request_id"`
}

// New creates a new Server.
func New(config Config, pipeline *advice.Pipeline, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             config.BodyLimit,
	})

	s := &Server{
		config:   config,
		pipeline: pipeline,
		logger:   logger,
		server:   app,
	}
	s.registerRoutes(app)

	return s
}

func (s *Server) registerRoutes(app *fiber.App) {
	app.Get("/", s.handleForm)
	app.Post("/", s.handleSubmit)
	app.Post("/api/advice", s.handleAPIAdvice)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})
}

// Run starts the server on the configured listening address.
func (s *Server) Run() error {
	s.logger.Info("starting form server", zap.String("listen", s.config.ListenAddr))
	return s.server.Listen(s.config.ListenAddr)
}

// RunWithListener starts the server on an existing listener.
func (s *Server) RunWithListener(ln net.Listener) error {
	s.logger.Info("starting form server", zap.String("listen", ln.Addr().String()))
	return s.server.Listener(ln)
}

// Shutdown stops the server.
func (s *Server) Shutdown() error {
	return s.server.Shutdown()
}

func (s *Server) handleForm(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, page{})
}

// handleSubmit handles the multipart form. An uploaded file takes precedence
// over an image URL.
func (s *Server) handleSubmit(c *fiber.Ctx) error {
	requestID := s.tagRequest(c)
	p := page{
		Symptoms: c.FormValue("symptoms"),
		ImageURL: strings.TrimSpace(c.FormValue("image_url")),
	}

	sub := advice.Submission{Text: p.Symptoms}

	if fh, err := c.FormFile("image"); err == nil && fh.Size > 0 {
		f, err := fh.Open()
		if err != nil {
			s.logger.Error("failed to open upload", zap.String("request_id", requestID), zap.Error(err))
			p.Error = advice.MsgImageUnavailable
			return s.render(c, fiber.StatusBadRequest, p)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			s.logger.Error("failed to read upload", zap.String("request_id", requestID), zap.Error(err))
			p.Error = advice.MsgImageUnavailable
			return s.render(c, fiber.StatusBadRequest, p)
		}
		sub.Image = imaging.UploadSource{Data: data}
	} else if p.ImageURL != "" {
		sub.Image = imaging.URLSource{URL: p.ImageURL}
	}

	s.logger.Debug("form submission",
		zap.String("request_id", requestID),
		zap.Int("text_len", len(p.Symptoms)),
		zap.Bool("with_image", sub.Image != nil),
	)

	result := s.pipeline.Run(c.UserContext(), sub)
	if !result.OK() {
		s.logFailure(requestID, result.Err)
		if result.Err.Kind == advice.InputError {
			p.Warning = result.Err.Message
		} else {
			p.Error = result.Err.Message
		}
		return s.render(c, statusFor(result.Err), p)
	}

	p.Advice = result.Advice
	return s.render(c, fiber.StatusOK, p)
}

func (s *Server) handleAPIAdvice(c *fiber.Ctx) error {
	requestID := s.tagRequest(c)

	var req AdviceRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		s.logger.Warn("failed to parse request", zap.String("request_id", requestID), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}

	sub := advice.Submission{Text: req.Text}
	switch {
	case req.ImageBase64 != "":
		sub.Image = imaging.Base64Source{Data: req.ImageBase64}
	case strings.TrimSpace(req.ImageURL) != "":
		sub.Image = imaging.URLSource{URL: strings.TrimSpace(req.ImageURL)}
	}

	result := s.pipeline.Run(c.UserContext(), sub)
	if !result.OK() {
		s.logFailure(requestID, result.Err)
		return c.Status(statusFor(result.Err)).JSON(llm.ErrorResponse{Error: result.Err.Message})
	}

	return c.JSON(AdviceResponse{Advice: result.Advice, RequestID: requestID})
}

func (s *Server) tagRequest(c *fiber.Ctx) string {
	id := uuid.NewString()
	c.Set("X-Request-ID", id)
	return id
}

func (s *Server) logFailure(requestID string, e *advice.Error) {
	s.logger.Warn("submission failed",
		zap.String("request_id", requestID),
		zap.String("kind", string(e.Kind)),
		zap.NamedError("cause", e.Cause),
	)
}

func (s *Server) render(c *fiber.Ctx, status int, p page) error {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		return fmt.Errorf("render form: %w", err)
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}

func statusFor(e *advice.Error) int {
	if e.Kind == advice.InputError {
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusBadGateway
}
