// Package imaging normalizes user-supplied images into the single encoding
// sent to the chat completion endpoint: a base64 JPEG tagged image/jpeg.
package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG uploads are decoded and re-encoded as JPEG
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/papercomputeco/docgpt/pkg/llm"
)

// MimeJPEG is the MIME type of every normalized image.
const MimeJPEG = "image/jpeg"

// ErrUnavailable is wrapped by every normalization failure.
var ErrUnavailable = errors.New("image unavailable")

// Config tunes the normalizer.
type Config struct {
	// MaxBytes caps the size of a fetched or uploaded image.
	MaxBytes int64

	// Quality is the JPEG re-encoding quality (1-100).
	Quality int
}

// Normalizer decodes images from uploads, URLs or bitmaps and re-encodes
// them as base64 JPEG. It holds no per-request state.
type Normalizer struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewNormalizer creates a Normalizer. A nil httpClient uses http.DefaultClient.
func NewNormalizer(config Config, httpClient *http.Client, logger *zap.Logger) *Normalizer {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if config.Quality <= 0 {
		config.Quality = jpeg.DefaultQuality
	}
	return &Normalizer{
		config:     config,
		httpClient: httpClient,
		logger:     logger,
	}
}

// FromBytes decodes JPEG or PNG bytes and re-encodes them.
func (n *Normalizer) FromBytes(data []byte) (*llm.EncodedImage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrUnavailable)
	}
	if n.config.MaxBytes > 0 && int64(len(data)) > n.config.MaxBytes {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", ErrUnavailable, n.config.MaxBytes)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}

	n.logger.Debug("decoded image",
		zap.String("format", format),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)

	return n.FromBitmap(img)
}

// FromBitmap re-encodes an already decoded image.
func (n *Normalizer) FromBitmap(img image.Image) (*llm.EncodedImage, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty bitmap", ErrUnavailable)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: n.config.Quality}); err != nil {
		return nil, fmt.Errorf("%w: encode jpeg: %v", ErrUnavailable, err)
	}

	return &llm.EncodedImage{
		MimeType: MimeJPEG,
		Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// FromURL fetches an image over HTTP(S) and normalizes it. Anything other
// than a 200 response is a failure.
func (n *Normalizer) FromURL(ctx context.Context, rawURL string) (*llm.EncodedImage, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid image URL %q", ErrUnavailable, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrUnavailable, err)
	}

	n.logger.Debug("fetching image", zap.String("url", u.Redacted()))

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch returned %d", ErrUnavailable, resp.StatusCode)
	}

	body := io.Reader(resp.Body)
	if n.config.MaxBytes > 0 {
		// One extra byte lets FromBytes detect oversize bodies.
		body = io.LimitReader(resp.Body, n.config.MaxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	return n.FromBytes(data)
}
