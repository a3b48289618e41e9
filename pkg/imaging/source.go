package imaging

import (
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/papercomputeco/docgpt/pkg/llm"
)

// Source is one of the supported image origins.
type Source interface {
	Normalize(ctx context.Context, n *Normalizer) (*llm.EncodedImage, error)
}

// UploadSource holds raw uploaded bytes.
type UploadSource struct {
	Data []byte
}

func (s UploadSource) Normalize(_ context.Context, n *Normalizer) (*llm.EncodedImage, error) {
	return n.FromBytes(s.Data)
}

// Base64Source holds an upload that arrived base64-encoded in a JSON body.
type Base64Source struct {
	Data string
}

func (s Base64Source) Normalize(_ context.Context, n *Normalizer) (*llm.EncodedImage, error) {
	data, err := base64.StdEncoding.DecodeString(s.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode base64: %v", ErrUnavailable, err)
	}
	return n.FromBytes(data)
}

// URLSource points at a remote image.
type URLSource struct {
	URL string
}

func (s URLSource) Normalize(ctx context.Context, n *Normalizer) (*llm.EncodedImage, error) {
	return n.FromURL(ctx, s.URL)
}

// BitmapSource wraps an in-memory image.
type BitmapSource struct {
	Image image.Image
}

func (s BitmapSource) Normalize(_ context.Context, n *Normalizer) (*llm.EncodedImage, error) {
	return n.FromBitmap(s.Image)
}

// FileSource is a local file, as given on the command line or in the
// terminal form.
type FileSource struct {
	Path string
}

func (s FileSource) Normalize(_ context.Context, n *Normalizer) (*llm.EncodedImage, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n.FromBytes(data)
}

// ParseSource picks a source for a user-typed reference: http(s) URLs
// become URLSource, anything else non-empty a FileSource. Blank input
// yields nil.
func ParseSource(ref string) Source {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return URLSource{URL: ref}
	default:
		return FileSource{Path: ref}
	}
}
