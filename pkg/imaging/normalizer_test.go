package imaging_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/docgpt/pkg/imaging"
	"github.com/papercomputeco/docgpt/pkg/llm"
)

func testBitmap() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 16, 12))
	for x := 0; x < 16; x++ {
		for y := 0; y < 12; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 20), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	Expect(png.Encode(&buf, img)).To(Succeed())
	return buf.Bytes()
}

func encodeJPEG(img image.Image) []byte {
	var buf bytes.Buffer
	Expect(jpeg.Encode(&buf, img, nil)).To(Succeed())
	return buf.Bytes()
}

// expectJPEG decodes the payload and checks it is a structurally valid JPEG
// with the given dimensions.
func expectJPEG(enc *llm.EncodedImage, width, height int) {
	Expect(enc.MimeType).To(Equal(imaging.MimeJPEG))
	raw, err := base64.StdEncoding.DecodeString(enc.Data)
	Expect(err).NotTo(HaveOccurred())
	decoded, err := jpeg.Decode(bytes.NewReader(raw))
	Expect(err).NotTo(HaveOccurred())
	Expect(decoded.Bounds().Dx()).To(Equal(width))
	Expect(decoded.Bounds().Dy()).To(Equal(height))
}

var _ = Describe("Normalizer", func() {
	var (
		n   *imaging.Normalizer
		ctx context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		n = imaging.NewNormalizer(imaging.Config{MaxBytes: 1 << 20, Quality: 85}, nil, zap.NewNop())
	})

	Describe("FromBytes", func() {
		It("re-encodes PNG uploads as JPEG", func() {
			enc, err := n.FromBytes(encodePNG(testBitmap()))
			Expect(err).NotTo(HaveOccurred())
			expectJPEG(enc, 16, 12)
		})

		It("re-encodes JPEG uploads", func() {
			enc, err := n.FromBytes(encodeJPEG(testBitmap()))
			Expect(err).NotTo(HaveOccurred())
			expectJPEG(enc, 16, 12)
		})

		It("rejects undecodable bytes", func() {
			_, err := n.FromBytes([]byte("definitely not an image"))
			Expect(err).To(MatchError(imaging.ErrUnavailable))
		})

		It("rejects empty input", func() {
			_, err := n.FromBytes(nil)
			Expect(err).To(MatchError(imaging.ErrUnavailable))
		})

		It("rejects images over the size cap", func() {
			small := imaging.NewNormalizer(imaging.Config{MaxBytes: 10}, nil, zap.NewNop())

			_, err := small.FromBytes(encodePNG(testBitmap()))
			Expect(err).To(MatchError(imaging.ErrUnavailable))
		})
	})

	Describe("FromBitmap", func() {
		It("encodes an in-memory image", func() {
			enc, err := n.FromBitmap(testBitmap())
			Expect(err).NotTo(HaveOccurred())
			expectJPEG(enc, 16, 12)
			Expect(enc.DataURI()).To(HavePrefix("data:image/jpeg;base64,"))
		})

		It("rejects an empty bitmap", func() {
			_, err := n.FromBitmap(image.NewRGBA(image.Rect(0, 0, 0, 0)))
			Expect(err).To(MatchError(imaging.ErrUnavailable))
		})
	})

	Describe("FromURL", func() {
		It("fetches and normalizes a remote image", func() {
			body := encodePNG(testBitmap())
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "image/png")
				w.Write(body)
			}))
			defer srv.Close()

			enc, err := n.FromURL(ctx, srv.URL+"/rash.png")
			Expect(err).NotTo(HaveOccurred())
			expectJPEG(enc, 16, 12)
		})

		It("fails on a non-200 status", func() {
			srv := httptest.NewServer(http.NotFoundHandler())
			defer srv.Close()

			_, err := n.FromURL(ctx, srv.URL+"/missing.png")
			Expect(err).To(MatchError(imaging.ErrUnavailable))
			Expect(err.Error()).To(ContainSubstring("404"))
		})

		It("rejects a body larger than the size cap", func() {
			body := encodePNG(testBitmap())
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "image/png")
				w.Write(body)
				w.Write(make([]byte, 4096))
			}))
			defer srv.Close()

			small := imaging.NewNormalizer(imaging.Config{MaxBytes: int64(len(body))}, nil, zap.NewNop())

			_, err := small.FromURL(ctx, srv.URL+"/huge.png")
			Expect(err).To(MatchError(imaging.ErrUnavailable))
			Expect(err.Error()).To(ContainSubstring("exceeds"))
		})

		It("fails when the host is unreachable", func() {
			srv := httptest.NewServer(http.NotFoundHandler())
			addr := srv.URL
			srv.Close()

			_, err := n.FromURL(ctx, addr+"/gone.png")
			Expect(err).To(MatchError(imaging.ErrUnavailable))
		})

		It("rejects non-HTTP schemes", func() {
			_, err := n.FromURL(ctx, "file:///etc/passwd")
			Expect(err).To(MatchError(imaging.ErrUnavailable))
		})
	})

	Describe("Sources", func() {
		It("dispatches each source to the matching normalizer path", func() {
			sources := []imaging.Source{
				imaging.UploadSource{Data: encodePNG(testBitmap())},
				imaging.BitmapSource{Image: testBitmap()},
				imaging.Base64Source{Data: base64.StdEncoding.EncodeToString(encodePNG(testBitmap()))},
			}
			for _, src := range sources {
				enc, err := src.Normalize(ctx, n)
				Expect(err).NotTo(HaveOccurred())
				expectJPEG(enc, 16, 12)
			}
		})
	})

	Describe("Base64Source", func() {
		It("fails on invalid base64", func() {
			_, err := imaging.Base64Source{Data: "%%%"}.Normalize(ctx, n)
			Expect(err).To(MatchError(imaging.ErrUnavailable))
		})
	})

	Describe("FileSource", func() {
		It("reads and normalizes a local file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "photo.png")
			Expect(os.WriteFile(path, encodePNG(testBitmap()), 0o600)).To(Succeed())

			enc, err := imaging.FileSource{Path: path}.Normalize(ctx, n)
			Expect(err).NotTo(HaveOccurred())
			expectJPEG(enc, 16, 12)
		})

		It("fails on a missing file", func() {
			_, err := imaging.FileSource{Path: "/does/not/exist.png"}.Normalize(ctx, n)
			Expect(err).To(MatchError(imaging.ErrUnavailable))
		})
	})

	Describe("ParseSource", func() {
		It("maps references to sources", func() {
			Expect(imaging.ParseSource("  ")).To(BeNil())
			Expect(imaging.ParseSource("https://example.com/a.jpg")).To(Equal(imaging.URLSource{URL: "https://example.com/a.jpg"}))
			Expect(imaging.ParseSource("./a.jpg")).To(Equal(imaging.FileSource{Path: "./a.jpg"}))
		})
	})
})
