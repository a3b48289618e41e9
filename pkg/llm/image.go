package llm

import "fmt"

// EncodedImage is an image ready for transmission: a MIME type and the
// base64 encoding of the image bytes.
type EncodedImage struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// DataURI renders the image as a data URI (data:<mime>;base64,<data>).
func (i *EncodedImage) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", i.MimeType, i.Data)
}
