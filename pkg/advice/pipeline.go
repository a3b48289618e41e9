package advice

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/papercomputeco/docgpt/pkg/imaging"
	"github.com/papercomputeco/docgpt/pkg/llm"
)

// Submission is one form submission.
type Submission struct {
	Text string

	// Image is optional.
	Image imaging.Source
}

// Pipeline runs a submission through the image normalizer and the requester.
type Pipeline struct {
	normalizer *imaging.Normalizer
	requester  *Requester
	logger     *zap.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(normalizer *imaging.Normalizer, requester *Requester, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		normalizer: normalizer,
		requester:  requester,
		logger:     logger,
	}
}

// Run validates the submission, normalizes the image if any, then requests
// advice. A failed image aborts the submission: no completion call is made.
func (p *Pipeline) Run(ctx context.Context, sub Submission) Result {
	if strings.TrimSpace(sub.Text) == "" {
		return failure(InputError, MsgEmptyText, nil)
	}

	var img *llm.EncodedImage
	if sub.Image != nil {
		var err error
		img, err = sub.Image.Normalize(ctx, p.normalizer)
		if err != nil {
			p.logger.Warn("image normalization failed", zap.Error(err))
			return failure(ExternalServiceError, MsgImageUnavailable, err)
		}
	}

	return p.requester.Request(ctx, sub.Text, img)
}
