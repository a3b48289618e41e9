package advice_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/docgpt/pkg/advice"
	"github.com/papercomputeco/docgpt/pkg/llm"
)

var _ = Describe("Requester", func() {
	var (
		ctx       context.Context
		completer *fakeCompleter
		requester *advice.Requester
	)

	BeforeEach(func() {
		ctx = context.Background()
		completer = &fakeCompleter{resp: replyWith("Rest, hydrate, consider acetaminophen")}
		requester = advice.NewRequester(completer, advice.Config{Model: "gpt-4o-mini"}, zap.NewNop())
	})

	Describe("BuildMessages", func() {
		It("puts the persona first", func() {
			msgs := advice.BuildMessages("cough", nil)

			Expect(msgs).To(HaveLen(2))
			Expect(msgs[0].Role).To(Equal(llm.RoleSystem))
			Expect(msgs[0].Text()).To(Equal(advice.Persona))
			Expect(msgs[1].Role).To(Equal(llm.RoleUser))
			Expect(msgs[1].Text()).To(Equal("cough"))
		})

		It("attaches an image as exactly one extra block on the user turn", func() {
			img := &llm.EncodedImage{MimeType: "image/jpeg", Data: "Zm9v"}
			msgs := advice.BuildMessages("rash", img)

			Expect(msgs).To(HaveLen(2))
			Expect(msgs[1].Blocks).To(HaveLen(2))
			Expect(msgs[1].Images()).To(ConsistOf(img))
		})
	})

	Describe("Request", func() {
		It("sends exactly two messages for text-only input", func() {
			result := requester.Request(ctx, "I have a mild headache and sore throat", nil)

			Expect(result.OK()).To(BeTrue())
			Expect(result.Advice).To(Equal("Rest, hydrate, consider acetaminophen"))

			Expect(completer.requests).To(HaveLen(1))
			req := completer.requests[0]
			Expect(req.Model).To(Equal("gpt-4o-mini"))
			Expect(req.MaxTokens).To(Equal(400))
			Expect(req.Temperature).To(BeNumerically("~", 0.8, 1e-6))
			Expect(req.Messages).To(HaveLen(2))
			Expect(req.Messages[0].Text()).To(Equal(advice.Persona))
			Expect(req.Messages[1].Text()).To(Equal("I have a mild headache and sore throat"))
		})

		It("rejects whitespace-only text without calling the API", func() {
			result := requester.Request(ctx, "  \t\n", nil)

			Expect(result.OK()).To(BeFalse())
			Expect(result.Err.Kind).To(Equal(advice.InputError))
			Expect(result.Err.Message).To(Equal(advice.MsgEmptyText))
			Expect(completer.requests).To(BeEmpty())
		})

		It("reports API failures as a single generic error", func() {
			completer.err = errors.New("status 500: upstream exploded")

			result := requester.Request(ctx, "fever", nil)

			Expect(result.OK()).To(BeFalse())
			Expect(result.Advice).To(BeEmpty())
			Expect(result.Err.Kind).To(Equal(advice.ExternalServiceError))
			Expect(result.Err.Message).To(Equal(advice.MsgServiceFailed))
			Expect(errors.Unwrap(result.Err)).To(MatchError(completer.err))
			Expect(completer.requests).To(HaveLen(1))
		})

		It("treats a blank reply as a failure", func() {
			completer.resp = replyWith("   ")

			result := requester.Request(ctx, "headache", nil)

			Expect(result.OK()).To(BeFalse())
			Expect(result.Advice).To(BeEmpty())
			Expect(result.Err.Kind).To(Equal(advice.ExternalServiceError))
			Expect(result.Err.Message).To(Equal(advice.MsgServiceFailed))
			Expect(errors.Unwrap(result.Err)).To(MatchError(llm.ErrEmptyContent))
		})

		It("treats a response without choices as a failure", func() {
			completer.resp = &llm.ChatResponse{}

			result := requester.Request(ctx, "fever", nil)

			Expect(result.Err).NotTo(BeNil())
			Expect(result.Err.Kind).To(Equal(advice.ExternalServiceError))
			Expect(result.Err).To(MatchError(advice.MsgServiceFailed))
		})
	})
})
