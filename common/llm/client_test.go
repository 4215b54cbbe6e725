package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"neoito.app/leadgen/common/llm"
)

type capturedRequest struct {
	Path        string
	AuthHeader  string
	Model       string           `json:"model"`
	Temperature *float64         `json:"temperature"`
	Messages    []map[string]any `json:"messages"`
}

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-3.5-turbo",
  "choices": [{
    "index": 0,
    "finish_reason": "stop",
    "message": {"role": "assistant", "content": "insights---summary"}
  }],
  "usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
}`

var _ = Describe("Client", func() {
	var (
		server   *httptest.Server
		captured capturedRequest
		status   int
		body     string
		calls    int
	)

	BeforeEach(func() {
		captured = capturedRequest{}
		status = http.StatusOK
		body = completionBody
		calls = 0

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &captured)
			captured.Path = r.URL.Path
			captured.AuthHeader = r.Header.Get("Authorization")

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		}))
		DeferCleanup(server.Close)
	})

	newClient := func() llm.Client {
		c, err := llm.New(llm.Config{APIKey: "sk-test", BaseURL: server.URL + "/", Model: "gpt-3.5-turbo"})
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	Describe("New", func() {
		It("requires an API key", func() {
			c, err := llm.New(llm.Config{Model: "gpt-3.5-turbo"})
			Expect(err).To(HaveOccurred())
			Expect(c).To(BeNil())
		})

		It("requires a model", func() {
			c, err := llm.New(llm.Config{APIKey: "sk-test"})
			Expect(err).To(HaveOccurred())
			Expect(c).To(BeNil())
		})

		It("reports the configured model", func() {
			Expect(newClient().Model()).To(Equal("gpt-3.5-turbo"))
		})
	})

	Describe("Complete", func() {
		It("sends model, temperature and role-tagged messages", func() {
			resp, err := newClient().Complete(context.Background(), llm.Request{
				Temperature: llm.Temp(0.7),
				Messages: []llm.Message{
					{Role: llm.RoleSystem, Content: "sys"},
					{Role: llm.RoleAssistant, Content: "ai one"},
					{Role: llm.RoleUser, Content: "Widget"},
				},
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(captured.Path).To(Equal("/chat/completions"))
			Expect(captured.AuthHeader).To(Equal("Bearer sk-test"))
			Expect(captured.Model).To(Equal("gpt-3.5-turbo"))
			Expect(captured.Temperature).NotTo(BeNil())
			Expect(*captured.Temperature).To(Equal(0.7))
			Expect(captured.Messages).To(HaveLen(3))
			Expect(captured.Messages[0]).To(HaveKeyWithValue("role", "system"))
			Expect(captured.Messages[1]).To(HaveKeyWithValue("role", "assistant"))
			Expect(captured.Messages[2]).To(HaveKeyWithValue("role", "user"))
			Expect(captured.Messages[2]).To(HaveKeyWithValue("content", "Widget"))

			Expect(resp.Content).To(Equal("insights---summary"))
			Expect(resp.FinishReason).To(Equal("stop"))
			Expect(resp.PromptTokens).To(Equal(12))
			Expect(resp.CompletionTokens).To(Equal(3))
		})

		It("fails when the API returns no choices", func() {
			body = `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`

			_, err := newClient().Complete(context.Background(), llm.Request{
				Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
			})
			Expect(errors.Is(err, llm.ErrNoChoices)).To(BeTrue())
		})

		It("surfaces API errors without retrying", func() {
			status = http.StatusTooManyRequests
			body = `{"error":{"message":"slow down","type":"rate_limit_error","code":"rate_limit_exceeded"}}`

			_, err := newClient().Complete(context.Background(), llm.Request{
				Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
			})
			Expect(err).To(HaveOccurred())
			Expect(calls).To(Equal(1))

			attrs := llm.Describe(err)
			Expect(attrs).To(ContainElements("status_code", http.StatusTooManyRequests))
			Expect(attrs).To(ContainElements("upstream", "api"))
		})
	})
})

var _ = Describe("Describe", func() {
	It("returns nothing for a nil error", func() {
		Expect(llm.Describe(nil)).To(BeNil())
	})

	It("classifies deadline errors", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
		defer cancel()
		<-ctx.Done()

		Expect(llm.Describe(ctx.Err())).To(ContainElements("upstream", "timeout"))
	})

	It("falls back to a network classification", func() {
		Expect(llm.Describe(errors.New("connection refused"))).To(ContainElements("upstream", "network"))
	})
})
