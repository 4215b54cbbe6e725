package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"

	"neoito.app/leadgen/common/id"
	"neoito.app/leadgen/common/llm"
	"neoito.app/leadgen/common/logger"
	"neoito.app/leadgen/internal/extract"
	"neoito.app/leadgen/internal/model"
	"neoito.app/leadgen/internal/prompt"
)

// ErrGenerationFailed marks every failure of Generate. Callers see only this;
// the cause chain is logged.
var ErrGenerationFailed = errors.New("failed to generate lead generation prompt")

type LeadGenService interface {
	Generate(ctx context.Context, product, customers string) (*model.Generation, error)
}

type LeadGenConfig struct {
	Temperature float64
	Timeout     time.Duration // 0 = no deadline beyond the caller's
	Section     extract.Section
}

type leadGenService struct {
	llm   llm.Client
	chat  *prompt.Chat
	cfg   LeadGenConfig
	newID id.Generator
}

func NewLeadGenService(client llm.Client, chat *prompt.Chat, cfg LeadGenConfig, newID id.Generator) LeadGenService {
	return &leadGenService{
		llm:   client,
		chat:  chat,
		cfg:   cfg,
		newID: newID,
	}
}

func (s *leadGenService) Generate(ctx context.Context, product, customers string) (*model.Generation, error) {
	genID := s.newID()
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		GenerationID: logger.Ptr(genID),
		Model:        logger.Ptr(s.llm.Model()),
		Component:    "leadgen.service.generate",
	})

	sc := logger.StartSpan(ctx, "leadgen.generate")
	defer sc.End()
	ctx = sc.Context()
	sc.Span().SetAttributes(
		attribute.Int64("leadgen.generation_id", genID),
		attribute.String("leadgen.model", s.llm.Model()),
		attribute.String("leadgen.section", string(s.cfg.Section)),
	)

	messages, err := s.chat.Format(map[string]string{
		prompt.VarProduct:   product,
		prompt.VarCustomers: customers,
	})
	if err != nil {
		err = errors.Mark(errors.Wrap(err, "format prompt"), ErrGenerationFailed)
		sc.RecordError(err)
		slog.ErrorContext(ctx, "error generating lead generation prompt", "stage", "format", "error", err)
		return nil, err
	}

	completionCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		completionCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	resp, err := s.llm.Complete(completionCtx, llm.Request{
		Messages:    messages,
		Temperature: llm.Temp(s.cfg.Temperature),
	})
	if err != nil {
		wrapped := errors.Mark(errors.Wrap(err, "chat completion"), ErrGenerationFailed)
		sc.RecordError(wrapped)
		attrs := append([]any{"stage", "completion"}, llm.Describe(err)...)
		slog.ErrorContext(ctx, "error generating lead generation prompt", attrs...)
		return nil, wrapped
	}

	content, err := extract.Extract(resp.Content, s.cfg.Section)
	if err != nil {
		err = errors.Mark(errors.Wrapf(err, "extract %s section", s.cfg.Section), ErrGenerationFailed)
		sc.RecordError(err)
		slog.ErrorContext(ctx, "error generating lead generation prompt",
			"stage", "extract",
			"error", err,
			"completion", logger.Truncate(resp.Content, 500))
		return nil, err
	}

	slog.InfoContext(ctx, "lead generation completed",
		"prompt_tokens", resp.PromptTokens,
		"completion_tokens", resp.CompletionTokens,
		"finish_reason", resp.FinishReason)

	return &model.Generation{
		ID:               genID,
		Product:          product,
		Customers:        customers,
		Model:            s.llm.Model(),
		Content:          content,
		FinishReason:     resp.FinishReason,
		PromptTokens:     resp.PromptTokens,
		CompletionTokens: resp.CompletionTokens,
		CreatedAt:        time.Now().UTC(),
	}, nil
}
