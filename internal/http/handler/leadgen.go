package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"neoito.app/leadgen/common/id"
	"neoito.app/leadgen/internal/http/dto"
	"neoito.app/leadgen/internal/service"
)

const (
	GenerationIDHeader = "X-Generation-Id"

	internalServerError = "Internal server error"
)

type LeadGenHandler struct {
	leadGen   service.LeadGenService
	enveloped bool
}

// NewLeadGenHandler builds the /neoito-gen handler. With enveloped set the
// extracted text is wrapped in {"data", "message"}; otherwise it is sent as the raw body.
func NewLeadGenHandler(leadGen service.LeadGenService, enveloped bool) *LeadGenHandler {
	dto.RegisterJSONFieldNames()
	return &LeadGenHandler{
		leadGen:   leadGen,
		enveloped: enveloped,
	}
}

func (h *LeadGenHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := c.GetRawData()
	if err != nil {
		slog.WarnContext(ctx, "failed to read request body", "error", err)
	}

	// A body that is not a JSON object is validated as if no fields were sent.
	req, err := dto.DecodeLeadGenRequest(body)
	if err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
	}

	if err := binding.Validator.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ValidationErrorResponse{Errors: dto.ToFieldErrors(err)})
		return
	}

	gen, err := h.leadGen.Generate(ctx, req.Product, req.Customers)
	if err != nil {
		slog.ErrorContext(ctx, "error processing request", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: internalServerError})
		return
	}

	c.Header(GenerationIDHeader, id.Format(gen.ID))

	if h.enveloped {
		c.JSON(http.StatusOK, dto.GenerationResponse{Data: gen.Content, Message: "success"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(gen.Content))
}
