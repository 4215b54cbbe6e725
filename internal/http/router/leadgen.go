package router

import (
	"github.com/gin-gonic/gin"

	"neoito.app/leadgen/internal/http/handler"
)

func LeadGenRouter(r gin.IRoutes, h *handler.LeadGenHandler) {
	r.POST("/neoito-gen", h.Generate)
}
