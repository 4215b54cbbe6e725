package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"neoito.app/leadgen/internal/http/handler"
	"neoito.app/leadgen/internal/service"
)

type RouterConfig struct {
	Enveloped bool
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	leadGenHandler := handler.NewLeadGenHandler(services.LeadGen(), cfg.Enveloped)
	LeadGenRouter(router, leadGenHandler)
}
