package chat

import (
	"go-leavebot/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	r.POST("/chat", middleware.RateLimitByIP(5, 10), handler.Message)
}
