package request

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	requests := r.Group("/requests")
	{
		requests.GET("", handler.GetAll)
		requests.GET("/:id", handler.GetById)
		requests.PUT("/:id/status", handler.UpdateStatus)
		requests.GET("/:id/document", handler.Document)
	}
}
