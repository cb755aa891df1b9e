package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Root is the service banner with an endpoint map.
func Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Soft Jobs API up and running",
		"endpoints": gin.H{
			"register": "POST /usuarios",
			"login":    "POST /login",
			"profile":  "GET /usuarios",
		},
	})
}
