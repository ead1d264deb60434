package handlers

import (
	"net/http"

	"offerly/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the latest stored health snapshot.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}
