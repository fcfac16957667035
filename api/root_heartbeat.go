package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Heartbeat answers liveness probes. The dashboard pings it before
// rendering so it can tell a dead backend apart from an empty inbox.
func (a *API) Heartbeat(c *gin.Context) {
	c.Status(http.StatusOK)
}
