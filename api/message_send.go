package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type sendBody struct {
	Username string `json:"username"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// MessageSend is the anonymous submission endpoint. No session, no
// sender identity, no rate limit: the accept flag is the only gate.
func (a *API) MessageSend(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data sendBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"message":   "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := a.Store.Submit(data.Username, data.Content, data.Category); err != nil {
		respondErr(c, requestID, err)
		return
	}

	respondOK(c, http.StatusOK, "Message sent successfully")
}
