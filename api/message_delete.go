package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) MessageDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	messageID := c.Param("id")
	if messageID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"message":   "Message ID is missing",
			"requestID": requestID,
		})
		return
	}

	if err := a.Store.DeleteMessage(userID, messageID); err != nil {
		respondErr(c, requestID, err)
		return
	}

	respondOK(c, http.StatusOK, "Message deleted")
}
