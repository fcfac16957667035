package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MessagesFetch lists the owner's received messages newest-first. An
// empty inbox is a success with an empty array.
func (a *API) MessagesFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	messages, err := a.Store.Messages(userID)
	if err != nil {
		respondErr(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"messages": messages,
	})
}
