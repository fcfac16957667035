package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type acceptBody struct {
	AcceptMessages *bool `json:"acceptMessages"`
}

func (a *API) AcceptMessagesFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	accepting, err := a.Store.Accepting(userID)
	if err != nil {
		respondErr(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"isAcceptingMessages": accepting,
	})
}

func (a *API) AcceptMessagesUpdate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data acceptBody
	if err := c.ShouldBind(&data); err != nil || data.AcceptMessages == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"message":   "acceptMessages field is required",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := a.Store.SetAccepting(userID, *data.AcceptMessages); err != nil {
		respondErr(c, requestID, err)
		return
	}

	if *data.AcceptMessages {
		respondOK(c, http.StatusOK, "You are now accepting messages")
		return
	}

	respondOK(c, http.StatusOK, "You are no longer accepting messages")
}
