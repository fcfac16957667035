package api

import (
	"murmur/feedback-api/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type registerBody struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) UserRegister(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data registerBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"message":   "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	code, err := a.Store.Register(data.Username, data.Email, data.Password)
	if err != nil {
		respondErr(c, requestID, err)
		return
	}

	// The pending record is already persisted at this point. A mail
	// failure still fails the request; the slot stays reusable, so the
	// user can simply sign up again.
	if err := service.SendVerificationMail(data.Email, data.Username, code); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"message":   "Failed to send verification mail",
			"requestID": requestID,
		})

		zap.L().Error("Failed to send verification email", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	respondOK(c, http.StatusCreated, "User registered successfully. Please verify your email")
}
