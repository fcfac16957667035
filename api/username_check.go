package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UsernameCheck backs the signup form's debounced availability query.
// "Taken" is a successful answer, not an error; only a malformed
// candidate produces a 400.
func (a *API) UsernameCheck(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	available, err := a.Store.CheckUsername(c.Query("username"))
	if err != nil {
		respondErr(c, requestID, err)
		return
	}

	if !available {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "Username is already taken",
		})
		return
	}

	respondOK(c, http.StatusOK, "Username is unique")
}
