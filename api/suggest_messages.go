package api

import (
	"murmur/feedback-api/apperror"
	"murmur/feedback-api/suggest"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SuggestMessages proxies the completions API and relays text chunks
// as they arrive. Once the first chunk is on the wire the status is
// committed, so a mid-stream failure just ends the stream early.
func (a *API) SuggestMessages(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	started := false

	_, err := a.Suggest.Stream(c.Request.Context(), suggest.Prompt, func(chunk string) error {
		if !started {
			started = true
			c.Header("Content-Type", "text/plain; charset=utf-8")
			c.Header("Cache-Control", "no-cache")
			c.Status(http.StatusOK)
		}

		if _, err := c.Writer.WriteString(chunk); err != nil {
			return err
		}

		c.Writer.Flush()
		return nil
	})
	if err != nil && !started {
		respondErr(c, requestID, apperror.Upstream("Failed to generate suggestions"))

		zap.L().Error("Suggestion stream failed", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err != nil {
		zap.L().Warn("Suggestion stream ended early", zap.Error(err), zap.String("requestID", requestID))
	}
}
