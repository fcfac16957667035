// Package suggest talks to an OpenAI-compatible chat completions API
// to produce message-prompt suggestions for anonymous senders.
package suggest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Prompt asks for three sender-friendly questions in one string. The
// frontend splits the result on "||".
const Prompt = "Create a list of three open-ended and engaging questions formatted as a single string. Each question should be separated by '||'. These questions are for an anonymous social messaging platform and should be suitable for a diverse audience. Avoid personal or sensitive topics, focusing instead on universal themes that encourage friendly interaction."

type Client struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64

	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL:     viper.GetString("suggest.api_base_url"),
		APIKey:      viper.GetString("suggest.api_key"),
		Model:       viper.GetString("suggest.model"),
		MaxTokens:   viper.GetInt("suggest.max_tokens"),
		Temperature: viper.GetFloat64("suggest.temperature"),
		httpClient: &http.Client{
			Timeout: 120 * time.Second, // Longer timeout for streaming
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	Stream      bool          `json:"stream"`
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content,omitempty"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}

// ChunkFunc receives each text fragment as it arrives off the wire
type ChunkFunc func(chunk string) error

// Stream sends the prompt with stream=true and invokes cb for every
// content delta until the upstream signals [DONE]. It returns the full
// accumulated text. An error before the first byte means nothing was
// written to cb, so the caller can still fail the whole request. If cb
// itself fails the stream is abandoned and the text so far is returned
// alongside the error.
func (c *Client) Stream(ctx context.Context, prompt string, cb ChunkFunc) (string, error) {
	reqBody := chatRequest{
		Model:       c.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
		Stream:      true,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("completions API returned status %d: %s", resp.StatusCode, string(body))
	}

	var full strings.Builder
	reader := bufio.NewReader(resp.Body)

	for {
		select {
		case <-ctx.Done():
			return full.String(), ctx.Err()
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				break
			}

			return full.String(), fmt.Errorf("failed to read stream: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "data: ") {
			continue
		}

		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			break
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			zap.L().Warn("Failed to parse stream chunk", zap.Error(err))
			continue
		}

		if len(chunk.Choices) == 0 {
			continue
		}

		content := chunk.Choices[0].Delta.Content
		if content == "" {
			continue
		}

		full.WriteString(content)

		if cb != nil {
			if err := cb(content); err != nil {
				// The consumer is gone; finishing the completion would
				// just burn upstream tokens nobody reads
				return full.String(), fmt.Errorf("chunk callback: %w", err)
			}
		}
	}

	return full.String(), nil
}
