package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type callFunc func(ctx context.Context, client *genai.Client) (*genai.GenerateContentResponse, error)

// GenerateText sends a single text prompt.
func (c *implClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.call(ctx, "generate text", func(ctx context.Context, client *genai.Client) (*genai.GenerateContentResponse, error) {
		return client.Models.GenerateContent(ctx, c.opts.Model, genai.Text(prompt), nil)
	})
}

// GenerateFromAudio uploads the clip with the Files API and asks the model to
// follow instruction about it.
func (c *implClient) GenerateFromAudio(ctx context.Context, audioPath, mimeType, instruction string) (string, error) {
	return c.call(ctx, "generate from audio", func(ctx context.Context, client *genai.Client) (*genai.GenerateContentResponse, error) {
		file, err := client.Files.UploadFromPath(ctx, audioPath, &genai.UploadFileConfig{MIMEType: mimeType})
		if err != nil {
			return nil, fmt.Errorf("upload audio: %w", err)
		}
		defer c.deleteFile(ctx, client, file.Name)

		c.logger.Debug(ctx, "Uploaded audio %s as %s", audioPath, file.URI)

		contents := []*genai.Content{
			genai.NewContentFromParts([]*genai.Part{
				genai.NewPartFromText(instruction),
				genai.NewPartFromURI(file.URI, file.MIMEType),
			}, genai.RoleUser),
		}
		return client.Models.GenerateContent(ctx, c.opts.Model, contents, nil)
	})
}

// Chat sends the full history and returns the model's next turn.
func (c *implClient) Chat(ctx context.Context, history []Message) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("chat: empty history")
	}
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		contents = append(contents, genai.NewContentFromText(m.Text, genai.Role(m.Role)))
	}
	return c.call(ctx, "chat", func(ctx context.Context, client *genai.Client) (*genai.GenerateContentResponse, error) {
		return client.Models.GenerateContent(ctx, c.opts.ChatModel, contents, nil)
	})
}

// call runs fn with the current key and rotates keys on 429 / quota errors.
// Any other error is returned as is.
func (c *implClient) call(ctx context.Context, op string, fn callFunc) (string, error) {
	attempts := len(c.apiKeys)
	if attempts == 0 {
		return "", ErrMissingAPIKey
	}

	var lastErr error
	for range attempts {
		idx := c.keyIndex()

		client, err := c.client(ctx, idx)
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			c.rotateKey(idx)
			continue
		}

		result, err := fn(ctx, client)
		if err != nil {
			if isQuotaError(err) {
				c.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				c.rotateKey(idx)
				lastErr = err
				continue
			}
			return "", fmt.Errorf("%s: %w", op, err)
		}

		return responseText(result)
	}

	return "", fmt.Errorf("%s: all API keys exhausted: %w", op, lastErr)
}

func (c *implClient) keyIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentKey
}

// rotateKey moves past idx unless another caller already did.
func (c *implClient) rotateKey(idx int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.currentKey == idx {
		c.currentKey = (c.currentKey + 1) % len(c.apiKeys)
	}
}

func (c *implClient) client(ctx context.Context, idx int) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cl, ok := c.clients[idx]; ok {
		return cl, nil
	}

	cfg := &genai.ClientConfig{
		APIKey:  c.apiKeys[idx],
		Backend: genai.BackendGeminiAPI,
	}
	if c.opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.opts.BaseURL}
	}

	cl, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.clients[idx] = cl
	return cl, nil
}

func (c *implClient) deleteFile(ctx context.Context, client *genai.Client, name string) {
	if name == "" {
		return
	}
	if _, err := client.Files.Delete(ctx, name, nil); err != nil {
		c.logger.Warn(ctx, "Failed to delete uploaded file %s: %v", name, err)
	}
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func responseText(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	if text.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return text.String(), nil
}
