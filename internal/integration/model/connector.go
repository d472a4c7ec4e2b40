package model

import (
	"context"
	"fmt"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/intellimulti/chat-backend/internal/config"
	"github.com/intellimulti/chat-backend/internal/entity"
	"github.com/intellimulti/chat-backend/internal/integration/common"
	"github.com/intellimulti/chat-backend/internal/stream"
	pkghttp "github.com/intellimulti/chat-backend/pkg/http"
)

type Connector struct {
	config config.ModelConnectorConfig
	// streams outlive the regular request timeout, so they go through
	// a dedicated client with the stream timeout applied
	connector       *pkghttp.Connector
	streamConnector *pkghttp.Connector
	logger          *zap.Logger
}

func NewConnector(
	cfg config.ModelConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		config:          cfg,
		connector:       common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		streamConnector: common.NewBaseConnector(cfg.HTTPClientConfig, logger, pkghttp.WithRequestTimeout(cfg.StreamTimeout)),
		logger:          logger,
	}
}

// Chat performs a blocking completion and returns the assistant text.
func (c *Connector) Chat(ctx context.Context, messages []entity.ModelMessage) (string, error) {
	ctxzap.Info(ctx, "requesting chat completion",
		zap.String("model", c.config.Model),
		zap.Int("message_count", len(messages)),
	)

	req := &entity.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Stream:      false,
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	}

	var resp entity.ChatCompletionResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.ChatEndpoint, req, &resp); err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("invalid completion response: no choices")
	}

	content := resp.Choices[0].Message.Content

	ctxzap.Info(ctx, "chat completion received", zap.Int("content_length", len(content)))

	return content, nil
}

// StreamChat starts a streaming completion and returns a fragment
// source reading the provider's event stream. The caller must close
// the source.
func (c *Connector) StreamChat(ctx context.Context, messages []entity.ModelMessage) (stream.FragmentSource, error) {
	ctxzap.Info(ctx, "starting streamed chat completion",
		zap.String("model", c.config.Model),
		zap.Int("message_count", len(messages)),
	)

	req := &entity.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Stream:      true,
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	}

	resp, err := c.streamConnector.DoStreamRequest(ctx, http.MethodPost, c.config.ChatEndpoint, req)
	if err != nil {
		return nil, fmt.Errorf("start completion stream: %w", err)
	}

	return newSSESource(resp.Body), nil
}
