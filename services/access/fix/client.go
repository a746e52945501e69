// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package fix

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// envAPIKey is the environment variable holding the API key.
	envAPIKey = "OPENAI_API_KEY"

	// secretAPIKeyPath is the container-secret fallback location.
	secretAPIKeyPath = "/run/secrets/openai_api_key"

	// envModel overrides the default completion model.
	envModel = "OPENAI_MODEL"

	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o-mini"

	// DefaultMaxTokens caps the completion length. Fixes are small
	// snippets; anything longer than this is not a usable replacement.
	DefaultMaxTokens = 512

	// DefaultTemperature keeps completions deterministic-ish.
	DefaultTemperature = 0.2
)

// =============================================================================
// COMPLETER INTERFACE
// =============================================================================

// Completer issues a single completion request.
//
// Implementations make exactly one remote call per Complete invocation;
// retries are the caller's decision (and this pipeline never retries).
type Completer interface {
	// Complete sends the system and user prompts and returns the raw
	// reply text of the first choice.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// =============================================================================
// OPENAI CLIENT
// =============================================================================

// OpenAIClient is the production Completer backed by the OpenAI API.
//
// Thread Safety: Safe for concurrent use.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// ClientOption configures an OpenAIClient.
type ClientOption func(*OpenAIClient)

// WithModel overrides the completion model.
func WithModel(model string) ClientOption {
	return func(c *OpenAIClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithMaxTokens overrides the completion token cap.
func WithMaxTokens(n int) ClientOption {
	return func(c *OpenAIClient) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float32) ClientOption {
	return func(c *OpenAIClient) {
		if t >= 0 && t <= 2 {
			c.temperature = t
		}
	}
}

// ResolveAPIKey finds the completion-service credential.
//
// Description:
//
//	Checks the environment variable first, then the container secret
//	file. Returns an empty string when neither is present; callers
//	treat that as a configuration error, not a process failure.
func ResolveAPIKey() string {
	if key := strings.TrimSpace(os.Getenv(envAPIKey)); key != "" {
		return key
	}
	if data, err := os.ReadFile(secretAPIKeyPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// NewOpenAIClient creates a client from an explicit API key.
//
// Inputs:
//
//	apiKey - The completion-service credential, must be non-empty
//	opts - Optional configuration
//
// Outputs:
//
//	*OpenAIClient - The configured client
//	error - ErrNoCredential if apiKey is empty
func NewOpenAIClient(apiKey string, opts ...ClientOption) (*OpenAIClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNoCredential
	}

	model := os.Getenv(envModel)
	if model == "" {
		model = DefaultModel
	}

	c := &OpenAIClient{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewOpenAIClientFromEnv creates a client using ResolveAPIKey.
func NewOpenAIClientFromEnv(opts ...ClientOption) (*OpenAIClient, error) {
	return NewOpenAIClient(ResolveAPIKey(), opts...)
}

// Model returns the configured completion model.
func (c *OpenAIClient) Model() string {
	return c.model
}

// Complete implements Completer.
//
// Outputs:
//
//	string - The first choice's message content
//	error - *CompletionError wrapping ErrCompletionFailed on any
//	        non-success status or transport failure
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if ctx == nil {
		return "", fmt.Errorf("ctx must not be nil")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &CompletionError{
				StatusCode: apiErr.HTTPStatusCode,
				Status:     apiErr.Message,
				Err:        err,
			}
		}
		return "", &CompletionError{Status: err.Error(), Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &CompletionError{Status: "empty choices in response", Err: ErrCompletionFailed}
	}
	return resp.Choices[0].Message.Content, nil
}
