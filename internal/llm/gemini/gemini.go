// Package gemini adapts a Gemini llmagent behind the caller's Generator
// interface. Each Generate runs in its own throwaway in-memory session.
package gemini

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jobalign/worker/internal/llm"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	adkgemini "google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

// Config carries the agent construction state. ModelID defaults to
// gemini-2.5-pro when empty.
type Config struct {
	APIKey      string
	ModelID     string
	Name        string
	Instruction string
}

type Generator struct {
	runner   *runner.Runner
	sessions session.Service
	appName  string
}

// New builds the agent and runner once; a missing API key is a
// construction failure, not a retryable call failure.
func New(ctx context.Context, cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: empty gemini api key", llm.ErrInvalidConfig)
	}
	if cfg.ModelID == "" {
		cfg.ModelID = "gemini-2.5-pro"
	}
	if cfg.Name == "" {
		cfg.Name = "resume analyzer"
	}

	model, err := adkgemini.NewModel(ctx, cfg.ModelID, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}

	analyzer, err := llmagent.New(llmagent.Config{
		Name:        cfg.Name,
		Model:       model,
		Description: "Analyze Resume",
		Instruction: cfg.Instruction,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	sessions := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        analyzer.Name(),
		Agent:          analyzer,
		SessionService: sessions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	return &Generator{runner: r, sessions: sessions, appName: analyzer.Name()}, nil
}

// Generate sends the prompt as a single user message and collects the
// agent's final response text. An empty reply is returned as-is; the caller
// decides whether to retry it.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	created, err := g.sessions.Create(ctx, &session.CreateRequest{
		AppName:   g.appName,
		UserID:    uuid.NewString(),
		SessionID: uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	defer func() {
		_ = g.sessions.Delete(ctx, &session.DeleteRequest{
			AppName:   created.Session.AppName(),
			UserID:    created.Session.UserID(),
			SessionID: created.Session.ID(),
		})
	}()

	stream := g.runner.Run(ctx, created.Session.UserID(), created.Session.ID(), &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: prompt},
		},
	}, agent.RunConfig{})

	var output string
	for event, err := range stream {
		if err != nil {
			return "", err
		}
		if event != nil && event.IsFinalResponse() && len(event.Content.Parts) > 0 {
			output = event.Content.Parts[0].Text
		}
	}
	return output, nil
}
