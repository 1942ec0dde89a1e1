package main

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/google/uuid"
	"github.com/jobalign/worker/internal/database"
	"github.com/jobalign/worker/internal/llm"
	"github.com/jobalign/worker/internal/resumestore"
	"github.com/streadway/amqp"
)

type R2Config struct {
	AccountID string
	Bucket    string
	AccessKey string
	SecretKey string
}

type WorkerConfig struct {
	DB          *database.Queries
	R2          *R2Config
	AwsConfig   *aws.Config
	RabbitConn  *amqp.Connection
	RabbitMQUrl string
	// Parser extracts a structured profile from each resume (Gemini).
	Parser *llm.Caller
	// Reviewer writes the free-text ATS analysis (OpenAI). Optional; nil
	// skips the analysis pass.
	Reviewer *llm.Caller
	// Resumes keeps extracted text on disk when configured. Optional.
	Resumes *resumestore.Store
}

// ResumeResult is one resume's slot in the session results envelope. A
// failed resume carries the error text verbatim, never a degraded profile.
type ResumeResult struct {
	ResumeID      uuid.UUID    `json:"resume_id"`
	Filename      string       `json:"filename"`
	Profile       *llm.Profile `json:"profile,omitempty"`
	Analysis      string       `json:"analysis,omitempty"`
	AnalysisError string       `json:"analysis_error,omitempty"`
	IsErrorResult bool         `json:"is_error_result"`
	Error         string       `json:"error,omitempty"`
}

type SessionResults struct {
	ID        uuid.UUID      `json:"id"`
	Results   []ResumeResult `json:"results"`
	CreatedAt time.Time      `json:"created_at"`
	SessionID uuid.UUID      `json:"session_id"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type Session struct {
	ID             uuid.UUID `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Name           string    `json:"name"`
	UserID         uuid.UUID `json:"user_id"`
	Status         string    `json:"status"`
	JobTitle       string    `json:"job_title"`
	JobDescription string    `json:"job_description"`
}
