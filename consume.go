package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jobalign/worker/internal/database"
	"github.com/jobalign/worker/internal/llm"
	"github.com/streadway/amqp"
)

// retry retries a function up to `attempts` times with a short linear wait.
// Used for the storage and DB round-trips; model calls go through
// llm.Caller, which classifies errors before deciding to retry.
func retry[T any](attempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		wait := time.Duration(500*(i+1)) * time.Millisecond
		time.Sleep(wait)
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

// analyzeResume runs the pipeline for one resume: download, text
// extraction, structured parse, and (when a reviewer is configured) the
// free-text ATS analysis against the session's job description.
func analyzeResume(ctx context.Context, workerConfig *WorkerConfig, currentSession Session, resume database.Resume) ResumeResult {
	result := ResumeResult{
		ResumeID: resume.ID,
		Filename: resume.OriginalFilename,
	}
	jobDescription := currentSession.JobDescription
	if currentSession.JobTitle != "" {
		jobDescription = currentSession.JobTitle + "\n\n" + currentSession.JobDescription
	}
	fail := func(msg string) ResumeResult {
		result.IsErrorResult = true
		result.Error = msg
		return result
	}

	awsClient := s3.NewFromConfig(*workerConfig.AwsConfig, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", workerConfig.R2.AccountID))
	})

	// Network failures on download are transient; retry them.
	fileBytes, err := retry(3, func() ([]byte, error) {
		return DownloadFromR2(ctx, awsClient, workerConfig.R2.Bucket, resume.ObjectKey)
	})
	if err != nil {
		log.Printf("failed to download %s after retries: %v", resume.ObjectKey, err)
		return fail(fmt.Sprintf("file download error: %v", err))
	}

	resumeText, err := ExtractResumeText(resume.Mime, fileBytes)
	if err != nil {
		log.Printf("text extraction failed for %s: %v", resume.ObjectKey, err)
		return fail(fmt.Sprintf("text extraction error: %v", err))
	}

	if workerConfig.Resumes != nil {
		if _, err := workerConfig.Resumes.Save(resume.ID.String(), resumeText); err != nil {
			log.Printf("failed to keep resume text for %s: %v", resume.ID, err)
		}
	}

	prompt, err := llm.ExtractionPrompt(jobDescription, resumeText)
	if err != nil {
		return fail(err.Error())
	}

	// The caller owns the retry/backoff policy for the model call.
	raw, err := workerConfig.Parser.Call(ctx, prompt)
	if err != nil {
		log.Printf("parser failed for %s: %v", resume.ObjectKey, err)
		return fail(err.Error())
	}

	profile, err := llm.Extract(raw)
	if err != nil {
		log.Printf("no structured result for %s: %v", resume.ObjectKey, err)
		return fail(err.Error())
	}
	result.Profile = &profile

	if workerConfig.Reviewer != nil {
		analysisPrompt, err := llm.AnalysisPrompt(jobDescription, resumeText)
		if err != nil {
			result.AnalysisError = err.Error()
			return result
		}
		analysis, err := workerConfig.Reviewer.Call(ctx, analysisPrompt)
		if err != nil {
			// The profile stands on its own; the analysis failure is
			// reported alongside it.
			log.Printf("reviewer failed for %s: %v", resume.ObjectKey, err)
			result.AnalysisError = err.Error()
			return result
		}
		result.Analysis = analysis
	}

	return result
}

// processSession analyzes every resume attached to a session and upserts
// the results envelope.
func processSession(currentSession Session, workerConfig *WorkerConfig) error {
	ctx := context.Background()

	resumes, err := workerConfig.DB.GetResumesBySession(ctx, currentSession.ID)
	if err != nil {
		return fmt.Errorf("error getting resumes for session: %v, err: %v", currentSession.ID, err)
	}

	results := &SessionResults{
		SessionID: currentSession.ID,
	}
	for _, resume := range resumes {
		results.Results = append(results.Results, analyzeResume(ctx, workerConfig, currentSession, resume))
	}
	log.Println("session id: " + currentSession.ID.String() + " analyzed")

	resultsJSON, err := json.Marshal(results.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal analyses results: %w", err)
	}

	_, err = retry(3, func() (any, error) {
		return nil, workerConfig.DB.UpsertAnalysesResults(ctx, database.UpsertAnalysesResultsParams{
			Results:   resultsJSON,
			SessionID: results.SessionID,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to save analyses results after retries: %w", err)
	}

	return nil
}

func worker(id int, workerConfig *WorkerConfig, wg *sync.WaitGroup) {
	defer wg.Done()

	conn, err := amqp.Dial(workerConfig.RabbitMQUrl)
	if err != nil {
		log.Fatal("error dialling rabbitmq: " + err.Error())
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("error connecting to rabbitmq channel: " + err.Error())
	}
	defer ch.Close()
	_, err = ch.QueueDeclare(
		"sessions", // queue name
		true,       // durable (survives broker restarts)
		false,      // auto-delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		log.Fatalf("Failed to declare queue: %v", err)
	}

	msgs, err := ch.Consume(
		"sessions", // queue name
		"",         // consumer tag
		true,       // auto-ack
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		log.Fatal("error consuming rabbitmq message: " + err.Error())
	}

	for msg := range msgs {
		session := Session{}
		err = json.Unmarshal(msg.Body, &session)
		if err != nil {
			log.Printf("error unmarshalling message body. err: %v", err)
			markSession(workerConfig, session, "failed", "analysis failed")
			continue
		}
		log.Printf("Worker %d processing session. session_id: %s", id+1, session.ID)

		markSession(workerConfig, session, "processing", "analysis started")

		err = processSession(session, workerConfig)
		if err != nil {
			log.Printf("error analyzing session_id: %v. err: %v", session.ID, err)
			markSession(workerConfig, session, "failed", "analysis failed")
			continue
		}

		markSession(workerConfig, session, "completed", "analysis completed")
	}
}

// markSession updates the session row and fans the status out on the
// updates exchange. Both are best effort; the worker moves on either way.
func markSession(workerConfig *WorkerConfig, session Session, status, message string) {
	err := workerConfig.DB.UpdateSessionStatus(context.Background(), database.UpdateSessionStatusParams{
		Status: status,
		ID:     session.ID,
	})
	if err != nil {
		log.Printf("error updating session status to %s for session_id: %v. err: %v", status, session.ID, err)
	}

	update := map[string]any{
		"session_id": session.ID,
		"status":     status,
		"message":    message,
		"timestamp":  time.Now(),
	}
	if err := publishSessionUpdate(workerConfig.RabbitConn, session.ID.String(), update); err != nil {
		log.Println("failed to publish update:", err)
	}
}

func (workerConfig *WorkerConfig) StartConsumerWorkerPool(numWorkers int) {
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for i := range numWorkers {
		log.Println("worker id ", i+1, "started")
		go worker(i, workerConfig, &wg)
	}
	wg.Wait() // block until all workers finish
}
