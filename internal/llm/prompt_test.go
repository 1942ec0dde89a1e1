package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisPromptContainsInputs(t *testing.T) {
	jd := "We need a Go engineer with Postgres and RabbitMQ experience."
	resume := "Backend engineer, 5 years of Go, Postgres, AMQP."

	prompt, err := AnalysisPrompt(jd, resume)
	require.NoError(t, err)
	assert.Contains(t, prompt, jd)
	assert.Contains(t, prompt, resume)
}

func TestAnalysisPromptIsDeterministic(t *testing.T) {
	first, err := AnalysisPrompt("jd", "resume")
	require.NoError(t, err)
	second, err := AnalysisPrompt("jd", "resume")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAnalysisPromptRejectsBlankInputs(t *testing.T) {
	_, err := AnalysisPrompt("   \n\t", "resume")
	require.ErrorIs(t, err, ErrEmptyInput)
	assert.Contains(t, err.Error(), "job description")

	_, err = AnalysisPrompt("jd", "")
	require.ErrorIs(t, err, ErrEmptyInput)
	assert.Contains(t, err.Error(), "resume text")
}

func TestExtractionPromptContainsInputs(t *testing.T) {
	jd := "QA Automation Engineer with Playwright experience."
	resume := "Jane Doe, QA engineer, Austin TX."

	prompt, err := ExtractionPrompt(jd, resume)
	require.NoError(t, err)
	assert.Contains(t, prompt, jd)
	assert.Contains(t, prompt, resume)
	assert.Contains(t, prompt, "ats_keywords")
}

func TestExtractionPromptRejectsBlankInputs(t *testing.T) {
	_, err := ExtractionPrompt("jd", " ")
	require.ErrorIs(t, err, ErrEmptyInput)
	assert.Contains(t, err.Error(), "resume text")

	_, err = ExtractionPrompt("", "resume")
	require.ErrorIs(t, err, ErrEmptyInput)
	assert.Contains(t, err.Error(), "job description")
}
