package llm

import (
	"fmt"
	"strings"
)

const analysisTemplate = `You are an expert ATS Resume Optimization Agent.

Your tasks:
1. Compare the resume with the job description provided by the user.
2. Provide the following:
   - Resume to Job match percentage (0-100)
   - Missing technical skills / keywords
   - Weak areas in the resume
   - Suggested improvements
   - Recommended bullet points tailored to the job requirements
   - Improved professional summary
   - Final optimized resume text

JOB DESCRIPTION:
%s

RESUME:
%s

Provide your analysis now.`

const extractionTemplate = `You are a Resume Parsing AI Agent.

Extract clean, structured JSON from the following resume text. Pick
ats_keywords that are relevant to the job description.
Do NOT add explanations. JSON only.

JOB DESCRIPTION:
%s

RESUME TEXT:
%s

Return JSON in the following format:

{
    "name": "",
    "email": "",
    "phone": "",
    "location": "",
    "summary": "",
    "skills": [],
    "experience": [
        {
            "job_title": "",
            "company": "",
            "location": "",
            "start_date": "",
            "end_date": "",
            "description": []
        }
    ],
    "education": [
        {
            "degree": "",
            "school": "",
            "year": ""
        }
    ],
    "certifications": [],
    "projects": [],
    "ats_keywords": []
}`

// AnalysisPrompt builds the free-text ATS analysis prompt. Both inputs are
// embedded verbatim, so identical inputs always produce identical prompts.
func AnalysisPrompt(jobDescription, resumeText string) (string, error) {
	if err := requireNonBlank("job description", jobDescription); err != nil {
		return "", err
	}
	if err := requireNonBlank("resume text", resumeText); err != nil {
		return "", err
	}
	return fmt.Sprintf(analysisTemplate, jobDescription, resumeText), nil
}

// ExtractionPrompt builds the structured JSON extraction prompt.
func ExtractionPrompt(jobDescription, resumeText string) (string, error) {
	if err := requireNonBlank("job description", jobDescription); err != nil {
		return "", err
	}
	if err := requireNonBlank("resume text", resumeText); err != nil {
		return "", err
	}
	return fmt.Sprintf(extractionTemplate, jobDescription, resumeText), nil
}

func requireNonBlank(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyInput, field)
	}
	return nil
}
