package models

import (
	"strings"
	"time"
)

// EnhancementMode controls how far the LLM may rewrite the original CV content
type EnhancementMode string

const (
	ModeConservative EnhancementMode = "conservative"
	ModeBalanced     EnhancementMode = "balanced"
	ModeAggressive   EnhancementMode = "aggressive"
)

// ParseEnhancementMode resolves a user-supplied mode string to one of the three
// enhancement modes. Matching is case-insensitive and substring-based so the
// UI labels ("Conservative (Styling Only)") resolve the same as the bare
// keywords. Anything unrecognized falls back to balanced.
func ParseEnhancementMode(s string) EnhancementMode {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "conservative"):
		return ModeConservative
	case strings.Contains(lower, "aggressive"):
		return ModeAggressive
	default:
		return ModeBalanced
	}
}

// Label returns the display name used in prompts and UIs
func (m EnhancementMode) Label() string {
	switch m {
	case ModeConservative:
		return "Conservative (Styling Only)"
	case ModeAggressive:
		return "Aggressive (Maximum Impact)"
	default:
		return "Balanced (Add Relevant Details)"
	}
}

// Language is the output language for generated documents
type Language string

const (
	LanguageEnglish Language = "English"
	LanguageBahasa  Language = "Bahasa Indonesia"
)

// ParseLanguage resolves a user-supplied language string, defaulting to English
func ParseLanguage(s string) Language {
	lower := strings.ToLower(s)
	if strings.Contains(lower, "bahasa") || strings.Contains(lower, "indonesia") {
		return LanguageBahasa
	}
	return LanguageEnglish
}

// GenerationRequest carries everything needed to tailor a CV or write a cover
// letter for one job application. Constructed once per generation and treated
// as immutable afterwards.
type GenerationRequest struct {
	CVText         string `json:"cv_text" validate:"required"`
	JobDescription string `json:"job_description" validate:"required"`
	CompanyName    string `json:"company_name" validate:"required"`
	JobTitle       string `json:"job_title,omitempty"`
	Mode           string `json:"mode,omitempty"`
	Language       string `json:"language,omitempty"`
	Template       string `json:"template,omitempty"`
	TemplateName   string `json:"template_name,omitempty" validate:"omitempty,template_name"`
}

// EnhancementMode returns the parsed mode for this request
func (r *GenerationRequest) EnhancementMode() EnhancementMode {
	return ParseEnhancementMode(r.Mode)
}

// OutputLanguage returns the parsed output language for this request
func (r *GenerationRequest) OutputLanguage() Language {
	return ParseLanguage(r.Language)
}

// JobContext returns the job description as it should appear in prompts. When
// a job title is supplied it is prefixed as a labeled line so the model sees
// it alongside the description.
func (r *GenerationRequest) JobContext() string {
	if r.JobTitle != "" {
		return "Job Title: " + r.JobTitle + "\n\n" + r.JobDescription
	}
	return r.JobDescription
}

// CVGeneration is the result of one tailored-CV generation
type CVGeneration struct {
	ID             string          `json:"id"`
	LaTeX          string          `json:"latex"`
	Mode           EnhancementMode `json:"mode"`
	Language       Language        `json:"language"`
	ProcessingTime time.Duration   `json:"processing_time"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CoverLetterGeneration is the result of one cover-letter generation
type CoverLetterGeneration struct {
	ID             string        `json:"id"`
	CoverLetter    string        `json:"cover_letter"`
	Language       Language      `json:"language"`
	ProcessingTime time.Duration `json:"processing_time"`
	CreatedAt      time.Time     `json:"created_at"`
}

// CompilationResult is the outcome of one LaTeX-to-PDF compilation. Exactly
// one of PDF or ErrorMessage is populated according to Success.
type CompilationResult struct {
	Success      bool   `json:"success"`
	PDF          []byte `json:"-"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// GenerationRecord is the stored artifact bundle for one generation, kept in
// Redis under a TTL so artifacts remain downloadable after the response.
type GenerationRecord struct {
	ID          string    `json:"id"`
	CVLaTeX     string    `json:"cv_latex,omitempty"`
	CoverLetter string    `json:"cover_letter,omitempty"`
	PDF         []byte    `json:"pdf,omitempty"`
	Company     string    `json:"company,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Artifact names match the original download filenames
const (
	ArtifactCVTeX           = "cv.tex"
	ArtifactCVPDF           = "cv.pdf"
	ArtifactCoverLetterTxt  = "cover_letter.txt"
	ArtifactCoverLetterDocx = "cover_letter.docx"
)

// ArtifactContentType returns the MIME type an artifact is served under. The
// cover_letter.docx artifact carries plain text under the Word MIME type,
// matching the original download behavior.
func ArtifactContentType(name string) (string, bool) {
	switch name {
	case ArtifactCVTeX, ArtifactCoverLetterTxt:
		return "text/plain", true
	case ArtifactCVPDF:
		return "application/pdf", true
	case ArtifactCoverLetterDocx:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document", true
	default:
		return "", false
	}
}
