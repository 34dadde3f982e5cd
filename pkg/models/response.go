package models

import "time"

// ExtractResponse represents the response from a document extraction request
type ExtractResponse struct {
	Success    bool   `json:"success"`
	Filename   string `json:"filename"`
	Text       string `json:"text"`
	Characters int    `json:"characters"`
	RequestID  string `json:"request_id"`
}

// GenerateCVResponse represents the response from a CV generation request
type GenerateCVResponse struct {
	Success        bool            `json:"success"`
	ID             string          `json:"id"`
	LaTeX          string          `json:"latex"`
	Mode           EnhancementMode `json:"mode"`
	Language       Language        `json:"language"`
	ProcessingTime time.Duration   `json:"processing_time"`
	RequestID      string          `json:"request_id"`
}

// GenerateCoverLetterResponse represents the response from a cover letter request
type GenerateCoverLetterResponse struct {
	Success        bool          `json:"success"`
	ID             string        `json:"id"`
	CoverLetter    string        `json:"cover_letter"`
	Language       Language      `json:"language"`
	ProcessingTime time.Duration `json:"processing_time"`
	RequestID      string        `json:"request_id"`
}

// TemplateInfo describes one entry of the template library
type TemplateInfo struct {
	Name    string `json:"name"`
	Default bool   `json:"default"`
}

// TemplateListResponse represents the template library listing
type TemplateListResponse struct {
	Success   bool           `json:"success"`
	Templates []TemplateInfo `json:"templates"`
	Count     int            `json:"count"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Code      string    `json:"code,omitempty"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}
