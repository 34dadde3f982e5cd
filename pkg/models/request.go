package models

// CompileRequest represents the request payload for compiling LaTeX to PDF.
// GenerationID is optional; when set, the produced PDF is attached to that
// generation's stored artifacts.
type CompileRequest struct {
	LaTeX        string `json:"latex" validate:"required"`
	GenerationID string `json:"generation_id,omitempty"`
}
