package tailor

import (
	"context"
	"strings"
	"time"

	"cvtailor/internal/config"
	"cvtailor/internal/latex"
	"cvtailor/internal/llm"
	"cvtailor/internal/logging"
	"cvtailor/internal/storage"
	"cvtailor/pkg/models"
	"cvtailor/pkg/utils"
)

// Completer is the single operation the pipeline needs from the LLM layer
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// InputError reports a required field missing from a generation request.
// Message is what the user sees, in the order the fields are checked.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string { return e.Message }

// ValidateRequest checks the required inputs in a fixed order so the user
// is told about one missing field at a time: CV first, then job
// description, then company name.
func ValidateRequest(req *models.GenerationRequest) error {
	switch {
	case strings.TrimSpace(req.CVText) == "":
		return &InputError{Field: "cv_text", Message: "Please upload your CV first."}
	case strings.TrimSpace(req.JobDescription) == "":
		return &InputError{Field: "job_description", Message: "Please enter the job description."}
	case strings.TrimSpace(req.CompanyName) == "":
		return &InputError{Field: "company_name", Message: "Please enter the company name."}
	}
	return nil
}

// Pipeline runs the generation flow: validate inputs, resolve the template,
// build the prompt, complete it, sanitize the output and persist artifacts.
type Pipeline struct {
	cfg       *config.Config
	completer Completer
	templates *latex.TemplateStore
	compiler  *latex.Compiler
	store     *storage.Client
	logger    logging.Logger
}

// NewPipeline creates a generation pipeline. store may be nil when artifact
// persistence is disabled; generations then live only in their responses.
func NewPipeline(cfg *config.Config, completer Completer, templates *latex.TemplateStore, compiler *latex.Compiler, store *storage.Client) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		completer: completer,
		templates: templates,
		compiler:  compiler,
		store:     store,
		logger:    logging.GetGlobalLogger(),
	}
}

// Templates returns the template library backing this pipeline
func (p *Pipeline) Templates() *latex.TemplateStore {
	return p.templates
}

// Compiler returns the LaTeX compiler backing this pipeline
func (p *Pipeline) Compiler() *latex.Compiler {
	return p.compiler
}

// GenerateCV produces a tailored CV as LaTeX source for the given request
func (p *Pipeline) GenerateCV(ctx context.Context, req *models.GenerationRequest) (*models.CVGeneration, error) {
	start := time.Now()

	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	template, err := p.resolveTemplate(req)
	if err != nil {
		return nil, err
	}

	prompted := *req
	prompted.Template = template

	raw, err := p.completer.Complete(ctx, llm.BuildCVPrompt(&prompted))
	if err != nil {
		return nil, err
	}

	generation := &models.CVGeneration{
		ID:             utils.GenerateGenerationID(),
		LaTeX:          llm.CleanCompletion(raw),
		Mode:           req.EnhancementMode(),
		Language:       req.OutputLanguage(),
		ProcessingTime: time.Since(start),
		CreatedAt:      time.Now().UTC(),
	}

	p.saveRecord(ctx, &models.GenerationRecord{
		ID:        generation.ID,
		CVLaTeX:   generation.LaTeX,
		Company:   req.CompanyName,
		CreatedAt: generation.CreatedAt,
	})

	p.logger.Info("CV generation completed", map[string]interface{}{
		"generation_id":   generation.ID,
		"mode":            string(generation.Mode),
		"language":        string(generation.Language),
		"processing_time": generation.ProcessingTime.String(),
	})
	return generation, nil
}

// GenerateCoverLetter produces a cover letter as plain text for the given
// request. Templates do not apply here; the model writes free-form prose.
func (p *Pipeline) GenerateCoverLetter(ctx context.Context, req *models.GenerationRequest) (*models.CoverLetterGeneration, error) {
	start := time.Now()

	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	raw, err := p.completer.Complete(ctx, llm.BuildCoverLetterPrompt(req))
	if err != nil {
		return nil, err
	}

	generation := &models.CoverLetterGeneration{
		ID:             utils.GenerateGenerationID(),
		CoverLetter:    llm.CleanCompletion(raw),
		Language:       req.OutputLanguage(),
		ProcessingTime: time.Since(start),
		CreatedAt:      time.Now().UTC(),
	}

	p.saveRecord(ctx, &models.GenerationRecord{
		ID:          generation.ID,
		CoverLetter: generation.CoverLetter,
		Company:     req.CompanyName,
		CreatedAt:   generation.CreatedAt,
	})

	p.logger.Info("Cover letter generation completed", map[string]interface{}{
		"generation_id":   generation.ID,
		"language":        string(generation.Language),
		"processing_time": generation.ProcessingTime.String(),
	})
	return generation, nil
}

// CompilePDF turns LaTeX source into PDF bytes. When the request names a
// stored generation, the PDF is attached to its artifact record.
func (p *Pipeline) CompilePDF(ctx context.Context, req *models.CompileRequest) ([]byte, error) {
	if strings.TrimSpace(req.LaTeX) == "" {
		return nil, &InputError{Field: "latex", Message: "Please provide LaTeX source to compile."}
	}

	pdf, err := p.compiler.Compile(ctx, req.LaTeX)
	if err != nil {
		return nil, err
	}

	if req.GenerationID != "" && p.store != nil {
		if err := p.store.AttachPDF(ctx, req.GenerationID, pdf); err != nil {
			p.logger.Warn("Failed to attach PDF to generation record", map[string]interface{}{
				"generation_id": req.GenerationID,
				"error":         err.Error(),
			})
		}
	}
	return pdf, nil
}

// resolveTemplate picks the LaTeX template for a request. An inline
// template wins over a named one; with neither, the configured default
// applies when present.
func (p *Pipeline) resolveTemplate(req *models.GenerationRequest) (string, error) {
	if strings.TrimSpace(req.Template) != "" {
		return req.Template, nil
	}
	if req.TemplateName != "" {
		return p.templates.Load(req.TemplateName)
	}
	return p.templates.Default(), nil
}

// saveRecord persists artifacts when a store is configured. Persistence is
// best-effort: the generation already succeeded and its content rides in
// the response, so a storage failure only loses the download copy.
func (p *Pipeline) saveRecord(ctx context.Context, record *models.GenerationRecord) {
	if p.store == nil {
		return
	}
	if err := p.store.SaveGeneration(ctx, record); err != nil {
		p.logger.Warn("Failed to persist generation artifacts", map[string]interface{}{
			"generation_id": record.ID,
			"error":         err.Error(),
		})
	}
}
