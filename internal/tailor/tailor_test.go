package tailor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cvtailor/internal/config"
	"cvtailor/internal/latex"
	"cvtailor/pkg/models"
)

type stubCompleter struct {
	response   string
	err        error
	lastPrompt string
	calls      int
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testConfig(t *testing.T, templates map[string]string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	for name, content := range templates {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write template %s: %v", name, err)
		}
	}

	cfg := &config.Config{}
	cfg.Templates.Dir = dir
	cfg.Templates.Default = "cv_template"
	cfg.LaTeX.Compiler = "definitely-not-a-tex-binary"
	cfg.LaTeX.Timeout = 30 * time.Second
	cfg.LaTeX.Enabled = true
	return cfg
}

func newTestPipeline(t *testing.T, completer Completer, templates map[string]string) *Pipeline {
	t.Helper()
	cfg := testConfig(t, templates)
	return NewPipeline(cfg, completer, latex.NewTemplateStore(cfg), latex.NewCompiler(cfg), nil)
}

func validRequest() *models.GenerationRequest {
	return &models.GenerationRequest{
		CVText:         "Jane Doe. Ten years building distributed systems in Go.",
		JobDescription: "We need a platform engineer comfortable with Kubernetes.",
		CompanyName:    "Acme Corp",
	}
}

func TestValidateRequestOrder(t *testing.T) {
	tests := []struct {
		name          string
		request       *models.GenerationRequest
		expectedField string
		expectedMsg   string
	}{
		{
			name:          "everything missing reports CV first",
			request:       &models.GenerationRequest{},
			expectedField: "cv_text",
			expectedMsg:   "Please upload your CV first.",
		},
		{
			name:          "whitespace CV counts as missing",
			request:       &models.GenerationRequest{CVText: "  \n "},
			expectedField: "cv_text",
			expectedMsg:   "Please upload your CV first.",
		},
		{
			name:          "job description next",
			request:       &models.GenerationRequest{CVText: "cv"},
			expectedField: "job_description",
			expectedMsg:   "Please enter the job description.",
		},
		{
			name:          "company name last",
			request:       &models.GenerationRequest{CVText: "cv", JobDescription: "jd"},
			expectedField: "company_name",
			expectedMsg:   "Please enter the company name.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.request)
			var inputErr *InputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("expected InputError, got %v", err)
			}
			if inputErr.Field != tt.expectedField {
				t.Errorf("field = %q, want %q", inputErr.Field, tt.expectedField)
			}
			if inputErr.Message != tt.expectedMsg {
				t.Errorf("message = %q, want %q", inputErr.Message, tt.expectedMsg)
			}
		})
	}

	if err := ValidateRequest(validRequest()); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}
}

func TestGenerateCV(t *testing.T) {
	completer := &stubCompleter{
		response: "```latex\n\\documentclass{article}\n\\begin{document}\nJane\n\\end{document}\n```",
	}
	pipeline := newTestPipeline(t, completer, nil)

	req := validRequest()
	req.Mode = "Aggressive (Maximum Impact)"
	req.Language = "Bahasa Indonesia"

	generation, err := pipeline.GenerateCV(context.Background(), req)
	if err != nil {
		t.Fatalf("GenerateCV failed: %v", err)
	}

	if !strings.HasPrefix(generation.LaTeX, `\documentclass`) {
		t.Errorf("code fences not stripped: %q", generation.LaTeX)
	}
	if strings.Contains(generation.LaTeX, "```") {
		t.Errorf("fence markers survived sanitization: %q", generation.LaTeX)
	}
	if generation.Mode != models.ModeAggressive {
		t.Errorf("mode = %q, want aggressive", generation.Mode)
	}
	if generation.Language != models.LanguageBahasa {
		t.Errorf("language = %q, want Bahasa Indonesia", generation.Language)
	}
	if generation.ID == "" {
		t.Error("generation ID not assigned")
	}
	if generation.CreatedAt.IsZero() {
		t.Error("creation timestamp not set")
	}
}

func TestGenerateCVPromptContents(t *testing.T) {
	completer := &stubCompleter{response: `\documentclass{article}`}
	pipeline := newTestPipeline(t, completer, nil)

	req := validRequest()
	req.Mode = "conservative"

	if _, err := pipeline.GenerateCV(context.Background(), req); err != nil {
		t.Fatalf("GenerateCV failed: %v", err)
	}

	prompt := completer.lastPrompt
	for _, want := range []string{
		req.CVText,
		req.JobDescription,
		req.CompanyName,
		"ENHANCEMENT MODE: CONSERVATIVE",
		"English",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGenerateCVTemplateResolution(t *testing.T) {
	templates := map[string]string{
		"cv_template.tex": `\documentclass{moderncv} % default`,
		"fancy.tex":       `\documentclass{moderncv} % fancy`,
	}

	t.Run("default template applies", func(t *testing.T) {
		completer := &stubCompleter{response: "x"}
		pipeline := newTestPipeline(t, completer, templates)

		if _, err := pipeline.GenerateCV(context.Background(), validRequest()); err != nil {
			t.Fatalf("GenerateCV failed: %v", err)
		}
		if !strings.Contains(completer.lastPrompt, "% default") {
			t.Error("prompt missing default template content")
		}
	})

	t.Run("named template overrides default", func(t *testing.T) {
		completer := &stubCompleter{response: "x"}
		pipeline := newTestPipeline(t, completer, templates)

		req := validRequest()
		req.TemplateName = "fancy"
		if _, err := pipeline.GenerateCV(context.Background(), req); err != nil {
			t.Fatalf("GenerateCV failed: %v", err)
		}
		if !strings.Contains(completer.lastPrompt, "% fancy") {
			t.Error("prompt missing named template content")
		}
	})

	t.Run("inline template wins over named", func(t *testing.T) {
		completer := &stubCompleter{response: "x"}
		pipeline := newTestPipeline(t, completer, templates)

		req := validRequest()
		req.Template = `\documentclass{moderncv} % inline`
		req.TemplateName = "fancy"
		if _, err := pipeline.GenerateCV(context.Background(), req); err != nil {
			t.Fatalf("GenerateCV failed: %v", err)
		}
		if !strings.Contains(completer.lastPrompt, "% inline") {
			t.Error("prompt missing inline template content")
		}
		if strings.Contains(completer.lastPrompt, "% fancy") {
			t.Error("named template should not appear when inline template given")
		}
	})

	t.Run("unknown named template fails", func(t *testing.T) {
		completer := &stubCompleter{response: "x"}
		pipeline := newTestPipeline(t, completer, templates)

		req := validRequest()
		req.TemplateName = "missing"
		_, err := pipeline.GenerateCV(context.Background(), req)
		if !errors.Is(err, latex.ErrTemplateNotFound) {
			t.Fatalf("expected ErrTemplateNotFound, got %v", err)
		}
		if completer.calls != 0 {
			t.Error("completer should not run when template lookup fails")
		}
	})

	t.Run("missing default is tolerated", func(t *testing.T) {
		completer := &stubCompleter{response: "x"}
		pipeline := newTestPipeline(t, completer, nil)

		if _, err := pipeline.GenerateCV(context.Background(), validRequest()); err != nil {
			t.Fatalf("GenerateCV failed: %v", err)
		}
		if strings.Contains(completer.lastPrompt, "Use this LaTeX template structure:") {
			t.Error("template instruction should be absent without a template")
		}
	})
}

func TestGenerateCVMissingInput(t *testing.T) {
	completer := &stubCompleter{response: "x"}
	pipeline := newTestPipeline(t, completer, nil)

	_, err := pipeline.GenerateCV(context.Background(), &models.GenerationRequest{})
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InputError, got %v", err)
	}
	if completer.calls != 0 {
		t.Error("completer should not run for invalid input")
	}
}

func TestGenerateCVCompleterError(t *testing.T) {
	completionErr := errors.New("upstream busy")
	pipeline := newTestPipeline(t, &stubCompleter{err: completionErr}, nil)

	_, err := pipeline.GenerateCV(context.Background(), validRequest())
	if !errors.Is(err, completionErr) {
		t.Fatalf("expected completion error to propagate, got %v", err)
	}
}

func TestGenerateCoverLetter(t *testing.T) {
	completer := &stubCompleter{response: "```\nDear Hiring Manager,\n\nI am writing to apply.\n```"}
	pipeline := newTestPipeline(t, completer, nil)

	req := validRequest()
	req.JobTitle = "Staff Engineer"

	generation, err := pipeline.GenerateCoverLetter(context.Background(), req)
	if err != nil {
		t.Fatalf("GenerateCoverLetter failed: %v", err)
	}

	if !strings.HasPrefix(generation.CoverLetter, "Dear Hiring Manager,") {
		t.Errorf("code fences not stripped: %q", generation.CoverLetter)
	}
	if generation.Language != models.LanguageEnglish {
		t.Errorf("language = %q, want English", generation.Language)
	}
	if !strings.Contains(completer.lastPrompt, "Job Title: Staff Engineer") {
		t.Error("prompt missing job title line")
	}
}

func TestCompilePDFEmptySource(t *testing.T) {
	pipeline := newTestPipeline(t, &stubCompleter{}, nil)

	_, err := pipeline.CompilePDF(context.Background(), &models.CompileRequest{LaTeX: "  "})
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InputError, got %v", err)
	}
}

func TestCompilePDFCompilerMissing(t *testing.T) {
	pipeline := newTestPipeline(t, &stubCompleter{}, nil)

	_, err := pipeline.CompilePDF(context.Background(), &models.CompileRequest{
		LaTeX: `\documentclass{article}\begin{document}hi\end{document}`,
	})
	if !errors.Is(err, latex.ErrCompilerNotFound) {
		t.Fatalf("expected ErrCompilerNotFound, got %v", err)
	}
}
