package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"cvtailor/internal/analytics"
	"cvtailor/internal/config"
	"cvtailor/internal/latex"
	"cvtailor/internal/llm"
	"cvtailor/internal/tailor"
	"cvtailor/pkg/models"
)

type stubCompleter struct {
	response string
	err      error
}

func (s *stubCompleter) Complete(_ context.Context, _ string) (string, error) {
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
	cfg.LLM.Provider = "gemini"
	cfg.LLM.RateLimit = 10
	cfg.Analytics.Timeout = time.Second
	return cfg
}

func testPipeline(cfg *config.Config, completer tailor.Completer) *tailor.Pipeline {
	return tailor.NewPipeline(cfg, completer, latex.NewTemplateStore(cfg), latex.NewCompiler(cfg), nil)
}

// disabledTracker returns a tracker with no measurement ID, so Track calls
// are no-ops in tests
func disabledTracker(cfg *config.Config) *analytics.Tracker {
	return analytics.NewTracker(cfg)
}

func doJSON(handler echo.HandlerFunc, method, target string, body interface{}) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, handler(e.NewContext(req, rec))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var errResp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error response: %v (body: %s)", err, rec.Body.String())
	}
	return errResp
}

func multipartUpload(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	writer.Close()
	return &buf, writer.FormDataContentType()
}

func TestExtractHandler(t *testing.T) {
	e := echo.New()

	t.Run("plain text upload", func(t *testing.T) {
		body, contentType := multipartUpload(t, "cv.txt", "Jane Doe\nPlatform Engineer — Go, Kubernetes.")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/extract", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()

		if err := ExtractHandler()(e.NewContext(req, rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}

		var resp models.ExtractResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if !resp.Success || resp.Filename != "cv.txt" {
			t.Errorf("unexpected response: %+v", resp)
		}
		if !strings.Contains(resp.Text, "Jane Doe") {
			t.Errorf("extracted text missing content: %q", resp.Text)
		}
		if resp.Characters == 0 {
			t.Error("character count not set")
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		body, contentType := multipartUpload(t, "cv.png", "not-an-image")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/extract", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()

		ExtractHandler()(e.NewContext(req, rec))
		if rec.Code != http.StatusUnsupportedMediaType {
			t.Fatalf("status = %d, want 415", rec.Code)
		}
		if errResp := decodeError(t, rec); errResp.Code != "UNSUPPORTED_FORMAT" {
			t.Errorf("code = %q, want UNSUPPORTED_FORMAT", errResp.Code)
		}
	})

	t.Run("empty document", func(t *testing.T) {
		body, contentType := multipartUpload(t, "cv.txt", "   \n\t ")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/extract", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()

		ExtractHandler()(e.NewContext(req, rec))
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", rec.Code)
		}
		errResp := decodeError(t, rec)
		if errResp.Code != "EMPTY_DOCUMENT" {
			t.Errorf("code = %q, want EMPTY_DOCUMENT", errResp.Code)
		}
		if !strings.Contains(errResp.Message, "might be empty, encrypted, or contain only images") {
			t.Errorf("unexpected message: %q", errResp.Message)
		}
	})

	t.Run("missing file field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/extract", strings.NewReader(""))
		rec := httptest.NewRecorder()

		ExtractHandler()(e.NewContext(req, rec))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		errResp := decodeError(t, rec)
		if errResp.Code != "MISSING_INPUT" || errResp.Message != "Please upload your CV first." {
			t.Errorf("unexpected error: %+v", errResp)
		}
	})
}

func TestGenerateCVHandler(t *testing.T) {
	cfg := testConfig(t, nil)
	tracker := disabledTracker(cfg)

	t.Run("success", func(t *testing.T) {
		completer := &stubCompleter{
			response: "```latex\n\\documentclass{article}\n\\begin{document}\nJane\n\\end{document}\n```",
		}
		handler := GenerateCVHandler(cfg, testPipeline(cfg, completer), tracker)

		rec, err := doJSON(handler, http.MethodPost, "/api/v1/generate/cv", models.GenerationRequest{
			CVText:         "Jane Doe, engineer.",
			JobDescription: "Platform team needs Go.",
			CompanyName:    "Acme Corp",
			Mode:           "Conservative (Styling Only)",
		})
		if err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}

		var resp models.GenerateCVResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if !resp.Success || resp.ID == "" {
			t.Errorf("unexpected response: %+v", resp)
		}
		if !strings.HasPrefix(resp.LaTeX, `\documentclass`) {
			t.Errorf("latex not sanitized: %q", resp.LaTeX)
		}
		if resp.Mode != models.ModeConservative {
			t.Errorf("mode = %q, want conservative", resp.Mode)
		}
	})

	t.Run("missing input precedence", func(t *testing.T) {
		handler := GenerateCVHandler(cfg, testPipeline(cfg, &stubCompleter{response: "x"}), tracker)

		tests := []struct {
			body    models.GenerationRequest
			message string
		}{
			{models.GenerationRequest{}, "Please upload your CV first."},
			{models.GenerationRequest{CVText: "cv"}, "Please enter the job description."},
			{models.GenerationRequest{CVText: "cv", JobDescription: "jd"}, "Please enter the company name."},
		}
		for _, tt := range tests {
			rec, _ := doJSON(handler, http.MethodPost, "/api/v1/generate/cv", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			errResp := decodeError(t, rec)
			if errResp.Code != "MISSING_INPUT" || errResp.Message != tt.message {
				t.Errorf("got %+v, want message %q", errResp, tt.message)
			}
		}
	})

	t.Run("unsafe template name", func(t *testing.T) {
		handler := GenerateCVHandler(cfg, testPipeline(cfg, &stubCompleter{response: "x"}), tracker)

		rec, _ := doJSON(handler, http.MethodPost, "/api/v1/generate/cv", map[string]string{
			"cv_text":         "cv",
			"job_description": "jd",
			"company_name":    "Acme",
			"template_name":   "../evil",
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if errResp := decodeError(t, rec); errResp.Code != "VALIDATION_FAILED" {
			t.Errorf("code = %q, want VALIDATION_FAILED", errResp.Code)
		}
	})

	t.Run("completion failure maps to service error", func(t *testing.T) {
		completer := &stubCompleter{err: fmt.Errorf("%w: upstream busy", llm.ErrCompletionFailed)}
		handler := GenerateCVHandler(cfg, testPipeline(cfg, completer), tracker)

		rec, _ := doJSON(handler, http.MethodPost, "/api/v1/generate/cv", models.GenerationRequest{
			CVText:         "cv",
			JobDescription: "jd",
			CompanyName:    "Acme",
		})
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, want 502", rec.Code)
		}
		if errResp := decodeError(t, rec); errResp.Code != "SERVICE_ERROR" {
			t.Errorf("code = %q, want SERVICE_ERROR", errResp.Code)
		}
	})

	t.Run("missing credentials map to credential error", func(t *testing.T) {
		completer := &stubCompleter{err: fmt.Errorf("%w: gemini api key not set", llm.ErrMissingAPIKey)}
		handler := GenerateCVHandler(cfg, testPipeline(cfg, completer), tracker)

		rec, _ := doJSON(handler, http.MethodPost, "/api/v1/generate/cv", models.GenerationRequest{
			CVText:         "cv",
			JobDescription: "jd",
			CompanyName:    "Acme",
		})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if errResp := decodeError(t, rec); errResp.Code != "CREDENTIAL_ERROR" {
			t.Errorf("code = %q, want CREDENTIAL_ERROR", errResp.Code)
		}
	})
}

func TestGenerateCoverLetterHandler(t *testing.T) {
	cfg := testConfig(t, nil)
	completer := &stubCompleter{response: "Dear Hiring Manager,\n\nI would like to apply."}
	handler := GenerateCoverLetterHandler(cfg, testPipeline(cfg, completer), disabledTracker(cfg))

	rec, err := doJSON(handler, http.MethodPost, "/api/v1/generate/cover-letter", models.GenerationRequest{
		CVText:         "Jane Doe, engineer.",
		JobDescription: "Platform team needs Go.",
		CompanyName:    "Acme Corp",
		JobTitle:       "Staff Engineer",
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp models.GenerateCoverLetterResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || !strings.HasPrefix(resp.CoverLetter, "Dear Hiring Manager,") {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestCompileHandler(t *testing.T) {
	t.Run("compiler disabled", func(t *testing.T) {
		cfg := testConfig(t, nil)
		cfg.LaTeX.Enabled = false
		handler := CompileHandler(cfg, testPipeline(cfg, &stubCompleter{}))

		rec, _ := doJSON(handler, http.MethodPost, "/api/v1/compile", models.CompileRequest{LaTeX: `\documentclass{article}`})
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}
		if errResp := decodeError(t, rec); errResp.Code != "COMPILER_NOT_FOUND" {
			t.Errorf("code = %q, want COMPILER_NOT_FOUND", errResp.Code)
		}
	})

	t.Run("empty latex", func(t *testing.T) {
		cfg := testConfig(t, nil)
		handler := CompileHandler(cfg, testPipeline(cfg, &stubCompleter{}))

		rec, _ := doJSON(handler, http.MethodPost, "/api/v1/compile", models.CompileRequest{LaTeX: "  "})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if errResp := decodeError(t, rec); errResp.Code != "MISSING_INPUT" {
			t.Errorf("code = %q, want MISSING_INPUT", errResp.Code)
		}
	})

	t.Run("compiler missing", func(t *testing.T) {
		cfg := testConfig(t, nil)
		handler := CompileHandler(cfg, testPipeline(cfg, &stubCompleter{}))

		rec, _ := doJSON(handler, http.MethodPost, "/api/v1/compile", models.CompileRequest{
			LaTeX: `\documentclass{article}\begin{document}hi\end{document}`,
		})
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}
		errResp := decodeError(t, rec)
		if errResp.Code != "COMPILER_NOT_FOUND" {
			t.Errorf("code = %q, want COMPILER_NOT_FOUND", errResp.Code)
		}
		if !strings.Contains(errResp.Message, "Please install a LaTeX distribution") {
			t.Errorf("unexpected message: %q", errResp.Message)
		}
	})
}

func TestTemplateHandlers(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		"cv_template.tex": `\documentclass{moderncv}`,
		"classic.tex":     `\documentclass{article}`,
	})
	store := latex.NewTemplateStore(cfg)
	e := echo.New()

	t.Run("list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil)
		rec := httptest.NewRecorder()

		if err := ListTemplatesHandler(store)(e.NewContext(req, rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		var resp models.TemplateListResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Count != 2 || len(resp.Templates) != 2 {
			t.Errorf("unexpected listing: %+v", resp)
		}
	})

	t.Run("get source", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/templates/classic", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("name")
		c.SetParamValues("classic")

		if err := GetTemplateHandler(store)(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK || rec.Body.String() != `\documentclass{article}` {
			t.Errorf("status = %d, body %q", rec.Code, rec.Body.String())
		}
	})

	t.Run("get missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/templates/nope", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("name")
		c.SetParamValues("nope")

		GetTemplateHandler(store)(c)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
		if errResp := decodeError(t, rec); errResp.Code != "TEMPLATE_NOT_FOUND" {
			t.Errorf("code = %q, want TEMPLATE_NOT_FOUND", errResp.Code)
		}
	})
}

func TestArtifactHandlerWithoutStore(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/generations/abc/artifacts/cv.tex", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id", "name")
	c.SetParamValues("abc", "cv.tex")

	ArtifactHandler(nil)(c)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if errResp := decodeError(t, rec); errResp.Code != "STORE_UNAVAILABLE" {
		t.Errorf("code = %q, want STORE_UNAVAILABLE", errResp.Code)
	}
}

func TestHealthHandlers(t *testing.T) {
	cfg := testConfig(t, nil)
	llmManager := llm.NewManager(cfg)
	compiler := latex.NewCompiler(cfg)
	e := echo.New()

	t.Run("health degraded without provider", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()

		if err := HealthHandler(cfg, llmManager, compiler, nil)(e.NewContext(req, rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var resp models.HealthResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Status != "degraded" {
			t.Errorf("status = %q, want degraded", resp.Status)
		}
		if resp.Checks["llm"] != "unavailable" {
			t.Errorf("llm check = %q, want unavailable", resp.Checks["llm"])
		}
		if resp.Checks["latex"] != "unavailable" {
			t.Errorf("latex check = %q, want unavailable", resp.Checks["latex"])
		}
	})

	t.Run("readiness fails without provider", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
		rec := httptest.NewRecorder()

		ReadinessHandler(llmManager)(e.NewContext(req, rec))
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}
	})

	t.Run("liveness always up", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
		rec := httptest.NewRecorder()

		LivenessHandler(e.NewContext(req, rec))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("status reports provider and compiler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		rec := httptest.NewRecorder()

		StatusHandler(cfg, llmManager, compiler, nil)(e.NewContext(req, rec))
		var resp models.HealthResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Checks["llm_provider"] != "none" {
			t.Errorf("llm_provider = %q, want none", resp.Checks["llm_provider"])
		}
		if resp.Checks["latex"] != "missing" {
			t.Errorf("latex = %q, want missing", resp.Checks["latex"])
		}
		if resp.Checks["artifact_store"] != "disabled" {
			t.Errorf("artifact_store = %q, want disabled", resp.Checks["artifact_store"])
		}
	})
}
