package latex

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"cvtailor/internal/config"
	"cvtailor/internal/logging"
)

// Failure kinds for PDF compilation, matchable with errors.Is
var (
	ErrCompileFailed    = errors.New("compile_failed")
	ErrCompileTimeout   = errors.New("compile_timeout")
	ErrCompilerNotFound = errors.New("compiler_not_found")
)

// Error is a failed compilation attempt. Error() returns the user-facing
// message while Unwrap keeps the failure kind matchable against the
// sentinels above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Compiler shells out to a LaTeX engine to turn generated source into a PDF
type Compiler struct {
	binary  string
	timeout time.Duration
	logger  logging.Logger
}

// NewCompiler creates a compiler from the latex section of the configuration
func NewCompiler(cfg *config.Config) *Compiler {
	return &Compiler{
		binary:  cfg.LaTeX.Compiler,
		timeout: cfg.LaTeX.Timeout,
		logger:  logging.GetGlobalLogger(),
	}
}

// Available reports whether the configured LaTeX binary is on PATH.
// Health checks call this without paying for a compilation.
func (c *Compiler) Available() error {
	if _, err := exec.LookPath(c.binary); err != nil {
		return &Error{Kind: ErrCompilerNotFound, Message: c.notFoundMessage()}
	}
	return nil
}

// Compile renders LaTeX source to PDF bytes. The engine runs twice so
// cross-references and layout lengths settle. Work happens in an isolated
// scratch directory that is removed before returning, whatever the outcome.
// Success is decided by the presence of the output PDF: in nonstopmode the
// engine's exit code is unreliable.
func (c *Compiler) Compile(ctx context.Context, source string) ([]byte, error) {
	if strings.TrimSpace(source) == "" {
		return nil, &Error{Kind: ErrCompileFailed, Message: "PDF compilation failed."}
	}

	workDir, err := os.MkdirTemp("", "cvtailor-latex-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	texFile := filepath.Join(workDir, "document.tex")
	if err := os.WriteFile(texFile, []byte(source), 0644); err != nil {
		return nil, fmt.Errorf("write tex file: %w", err)
	}

	start := time.Now()
	for pass := 1; pass <= 2; pass++ {
		if err := c.runPass(ctx, workDir, texFile, pass); err != nil {
			return nil, err
		}
	}

	pdfBytes, err := os.ReadFile(filepath.Join(workDir, "document.pdf"))
	if err == nil && len(pdfBytes) > 0 {
		c.logger.Info("LaTeX compilation succeeded", map[string]interface{}{
			"duration":  time.Since(start).String(),
			"pdf_bytes": len(pdfBytes),
		})
		return pdfBytes, nil
	}

	message := "PDF compilation failed."
	if diag := logDiagnostic(filepath.Join(workDir, "document.log")); diag != "" {
		message = diag
	}
	c.logger.Error("LaTeX compilation produced no PDF", map[string]interface{}{
		"diagnostic": message,
	})
	return nil, &Error{Kind: ErrCompileFailed, Message: message}
}

// runPass executes one engine run under the per-pass timeout. A non-zero
// exit is not an error here: nonstopmode recovers from most problems and
// the artifact check after the passes decides the outcome.
func (c *Compiler) runPass(ctx context.Context, workDir, texFile string, pass int) error {
	passCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(passCtx, c.binary, "-interaction=nonstopmode", "-output-directory", workDir, texFile)
	cmd.Dir = workDir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	switch {
	case errors.Is(passCtx.Err(), context.DeadlineExceeded):
		c.logger.Warn("LaTeX pass timed out", map[string]interface{}{
			"pass":    pass,
			"timeout": c.timeout.String(),
		})
		return &Error{
			Kind:    ErrCompileTimeout,
			Message: fmt.Sprintf("LaTeX compilation timed out (%v limit)", c.timeout),
		}
	case errors.Is(err, exec.ErrNotFound):
		return &Error{Kind: ErrCompilerNotFound, Message: c.notFoundMessage()}
	case ctx.Err() != nil:
		return ctx.Err()
	}
	return nil
}

func (c *Compiler) notFoundMessage() string {
	return fmt.Sprintf("%s not found. Please install a LaTeX distribution (MiKTeX, TeX Live, or MacTeX)", c.binary)
}

// logDiagnostic pulls the first error line out of the engine log. TeX
// prefixes errors with '!', and the first one is almost always the root
// cause; the rest is cascade noise.
func logDiagnostic(logPath string) string {
	f, err := os.Open(logPath)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "!") {
			return line
		}
	}
	return ""
}
