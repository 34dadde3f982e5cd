package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"cvtailor/internal/extractor"
	"cvtailor/internal/latex"
	"cvtailor/internal/llm"
	"cvtailor/internal/tailor"
	"cvtailor/pkg/models"
	"cvtailor/pkg/utils"
)

var cvFile string

var jdFile string

var company string

var jobTitle string

var mode string

var language string

var templateFile string

var withCoverLetter bool

var compilePDF bool

var outputDir string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a tailored CV (and optionally a cover letter)",
	Long: `Generate a tailored CV for one job application.

The CV document is parsed locally (.pdf, .docx, .doc or .txt), the job
description is read from a file or stdin, and the tailored result is
written as cv.tex to the output directory.

Example:
  cvtailor generate --cv resume.pdf --jd jd.txt --company "Acme Corp"
  cat jd.txt | cvtailor generate --cv resume.pdf --jd - --company "Acme" --mode aggressive --compile`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&cvFile, "cv", "", "CV document to tailor (.pdf, .docx, .doc, .txt)")
	generateCmd.Flags().StringVar(&jdFile, "jd", "", "Job description file, or - for stdin")
	generateCmd.Flags().StringVar(&company, "company", "", "Company name")
	generateCmd.Flags().StringVar(&jobTitle, "job-title", "", "Job title (prefixed to the job description)")
	generateCmd.Flags().StringVar(&mode, "mode", "balanced", "Enhancement mode: conservative, balanced or aggressive")
	generateCmd.Flags().StringVar(&language, "language", "english", "Output language: english or indonesian")
	generateCmd.Flags().StringVar(&templateFile, "template", "", "LaTeX template file to base the CV on")
	generateCmd.Flags().BoolVar(&withCoverLetter, "cover-letter", false, "Also generate cover_letter.txt")
	generateCmd.Flags().BoolVar(&compilePDF, "compile", false, "Compile the result to cv.pdf (requires pdflatex)")
	generateCmd.Flags().StringVar(&outputDir, "out", ".", "Output directory")

	generateCmd.MarkFlagRequired("cv")
	generateCmd.MarkFlagRequired("jd")
	generateCmd.MarkFlagRequired("company")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}

	// Parse the CV document
	cvData, err := os.ReadFile(cvFile)
	if err != nil {
		return fmt.Errorf("failed to read CV file: %w", err)
	}
	cvText, err := extractor.Extract(filepath.Base(cvFile), cvData)
	if err != nil {
		return err
	}
	fmt.Printf("Extracted %d characters from %s\n", len(cvText), cvFile)

	// Read the job description
	jobDescription, err := readJobDescription(jdFile)
	if err != nil {
		return err
	}

	req := &models.GenerationRequest{
		CVText:         cvText,
		JobDescription: jobDescription,
		CompanyName:    company,
		JobTitle:       jobTitle,
		Mode:           mode,
		Language:       language,
	}

	if templateFile != "" {
		templateData, err := os.ReadFile(templateFile)
		if err != nil {
			return fmt.Errorf("failed to read template file: %w", err)
		}
		req.Template = string(templateData)
	}

	// Start the LLM provider
	llmManager := llm.NewManager(cfg)
	if err := llmManager.Start(); err != nil {
		return err
	}
	defer llmManager.Stop()

	// The CLI runs the same pipeline as the server, without an artifact
	// store: files on disk are the artifacts here.
	pipeline := tailor.NewPipeline(cfg, llmManager, latex.NewTemplateStore(cfg), latex.NewCompiler(cfg), nil)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Tailor the CV
	fmt.Printf("Tailoring CV for %s (%s mode)...\n", company, req.EnhancementMode())
	generation, err := pipeline.GenerateCV(ctx, req)
	if err != nil {
		return err
	}

	texPath := filepath.Join(outputDir, models.ArtifactCVTeX)
	if err := os.WriteFile(texPath, []byte(generation.LaTeX), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", texPath, err)
	}
	fmt.Printf("Wrote %s (%s)\n", texPath, utils.FormatDuration(generation.ProcessingTime))

	if compilePDF {
		pdf, err := pipeline.CompilePDF(ctx, &models.CompileRequest{LaTeX: generation.LaTeX})
		if err != nil {
			return err
		}
		pdfPath := filepath.Join(outputDir, models.ArtifactCVPDF)
		if err := os.WriteFile(pdfPath, pdf, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", pdfPath, err)
		}
		fmt.Printf("Wrote %s (%d bytes)\n", pdfPath, len(pdf))
	}

	if withCoverLetter {
		fmt.Printf("Writing cover letter for %s...\n", company)
		coverLetter, err := pipeline.GenerateCoverLetter(ctx, req)
		if err != nil {
			return err
		}
		clPath := filepath.Join(outputDir, models.ArtifactCoverLetterTxt)
		if err := os.WriteFile(clPath, []byte(coverLetter.CoverLetter), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", clPath, err)
		}
		fmt.Printf("Wrote %s (%s)\n", clPath, utils.FormatDuration(coverLetter.ProcessingTime))
	}

	return nil
}

// readJobDescription reads the JD from a file, or from stdin when the
// argument is "-" so the command composes with curl and clipboard tools
func readJobDescription(source string) (string, error) {
	if source == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read job description from stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("failed to read job description file: %w", err)
	}
	return string(data), nil
}
