package llm

import (
	"fmt"

	"cvtailor/pkg/models"
)

// Fixed enhancement-mode directive blocks. The wording is part of the
// product behavior: conservative must never permit adding or fabricating
// content, aggressive pushes impact while staying truthful, balanced adds
// job-relevant detail without inventing anything.
const (
	conservativeDirective = `ENHANCEMENT MODE: CONSERVATIVE (Styling Only)
- Keep ALL content from the original CV exactly as written
- ONLY improve the LaTeX formatting, layout, and visual styling
- Do NOT add, remove, or modify any text content
- Do NOT add new skills, experiences, or achievements
- Focus on making the existing content look more professional and well-organized
- Use better typography, spacing, and visual hierarchy`

	balancedDirective = `ENHANCEMENT MODE: BALANCED (Add Relevant Details)
- Enhance the CV by adding relevant keywords from the job description
- Expand on existing experiences to highlight relevant skills
- Add context and details that are implied but not explicitly stated
- Emphasize transferable skills and relevant achievements
- Keep all content honest and based on the original CV
- Improve clarity and impact of existing bullet points
- Do NOT fabricate experiences or skills not present in the original`

	aggressiveDirective = `ENHANCEMENT MODE: AGGRESSIVE (Maximum Impact)
- Optimize every aspect of the CV for maximum impact
- Use powerful action verbs and compelling language
- Quantify achievements wherever possible (add realistic metrics if implied)
- Highlight transferable skills that match the job requirements
- Expand bullet points to showcase impact and results
- Add relevant keywords from the job description naturally
- Present experiences in the most impressive way while staying truthful
- Make the candidate appear as the perfect fit for this role`
)

// ModeDirective returns the instruction block for an enhancement mode
func ModeDirective(mode models.EnhancementMode) string {
	switch mode {
	case models.ModeConservative:
		return conservativeDirective
	case models.ModeAggressive:
		return aggressiveDirective
	default:
		return balancedDirective
	}
}

// BuildCVPrompt renders the complete CV tailoring prompt for one request.
// The CV and job description are embedded literally; the output language and
// the mode directive are stated explicitly so the model never has to guess.
func BuildCVPrompt(req *models.GenerationRequest) string {
	language := req.OutputLanguage()

	templateInstruction := ""
	if req.Template != "" {
		templateInstruction = fmt.Sprintf("\n\nUse this LaTeX template structure:\n%s", req.Template)
	}

	return fmt.Sprintf(`You are an expert CV/resume writer and LaTeX specialist.

Given the following information:

ORIGINAL CV:
%s

JOB DESCRIPTION:
%s

COMPANY NAME:
%s

OUTPUT LANGUAGE:
%s

%s

Your task:
1. Analyze the job description and identify key requirements, skills, and qualifications
2. Tailor the original CV according to the enhancement mode specified above
3. Generate a complete, professional LaTeX document for the CV in the specified OUTPUT LANGUAGE (%s)
4. Use a modern, clean CV template (like moderncv or a custom professional design)
5. Emphasize achievements and experiences most relevant to the job
6. Ensure the LaTeX code is complete and compilable%s

CRITICAL: To avoid font errors, ALWAYS include these two lines in the preamble:
\usepackage[T1]{fontenc}
\usepackage{lmodern}

CRITICAL: Output ONLY the raw text. Do NOT wrap the output in markdown code blocks (no triple backticks).
Start directly with \documentclass and end with \end{document}.`,
		req.CVText,
		req.JobDescription,
		req.CompanyName,
		language,
		ModeDirective(req.EnhancementMode()),
		language,
		templateInstruction,
	)
}

// BuildCoverLetterPrompt renders the cover letter prompt for one request.
// When the request carries a job title it is prefixed to the job description
// as a labeled line.
func BuildCoverLetterPrompt(req *models.GenerationRequest) string {
	language := req.OutputLanguage()

	return fmt.Sprintf(`You are an expert cover letter writer.

Given the following information:

ORIGINAL CV:
%s

JOB DESCRIPTION:
%s

COMPANY NAME:
%s

OUTPUT LANGUAGE:
%s

Your task:
1. Write a compelling, professional cover letter for this job application in the specified OUTPUT LANGUAGE (%s)
2. Highlight the most relevant qualifications and experiences from the CV
3. Show enthusiasm for the role and company
4. Demonstrate understanding of the company's needs based on the job description
5. Keep it concise (3-4 paragraphs)
6. Use a professional but engaging tone
7. Include appropriate placeholders for [Your Name], [Your Address], [Date], etc.

CRITICAL: Output ONLY the raw text. Do NOT wrap the output in markdown code blocks (no triple backticks).
Output the cover letter text in a standard business letter format.`,
		req.CVText,
		req.JobContext(),
		req.CompanyName,
		language,
		language,
	)
}
