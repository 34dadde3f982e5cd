// Package extractor pulls plain text out of uploaded CV documents. It
// dispatches on the file extension and never panics on malformed input.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported_format")
	ErrEmptyDocument     = errors.New("empty_document")
	ErrExtractionFailed  = errors.New("extraction_failed")
)

// SupportedExtensions lists the file extensions Extract accepts
var SupportedExtensions = []string{".pdf", ".docx", ".doc", ".txt"}

// Extract returns the plain text of an uploaded document. The format is
// chosen by the lower-cased filename extension. The result is trimmed of
// surrounding whitespace; a document that yields no text at all (a
// scanned-image PDF, an empty file) is reported as ErrEmptyDocument rather
// than returned as an empty success.
func Extract(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var text string
	var err error

	switch ext {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx", ".doc":
		text, err = extractWithDocconv(filename, data)
	case ".txt":
		text, err = extractPlainText(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: no text content found in %s", ErrEmptyDocument, filename)
	}

	return text, nil
}

// extractPDF walks every page and joins the page texts with newlines. The
// pdf library panics on some malformed documents, so the walk runs behind a
// recover that converts the panic into an extraction error.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: malformed PDF: %v", ErrExtractionFailed, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	var pages []string
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, the rest may still carry the CV
			continue
		}

		pages = append(pages, pageText)
	}

	return strings.Join(pages, "\n"), nil
}

// extractWithDocconv handles Word documents through docconv, which resolves
// the converter from the file's MIME type
func extractWithDocconv(filename string, data []byte) (string, error) {
	res, err := docconv.Convert(bytes.NewReader(data), docconv.MimeTypeByExtension(filename), true)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	return res.Body, nil
}

// extractPlainText decodes the bytes as UTF-8 text
func extractPlainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: file is not valid UTF-8 text", ErrExtractionFailed)
	}

	return string(data), nil
}
