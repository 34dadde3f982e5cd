package latex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"cvtailor/internal/config"
	"cvtailor/internal/logging"
	"cvtailor/pkg/models"
)

// Template lookup failures
var (
	ErrTemplateNotFound = errors.New("template_not_found")
	ErrTemplateName     = errors.New("invalid_template_name")
)

// templateNamePattern accepts bare file stems only, so a template name can
// never escape the configured directory
var templateNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{0,63}$`)

// TemplateStore serves the LaTeX template library from a directory. Every
// *.tex file is a template; the name users see is the file stem.
type TemplateStore struct {
	dir         string
	defaultName string
	logger      logging.Logger
}

// NewTemplateStore creates a store over the configured template directory
func NewTemplateStore(cfg *config.Config) *TemplateStore {
	return &TemplateStore{
		dir:         cfg.Templates.Dir,
		defaultName: cfg.Templates.Default,
		logger:      logging.GetGlobalLogger(),
	}
}

// DefaultName returns the configured default template name
func (s *TemplateStore) DefaultName() string {
	return s.defaultName
}

// List returns the available templates sorted by name, with the configured
// default flagged. A missing or unreadable directory yields an empty list:
// the library is optional and generation works without it.
func (s *TemplateStore) List() []models.TemplateInfo {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Debug("Template directory not readable", map[string]interface{}{
			"dir":   s.dir,
			"error": err.Error(),
		})
		return []models.TemplateInfo{}
	}

	templates := make([]models.TemplateInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tex") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".tex")
		templates = append(templates, models.TemplateInfo{
			Name:    name,
			Default: name == s.defaultName,
		})
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].Name < templates[j].Name
	})
	return templates
}

// Load reads one template by name. Names are bare stems; anything that
// looks like a path is rejected before touching the filesystem.
func (s *TemplateStore) Load(name string) (string, error) {
	if !templateNamePattern.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrTemplateName, name)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name+".tex"))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
		}
		return "", fmt.Errorf("read template %q: %w", name, err)
	}
	return string(data), nil
}

// Default returns the configured default template's content, or the empty
// string when the file is absent. Generation proceeds template-less in that
// case and the model picks its own document layout.
func (s *TemplateStore) Default() string {
	content, err := s.Load(s.defaultName)
	if err != nil {
		s.logger.Debug("Default template unavailable", map[string]interface{}{
			"name":  s.defaultName,
			"error": err.Error(),
		})
		return ""
	}
	return content
}
