package engine

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidTemplate is returned for templates without exactly one placeholder.
var ErrInvalidTemplate = errors.New("invalid prompt template")

// PromptFile is the YAML layout read by LoadPromptTemplate.
type PromptFile struct {
	Name     string `yaml:"name"`
	Template string `yaml:"template"`
}

// ValidateTemplate checks that template holds exactly one ContentPlaceholder.
func ValidateTemplate(template string) error {
	if n := strings.Count(template, ContentPlaceholder); n != 1 {
		return fmt.Errorf("%w: want 1 %s placeholder, got %d", ErrInvalidTemplate, ContentPlaceholder, n)
	}
	return nil
}

// Assemble joins the chunk contents in order and substitutes them into template.
// This is the single-pass "stuff" strategy: the whole text goes into one prompt.
func Assemble(template string, chunks []Chunk) (string, error) {
	if err := ValidateTemplate(template); err != nil {
		return "", err
	}
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Content
	}
	return strings.Replace(template, ContentPlaceholder, strings.Join(parts, ChunkSeparator), 1), nil
}

// LoadPromptTemplate reads a YAML prompt file and validates its template.
func LoadPromptTemplate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prompt file: %w", err)
	}
	var pf PromptFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return "", fmt.Errorf("parse prompt file %s: %w", path, err)
	}
	if err := ValidateTemplate(pf.Template); err != nil {
		return "", fmt.Errorf("prompt file %s: %w", path, err)
	}
	return pf.Template, nil
}
