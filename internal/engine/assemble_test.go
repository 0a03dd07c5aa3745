package engine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAssemble(t *testing.T) {
	chunks := []Chunk{{Content: "first"}, {Content: "second"}, {Content: "third"}}

	got, err := Assemble("Summarize:\n{text}\nEnd.", chunks)
	if err != nil {
		t.Fatal(err)
	}
	want := "Summarize:\nfirst\n\nsecond\n\nthird\nEnd."
	if got != want {
		t.Errorf("Assemble = %q, want %q", got, want)
	}
}

func TestAssembleDefaultTemplate(t *testing.T) {
	got, err := Assemble(DefaultSummaryTemplate, []Chunk{{Content: "Go is a programming language."}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(got, "Content:\nGo is a programming language.") {
		t.Errorf("content not substituted at the end: %q", got[len(got)-60:])
	}
	if strings.Contains(got, ContentPlaceholder) {
		t.Error("placeholder left in prompt")
	}
}

func TestDefaultTemplateTranslatesToEnglish(t *testing.T) {
	steps := []string{
		"Detect the language of the content.",
		"If it is not in English, translate it into fluent English.",
		"Summarize the English content",
	}
	for _, want := range steps {
		if !strings.Contains(DefaultSummaryTemplate, want) {
			t.Errorf("default template missing step %q", want)
		}
	}
	if strings.Index(DefaultSummaryTemplate, steps[1]) > strings.Index(DefaultSummaryTemplate, steps[2]) {
		t.Error("translation must come before summarization")
	}
}

func TestValidateTemplate(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		wantErr bool
	}{
		{"one placeholder", "x {text} y", false},
		{"none", "summarize this", true},
		{"two", "{text} and {text}", true},
		{"wrong braces", "{{text}}", false},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTemplate(tt.tmpl)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateTemplate(%q) err = %v, wantErr %v", tt.tmpl, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidTemplate) {
				t.Errorf("err = %v, want ErrInvalidTemplate", err)
			}
		})
	}
}

func TestAssembleChunkTextWithPlaceholder(t *testing.T) {
	got, err := Assemble("A {text} B", []Chunk{{Content: "literal {text} inside"}})
	if err != nil {
		t.Fatal(err)
	}
	if got != "A literal {text} inside B" {
		t.Errorf("Assemble = %q", got)
	}
}

func TestLoadPromptTemplate(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	if err := os.WriteFile(good, []byte("name: short\ntemplate: |\n  Summarize in one line:\n  {text}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	tmpl, err := LoadPromptTemplate(good)
	if err != nil {
		t.Fatalf("LoadPromptTemplate: %v", err)
	}
	if tmpl != "Summarize in one line:\n{text}\n" {
		t.Errorf("template = %q", tmpl)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("name: broken\ntemplate: no placeholder\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPromptTemplate(bad); !errors.Is(err, ErrInvalidTemplate) {
		t.Errorf("bad template err = %v, want ErrInvalidTemplate", err)
	}

	if _, err := LoadPromptTemplate(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing file: want error")
	}
}
