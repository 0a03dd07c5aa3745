package engine

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	meta := map[string]string{MetaSource: "https://example.com", MetaLanguage: "xx"}
	doc, err := Normalize("  hello world \n", meta)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Content != "hello world" {
		t.Errorf("Content = %q", doc.Content)
	}
	if doc.Meta(MetaSource) != "https://example.com" {
		t.Errorf("source = %q", doc.Meta(MetaSource))
	}
	if doc.Meta(MetaLanguage) != "xx" {
		t.Errorf("caller language overwritten: %q", doc.Meta(MetaLanguage))
	}

	doc.Metadata["extra"] = "1"
	if _, ok := meta["extra"]; ok {
		t.Error("caller metadata map aliased")
	}
}

func TestNormalizeEmpty(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t\n"} {
		if _, err := Normalize(raw, nil); !errors.Is(err, ErrEmptyContent) {
			t.Errorf("Normalize(%q) err = %v, want ErrEmptyContent", raw, err)
		}
	}
}

func TestNormalizeDetectsLanguage(t *testing.T) {
	doc, err := Normalize("The quick brown fox jumps over the lazy dog while the farmer watches from the barn.", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Meta(MetaLanguage); got != "en" {
		t.Errorf("language = %q, want en", got)
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Le chat est assis sur le tapis et regarde les oiseaux dans le jardin. Nous allons au marché demain matin pour acheter du pain et du fromage.", "fr"},
		{"Der Hund läuft schnell durch den Park und spielt mit dem Ball. Morgen fahren wir mit dem Zug nach München, um unsere Freunde zu besuchen.", "de"},
		{"Привет, как у тебя дела? Сегодня очень хорошая погода, и мы пойдём гулять в парк. Вечером я буду читать интересную книгу.", "ru"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := DetectLanguage(tt.text); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
