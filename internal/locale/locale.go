// Package locale holds the display languages the service supports and the
// label table used when presenting a diagnosis.
package locale

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Language is a display language code.
type Language string

const (
	English   Language = "en"
	Hindi     Language = "hi"
	Tamil     Language = "ta"
	Telugu    Language = "te"
	Kannada   Language = "kn"
	Malayalam Language = "ml"
	Marathi   Language = "mr"
	Bengali   Language = "bn"
	Gujarati  Language = "gu"
	Punjabi   Language = "pa"
	Odia      Language = "od"
)

// Default is used when a request names no language.
const Default = English

var supported = []Language{
	English, Hindi, Tamil, Telugu, Kannada, Malayalam,
	Marathi, Bengali, Gujarati, Punjabi, Odia,
}

// ErrUnsupportedLanguage is returned by Parse for unknown codes.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Labels are the locale-specific strings a presentation layer needs.
type Labels struct {
	Name            string `yaml:"name" json:"name"`
	Overview        string `yaml:"overview" json:"overview"`
	DiagnosisResult string `yaml:"diagnosis_result" json:"diagnosis_result"`
	Disclaimer      string `yaml:"disclaimer" json:"disclaimer"`
}

//go:embed labels.yaml
var labelsYAML []byte

var labels = mustLoadLabels(labelsYAML)

func mustLoadLabels(data []byte) map[Language]Labels {
	var raw map[string]Labels
	if err := yaml.Unmarshal(data, &raw); err != nil {
		panic(fmt.Sprintf("locale: parse embedded labels: %v", err))
	}
	out := make(map[Language]Labels, len(raw))
	for code, l := range raw {
		out[Language(code)] = l
	}
	for _, lang := range supported {
		if _, ok := out[lang]; !ok {
			panic(fmt.Sprintf("locale: no labels for %q", lang))
		}
	}
	return out
}

// Supported returns the supported languages in display order.
func Supported() []Language {
	out := make([]Language, len(supported))
	copy(out, supported)
	return out
}

// Parse resolves a language code. An empty code resolves to Default.
func Parse(code string) (Language, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return Default, nil
	}
	for _, lang := range supported {
		if string(lang) == code {
			return lang, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
}

// LabelsFor returns the label table for lang, falling back to English.
func LabelsFor(lang Language) Labels {
	if l, ok := labels[lang]; ok {
		return l
	}
	return labels[English]
}

// Instruction is the clause appended to a prompt so the model answers in lang.
func Instruction(lang Language) string {
	return "in " + LabelsFor(lang).Name
}
