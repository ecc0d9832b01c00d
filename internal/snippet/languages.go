// Package snippet loads, caches and picks code snippets for practice.
package snippet

import (
	"path/filepath"
	"strings"
)

// Language describes a supported snippet language.
type Language struct {
	ID           string
	Name         string
	Value        string
	Extensions   []string
	// LineComment is the prefix of a whole-line comment.
	LineComment  string
	// BlockComment holds the open and close markers of a block comment, if any.
	BlockComment [2]string
}

// Languages is the catalogue of supported languages.
var Languages = []Language{
	{ID: "js", Name: "JavaScript", Value: "javascript", Extensions: []string{".js", ".mjs", ".jsx"}, LineComment: "//", BlockComment: [2]string{"/*", "*/"}},
	{ID: "ts", Name: "TypeScript", Value: "typescript", Extensions: []string{".ts", ".tsx"}, LineComment: "//", BlockComment: [2]string{"/*", "*/"}},
	{ID: "py", Name: "Python", Value: "python", Extensions: []string{".py"}, LineComment: "#"},
	{ID: "java", Name: "Java", Value: "java", Extensions: []string{".java"}, LineComment: "//", BlockComment: [2]string{"/*", "*/"}},
	{ID: "cpp", Name: "C++", Value: "cpp", Extensions: []string{".cpp", ".cc", ".hpp", ".h"}, LineComment: "//", BlockComment: [2]string{"/*", "*/"}},
	{ID: "rust", Name: "Rust", Value: "rust", Extensions: []string{".rs"}, LineComment: "//", BlockComment: [2]string{"/*", "*/"}},
	{ID: "go", Name: "Go", Value: "go", Extensions: []string{".go"}, LineComment: "//", BlockComment: [2]string{"/*", "*/"}},
	{ID: "csharp", Name: "C#", Value: "csharp", Extensions: []string{".cs"}, LineComment: "//", BlockComment: [2]string{"/*", "*/"}},
	{ID: "ruby", Name: "Ruby", Value: "ruby", Extensions: []string{".rb"}, LineComment: "#"},
	{ID: "php", Name: "PHP", Value: "php", Extensions: []string{".php"}, LineComment: "//", BlockComment: [2]string{"/*", "*/"}},
	{ID: "swift", Name: "Swift", Value: "swift", Extensions: []string{".swift"}, LineComment: "//", BlockComment: [2]string{"/*", "*/"}},
	{ID: "kotlin", Name: "Kotlin", Value: "kotlin", Extensions: []string{".kt", ".kts"}, LineComment: "//", BlockComment: [2]string{"/*", "*/"}},
	{ID: "sql", Name: "SQL", Value: "sql", Extensions: []string{".sql"}, LineComment: "--", BlockComment: [2]string{"/*", "*/"}},
	{ID: "html", Name: "HTML", Value: "html", Extensions: []string{".html", ".htm"}, BlockComment: [2]string{"<!--", "-->"}},
	{ID: "css", Name: "CSS", Value: "css", Extensions: []string{".css"}, BlockComment: [2]string{"/*", "*/"}},
}

// LookupLanguage finds a language by value, id or display name (case-insensitive).
func LookupLanguage(name string) (Language, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, lang := range Languages {
		if name == lang.Value || name == lang.ID || name == strings.ToLower(lang.Name) {
			return lang, true
		}
	}
	return Language{}, false
}

// LanguageForPath guesses the language of a source file from its extension.
func LanguageForPath(path string) (Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return Language{}, false
	}
	for _, lang := range Languages {
		for _, e := range lang.Extensions {
			if e == ext {
				return lang, true
			}
		}
	}
	return Language{}, false
}

// NormalizeLanguage maps aliases such as "js" or "Go" to the canonical value.
// Unknown names are lowercased and returned unchanged.
func NormalizeLanguage(name string) string {
	if lang, ok := LookupLanguage(name); ok {
		return lang.Value
	}
	return strings.ToLower(strings.TrimSpace(name))
}
