package snippet

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/codetype/internal/model"
)

var validate = validator.New()

// Pack is the YAML layout of a snippet pack file.
type Pack struct {
	Snippets []model.Snippet `yaml:"snippets"`
}

// ParsePack decodes a YAML pack and normalizes every snippet in it.
func ParsePack(data []byte, indentUnit string) ([]model.Snippet, error) {
	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("failed to decode snippet pack: %w", err)
	}
	if len(pack.Snippets) == 0 {
		return nil, fmt.Errorf("snippet pack is empty")
	}
	out := make([]model.Snippet, 0, len(pack.Snippets))
	for i, sn := range pack.Snippets {
		normalized, err := Normalize(sn, indentUnit)
		if err != nil {
			return nil, fmt.Errorf("snippet %d (%s): %w", i+1, sn.Title, err)
		}
		out = append(out, normalized)
	}
	return out, nil
}

// LoadPack reads a YAML pack from path.
func LoadPack(path, indentUnit string) ([]model.Snippet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePack(data, indentUnit)
}

// LoadFile turns a single source file into a snippet. The language comes
// from the extension, the title from the file name and the difficulty from
// the line count.
func LoadFile(path, indentUnit string) (model.Snippet, error) {
	lang, ok := LanguageForPath(path)
	if !ok {
		return model.Snippet{}, fmt.Errorf("unsupported file type: %s", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Snippet{}, err
	}
	base := filepath.Base(path)
	return Normalize(model.Snippet{
		Language: lang.Value,
		Title:    strings.TrimSuffix(base, filepath.Ext(base)),
		Category: "imported",
		Code:     string(data),
	}, indentUnit)
}

// LoadDir loads every pack and supported source file below dir.
// Unsupported files are skipped.
func LoadDir(dir, indentUnit string) ([]model.Snippet, error) {
	var out []model.Snippet
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if isPack(path) {
			snippets, err := LoadPack(path, indentUnit)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			out = append(out, snippets...)
			return nil
		}
		if _, ok := LanguageForPath(path); !ok {
			return nil
		}
		sn, err := LoadFile(path, indentUnit)
		if errors.Is(err, errEmptyCode) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		out = append(out, sn)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no snippets found in %s", dir)
	}
	return out, nil
}

// Load dispatches on path: directories, YAML packs and single source files.
func Load(path, indentUnit string) ([]model.Snippet, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return LoadDir(path, indentUnit)
	}
	if isPack(path) {
		return LoadPack(path, indentUnit)
	}
	sn, err := LoadFile(path, indentUnit)
	if err != nil {
		return nil, err
	}
	return []model.Snippet{sn}, nil
}

func isPack(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

var errEmptyCode = errors.New("snippet code is empty")

// Normalize sanitizes the code, fills defaults and validates the snippet.
func Normalize(sn model.Snippet, indentUnit string) (model.Snippet, error) {
	sn.Language = NormalizeLanguage(sn.Language)
	sn.Difficulty = strings.ToLower(strings.TrimSpace(sn.Difficulty))
	sn.Code = Sanitize(sn.Code, indentUnit)
	if sn.Code == "" {
		return model.Snippet{}, errEmptyCode
	}
	if sn.Difficulty == "" {
		sn.Difficulty = DifficultyForLines(strings.Count(sn.Code, "\n") + 1)
	}
	if sn.ID == "" {
		sn.ID = uuid.NewString()
	}
	if strings.TrimSpace(sn.Title) == "" {
		sn.Title = "Untitled " + sn.Language
	}
	if err := validate.Struct(sn); err != nil {
		return model.Snippet{}, fmt.Errorf("invalid snippet: %w", err)
	}
	return sn, nil
}

// DifficultyForLines grades a snippet by its line count.
func DifficultyForLines(lines int) string {
	switch {
	case lines <= 8:
		return "easy"
	case lines <= 20:
		return "medium"
	default:
		return "hard"
	}
}

// Sanitize normalizes line endings, expands leading tabs to indentUnit,
// replaces other tabs with a space, drops control characters and trailing
// whitespace, and trims blank lines at both ends.
func Sanitize(code, indentUnit string) string {
	if indentUnit == "" {
		indentUnit = "  "
	}
	code = strings.ReplaceAll(code, "\r\n", "\n")
	code = strings.ReplaceAll(code, "\r", "\n")
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		rest := strings.TrimLeft(line, "\t")
		tabs := len(line) - len(rest)
		var b strings.Builder
		b.WriteString(strings.Repeat(indentUnit, tabs))
		for _, r := range rest {
			switch {
			case r == '\t':
				b.WriteByte(' ')
			case unicode.IsControl(r):
				// dropped
			default:
				b.WriteRune(r)
			}
		}
		lines[i] = strings.TrimRightFunc(b.String(), unicode.IsSpace)
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
