package snippet

import "strings"

// StripComments removes whole-line comments from code. Block comments are
// dropped only when they start at the beginning of a line. Comments trailing
// code on the same line are kept. Blank lines left behind at the start and
// end of the snippet are trimmed.
func StripComments(code, language string) string {
	lang, ok := LookupLanguage(language)
	if !ok {
		return code
	}
	lines := strings.Split(code, "\n")
	out := make([]string, 0, len(lines))
	inBlock := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if inBlock {
			if strings.Contains(trimmed, lang.BlockComment[1]) {
				inBlock = false
			}
			continue
		}
		if lang.LineComment != "" && strings.HasPrefix(trimmed, lang.LineComment) {
			continue
		}
		if open := lang.BlockComment[0]; open != "" && strings.HasPrefix(trimmed, open) {
			rest := trimmed[len(open):]
			closeAt := strings.Index(rest, lang.BlockComment[1])
			if closeAt < 0 {
				inBlock = true
				continue
			}
			if strings.TrimSpace(rest[closeAt+len(lang.BlockComment[1]):]) == "" {
				continue
			}
		}
		out = append(out, line)
	}
	for len(out) > 0 && strings.TrimSpace(out[0]) == "" {
		out = out[1:]
	}
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
