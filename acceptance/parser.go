package acceptance

import (
	"fmt"
	"os"
	"strings"
)

var keywords = []string{KeywordGiven, KeywordWhen, KeywordThen, KeywordAnd}

// isSeparatorLine reports whether line consists only of ';' and '='.
func isSeparatorLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	return strings.Trim(trimmed, ";=") == ""
}

// isCommentLine reports whether line is a ';' comment that is not a separator.
func isCommentLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, ";") && !isSeparatorLine(trimmed)
}

// splitKeyword returns the leading step keyword of line and the text after
// it. The keyword must be followed by whitespace or end the line.
func splitKeyword(line string) (keyword, text string) {
	trimmed := strings.TrimSpace(line)
	for _, kw := range keywords {
		rest, ok := strings.CutPrefix(trimmed, kw)
		if !ok {
			continue
		}
		if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
			continue
		}
		return kw, strings.TrimSpace(rest)
	}
	return "", ""
}

// ParseSpec parses the text of a spec file. A scenario starts with a ";"
// title line framed by separator lines; steps before the first title go into
// an untitled scenario. Blank lines and other ";" lines are ignored.
func ParseSpec(content, sourcePath string) (*Spec, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	spec := &Spec{SourceFile: sourcePath}

	inHeader := false
	for i, line := range strings.Split(content, "\n") {
		lineNum := i + 1

		if isSeparatorLine(line) {
			inHeader = !inHeader
			continue
		}
		if inHeader && isCommentLine(line) {
			desc := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), ";"))
			spec.Scenarios = append(spec.Scenarios, Scenario{Description: desc, Line: lineNum})
			continue
		}
		if isCommentLine(line) {
			continue
		}

		keyword, text := splitKeyword(line)
		if keyword == "" {
			continue
		}
		if len(spec.Scenarios) == 0 {
			spec.Scenarios = append(spec.Scenarios, Scenario{})
		}
		sc := &spec.Scenarios[len(spec.Scenarios)-1]
		if keyword == KeywordAnd && len(sc.Steps) == 0 {
			return nil, fmt.Errorf("%s:%d: AND must follow another step", sourcePath, lineNum)
		}
		sc.Steps = append(sc.Steps, Step{Keyword: keyword, Text: text, Line: lineNum})
	}

	return spec, nil
}

// ParseSpecFile reads and parses the spec file at path.
func ParseSpecFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSpec(string(data), path)
}
