package acceptance

import (
	"fmt"
	"go/format"
	"sort"
	"strings"
	"unicode"
)

// UnboundSentinel is the body line of a scenario test that has not been
// implemented yet. Functions containing it are regenerated on every run.
const UnboundSentinel = `t.Fatal("acceptance test not yet bound")`

const defaultImports = "import (\n\t\"testing\"\n)"

// TestFuncName derives a test function name from a scenario description:
// "Workers get separate files." becomes "Test_Workers_get_separate_files".
func TestFuncName(description string) string {
	words := strings.FieldsFunc(description, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return "Test_Unnamed_scenario"
	}
	return "Test_" + strings.Join(words, "_")
}

// GenerateTests renders the Go test file for spec. Bound functions found in
// existingSource (any Test function without UnboundSentinel) are kept
// verbatim, as is its import block. Bound functions whose scenario is gone
// are appended under a warning comment instead of being dropped.
func GenerateTests(spec *Spec, existingSource string) (string, error) {
	bound := ExtractBoundFunctions(existingSource)
	imports := ExtractImports(existingSource)
	if imports == "" {
		imports = defaultImports
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// Acceptance tests for %s.\n", spec.SourceFile)
	b.WriteString("// Scenario stubs are regenerated from the spec file; bound implementations are preserved.\n\n")
	b.WriteString("package acceptance_test\n")

	seen := make(map[string]int)
	var funcs []string
	for _, sc := range spec.Scenarios {
		name := TestFuncName(sc.Description)
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s_%d", name, n)
		}
		if fn, ok := bound[name]; ok {
			funcs = append(funcs, fn)
			delete(bound, name)
			continue
		}
		funcs = append(funcs, stub(spec.SourceFile, name, sc))
	}

	orphans := make([]string, 0, len(bound))
	for name := range bound {
		orphans = append(orphans, name)
	}
	sort.Strings(orphans)

	if len(funcs) > 0 || len(orphans) > 0 {
		b.WriteString("\n" + imports + "\n")
	}
	for _, fn := range funcs {
		b.WriteString("\n" + fn + "\n")
	}
	if len(orphans) > 0 {
		fmt.Fprintf(&b, "\n// WARNING: the functions below are bound but match no scenario in %s.\n", spec.SourceFile)
		b.WriteString("// They are orphaned; rename them to match a scenario or delete them.\n")
		for _, name := range orphans {
			b.WriteString("\n" + bound[name] + "\n")
		}
	}

	src, err := format.Source([]byte(b.String()))
	if err != nil {
		return "", fmt.Errorf("formatting generated tests: %w", err)
	}
	return string(src), nil
}

func stub(source, name string, sc Scenario) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// %s\n", sc.Description)
	fmt.Fprintf(&b, "// Source: %s:%d\n", source, sc.Line)
	fmt.Fprintf(&b, "func %s(t *testing.T) {\n", name)
	for _, st := range sc.Steps {
		fmt.Fprintf(&b, "\t// %s %s\n", st.Keyword, st.Text)
	}
	if len(sc.Steps) > 0 {
		b.WriteString("\n")
	}
	b.WriteString("\t" + UnboundSentinel + "\n}")
	return b.String()
}

// ExtractBoundFunctions returns the bound Test functions of source keyed by
// name. Each value holds the function with the comment lines directly above
// it.
func ExtractBoundFunctions(source string) map[string]string {
	out := make(map[string]string)
	lines := strings.Split(source, "\n")
	for i := 0; i < len(lines); i++ {
		if !strings.HasPrefix(lines[i], "func Test") {
			continue
		}
		name := funcName(lines[i])
		end := funcEnd(lines, i)
		if name == "" || end < 0 {
			continue
		}
		start := i
		for start > 0 && strings.HasPrefix(strings.TrimSpace(lines[start-1]), "//") {
			start--
		}
		fn := strings.Join(lines[start:end+1], "\n")
		if !strings.Contains(fn, UnboundSentinel) {
			out[name] = fn
		}
		i = end
	}
	return out
}

func funcName(line string) string {
	rest := strings.TrimPrefix(line, "func ")
	if i := strings.IndexByte(rest, '('); i > 0 {
		return rest[:i]
	}
	return ""
}

// funcEnd returns the index of the line closing the function declared on
// lines[start], or -1 when the braces never balance.
func funcEnd(lines []string, start int) int {
	depth := 0
	opened := false
	inRaw := false
	for i := start; i < len(lines); i++ {
		var delta int
		delta, inRaw = braceDelta(lines[i], inRaw)
		if delta != 0 || strings.Contains(lines[i], "{") {
			opened = true
		}
		depth += delta
		if opened && depth == 0 {
			return i
		}
	}
	return -1
}

// braceDelta counts '{' minus '}' on line outside of comments and string or
// rune literals. inRaw carries an open raw string across lines.
func braceDelta(line string, inRaw bool) (int, bool) {
	delta := 0
	for i := 0; i < len(line); i++ {
		c := line[i]
		if inRaw {
			if c == '`' {
				inRaw = false
			}
			continue
		}
		switch c {
		case '`':
			inRaw = true
		case '"', '\'':
			for i++; i < len(line) && line[i] != c; i++ {
				if line[i] == '\\' {
					i++
				}
			}
		case '/':
			if i+1 < len(line) && line[i+1] == '/' {
				return delta, false
			}
		case '{':
			delta++
		case '}':
			delta--
		}
	}
	return delta, inRaw
}

// ExtractImports returns the import declaration of source, or "" when it
// has none.
func ExtractImports(source string) string {
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, "import") {
			continue
		}
		if !strings.Contains(line, "(") || strings.Contains(line, ")") {
			return line
		}
		for j := i + 1; j < len(lines); j++ {
			if strings.HasPrefix(strings.TrimSpace(lines[j]), ")") {
				return strings.Join(lines[i:j+1], "\n")
			}
		}
		return ""
	}
	return ""
}

// UnboundTests lists the Test functions of source that still carry
// UnboundSentinel.
func UnboundTests(source string) []string {
	var names []string
	lines := strings.Split(source, "\n")
	for i := 0; i < len(lines); i++ {
		if !strings.HasPrefix(lines[i], "func Test") {
			continue
		}
		end := funcEnd(lines, i)
		if end < 0 {
			break
		}
		if strings.Contains(strings.Join(lines[i:end+1], "\n"), UnboundSentinel) {
			names = append(names, funcName(lines[i]))
		}
		i = end
	}
	return names
}
