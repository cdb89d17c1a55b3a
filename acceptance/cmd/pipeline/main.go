// Command pipeline maintains the acceptance tests generated from specs/.
//
// Usage:
//
//	go run ./acceptance/cmd/pipeline -action=parse     # specs/*.txt -> IR JSON
//	go run ./acceptance/cmd/pipeline -action=generate  # IR -> Go test files
//	go run ./acceptance/cmd/pipeline -action=check     # fail on unbound scenarios
//	go run ./acceptance/cmd/pipeline -action=run       # parse + generate + go test
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/eykd/cukereport/acceptance"
)

const (
	specsDir = "specs"
	irDir    = "acceptance-pipeline/ir"
	testDir  = "generated-acceptance-tests"
)

func main() {
	action := flag.String("action", "", "Pipeline action: parse, generate, check, or run")
	flag.Parse()

	var err error
	switch *action {
	case "parse":
		err = runParse()
	case "generate":
		err = runGenerate()
	case "check":
		err = runCheck()
	case "run":
		err = runAll()
	case "":
		fmt.Fprintln(os.Stderr, "Usage: pipeline -action=<parse|generate|check|run>")
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "Unknown action: %s (use parse, generate, check, or run)\n", *action)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// specFiles lists the .txt files under specsDir.
func specFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(specsDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".txt") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// baseName maps specs/a/b.txt to "a-b".
func baseName(specFile string) string {
	rel, err := filepath.Rel(specsDir, specFile)
	if err != nil {
		rel = filepath.Base(specFile)
	}
	return strings.ReplaceAll(strings.TrimSuffix(rel, ".txt"), string(filepath.Separator), "-")
}

func runParse() error {
	files, err := specFiles()
	if err != nil {
		return fmt.Errorf("finding spec files: %w", err)
	}
	if len(files) == 0 {
		fmt.Println("No spec files found in specs/")
		return nil
	}

	for _, specFile := range files {
		spec, err := acceptance.ParseSpecFile(specFile)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", specFile, err)
		}
		data, err := acceptance.SerializeIR(spec)
		if err != nil {
			return fmt.Errorf("serializing IR for %s: %w", specFile, err)
		}
		irFile := filepath.Join(irDir, baseName(specFile)+".json")
		if err := acceptance.WriteFile(irFile, data); err != nil {
			return fmt.Errorf("writing IR for %s: %w", specFile, err)
		}
		fmt.Printf("Parsed: %s -> %s\n", specFile, irFile)
	}
	return nil
}

func runGenerate() error {
	irFiles, err := filepath.Glob(filepath.Join(irDir, "*.json"))
	if err != nil {
		return fmt.Errorf("finding IR files: %w", err)
	}
	if len(irFiles) == 0 {
		fmt.Println("No IR files found. Run -action=parse first.")
		return nil
	}

	for _, irFile := range irFiles {
		data, err := acceptance.ReadFile(irFile)
		if err != nil {
			return fmt.Errorf("reading %s: %w", irFile, err)
		}
		spec, err := acceptance.DeserializeIR(data)
		if err != nil {
			return fmt.Errorf("deserializing %s: %w", irFile, err)
		}

		testFile := filepath.Join(testDir, strings.TrimSuffix(filepath.Base(irFile), ".json")+"_test.go")
		existing := ""
		if data, err := os.ReadFile(testFile); err == nil {
			existing = string(data)
		}

		src, err := acceptance.GenerateTests(spec, existing)
		if err != nil {
			return fmt.Errorf("generating tests for %s: %w", irFile, err)
		}
		if err := acceptance.WriteFile(testFile, []byte(src)); err != nil {
			return fmt.Errorf("writing test for %s: %w", irFile, err)
		}
		fmt.Printf("Generated: %s -> %s\n", irFile, testFile)
	}
	return nil
}

// runCheck fails when any generated test is still a stub.
func runCheck() error {
	testFiles, err := filepath.Glob(filepath.Join(testDir, "*_test.go"))
	if err != nil {
		return err
	}
	var unbound []string
	for _, f := range testFiles {
		data, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		for _, name := range acceptance.UnboundTests(string(data)) {
			unbound = append(unbound, f+": "+name)
		}
	}
	if len(unbound) > 0 {
		return fmt.Errorf("%d unbound scenario(s):\n  %s", len(unbound), strings.Join(unbound, "\n  "))
	}
	fmt.Printf("All scenarios bound in %d file(s)\n", len(testFiles))
	return nil
}

func runAll() error {
	if err := runParse(); err != nil {
		return err
	}
	if err := runGenerate(); err != nil {
		return err
	}

	fmt.Println("\nRunning acceptance tests...")
	cmd := exec.Command("go", "test", "-v", "./"+testDir+"/...")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
