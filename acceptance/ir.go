package acceptance

import (
	"encoding/json"
	"os"

	"github.com/eykd/cukereport/internal/output"
)

// SerializeIR encodes spec as indented JSON.
func SerializeIR(spec *Spec) ([]byte, error) {
	return json.MarshalIndent(spec, "", "  ")
}

// DeserializeIR decodes JSON produced by SerializeIR.
func DeserializeIR(data []byte) (*Spec, error) {
	var spec Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// WriteFile writes data to path atomically, creating parent directories.
func WriteFile(path string, data []byte) error {
	return output.WriteFileAtomic(path, data)
}

// ReadFile returns the contents of path.
func ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
