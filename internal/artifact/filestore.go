package artifact

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/wonny/roster/internal/contracts"
)

//go:embed metrics.schema.json
var metricsSchema string

// ErrArtifactNotFound is returned when no metrics artifact has been written
var ErrArtifactNotFound = errors.New("metrics artifact not found")

// SchemaError lists every schema violation of a metrics document
type SchemaError struct {
	Errors []FieldError
}

// FieldError is one violation at a field path
type FieldError struct {
	Field   string
	Message string
}

func (e *SchemaError) Error() string {
	var sb strings.Builder
	sb.WriteString("metrics artifact failed schema validation:")
	for _, fe := range e.Errors {
		sb.WriteString(fmt.Sprintf(" %s: %s;", fe.Field, fe.Message))
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// FileStore reads and writes the metrics artifact file
// ⭐ SSOT: pipeline_metrics.json 입출력은 여기서만 수행
type FileStore struct {
	path string
}

// NewFileStore creates a store for the artifact at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the artifact location
func (s *FileStore) Path() string {
	return s.path
}

// Exists reports whether the artifact file is present
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Save writes the snapshot (indent 2), replacing any previous artifact atomically
func (s *FileStore) Save(snap *contracts.MetricsSnapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".metrics-*.json")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace artifact: %w", err)
	}
	return nil
}

// Load reads the artifact, validates it against the embedded schema and decodes it
func (s *FileStore) Load() (*contracts.MetricsSnapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, s.path)
		}
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	if err := ValidateMetrics(data); err != nil {
		return nil, err
	}

	var snap contracts.MetricsSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return &snap, nil
}

// ValidateMetrics checks a metrics document against the embedded JSON Schema
func ValidateMetrics(doc []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(metricsSchema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("validate artifact: %w", err)
	}
	if result.Valid() {
		return nil
	}

	serr := &SchemaError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		serr.Errors = append(serr.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return serr
}
