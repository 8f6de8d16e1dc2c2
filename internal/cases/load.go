package cases

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

// ErrEmpty is reported when a source holds no cases.
var ErrEmpty = errors.New("no cases")

// LoadError reports an unreadable or malformed case source.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("load cases: %v", e.Err)
	}
	return fmt.Sprintf("load cases from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads a JSON or YAML case file and returns a store over its cases.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	cs, err := Parse(data, formatFromPath(path))
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Source = path
			return nil, le
		}
		return nil, &LoadError{Source: path, Err: err}
	}
	return NewStore(cs), nil
}

// Format names a case file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func formatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes raw case data in the given format.
func Parse(data []byte, format Format) ([]Case, error) {
	var doc any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &LoadError{Err: fmt.Errorf("parse yaml: %w", err)}
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, &LoadError{Err: fmt.Errorf("parse json: %w", err)}
		}
	default:
		return nil, &LoadError{Err: fmt.Errorf("unsupported format %q", format)}
	}
	return Decode(doc)
}

// Decode validates a generic document (a list of case objects) and converts it to cases.
func Decode(doc any) ([]Case, error) {
	if err := validate(doc); err != nil {
		return nil, &LoadError{Err: err}
	}
	var out []Case
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, &LoadError{Err: fmt.Errorf("init decoder: %w", err)}
	}
	if err := decoder.Decode(doc); err != nil {
		return nil, &LoadError{Err: fmt.Errorf("decode cases: %w", err)}
	}
	if len(out) == 0 {
		return nil, &LoadError{Err: ErrEmpty}
	}
	return out, nil
}

func validate(doc any) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaJSON)
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validate case schema: %w", err)
	}
	if result.Valid() {
		return nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, schemaErr := range result.Errors() {
		errs = append(errs, schemaErr.String())
	}
	sort.Strings(errs)

	return fmt.Errorf("case schema validation failed: %s", strings.Join(errs, "; "))
}
