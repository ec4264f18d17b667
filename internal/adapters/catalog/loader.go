// Package catalog reads the game catalog from YAML or JSON files.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/gamehub/portal/internal/domain/entities"
	"github.com/gamehub/portal/internal/ports"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

//go:embed catalog.schema.json
var catalogSchema []byte

const maxSchemaErrors = 5

// Loader reads a catalog from Path, or from the embedded catalog when Path is empty.
type Loader struct {
	Path     string
	validate *validator.Validate
}

// NewLoader returns a loader for path.
func NewLoader(path string) *Loader {
	return &Loader{Path: path, validate: validator.New()}
}

var _ ports.CatalogSource = (*Loader)(nil)

// Load reads, schema-checks and decodes the catalog.
func (l *Loader) Load(ctx context.Context) (*entities.Catalog, error) {
	data, err := l.read()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.Parse(data)
}

func (l *Loader) read() ([]byte, error) {
	if strings.TrimSpace(l.Path) == "" {
		return defaultCatalog, nil
	}
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", l.Path, err)
	}
	return data, nil
}

// Parse decodes a YAML or JSON catalog document. JSON documents carry
// dateAdded as RFC 3339; YAML documents may also use plain dates.
func (l *Loader) Parse(data []byte) (*entities.Catalog, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrInvalidCatalog, err)
	}
	if err := validateSchema(doc); err != nil {
		return nil, err
	}

	var catalog entities.Catalog
	if isJSON(data) {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&catalog); err != nil {
			return nil, fmt.Errorf("%w: %v", entities.ErrInvalidCatalog, err)
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&catalog); err != nil {
			return nil, fmt.Errorf("%w: %v", entities.ErrInvalidCatalog, err)
		}
	}

	if l.validate == nil {
		l.validate = validator.New()
	}
	if err := l.validate.Struct(&catalog); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrInvalidCatalog, err)
	}
	return &catalog, nil
}

func isJSON(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// validateSchema checks the generic document against the embedded JSON schema.
func validateSchema(doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrInvalidCatalog, err)
	}

	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(catalogSchema), gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrInvalidCatalog, err)
	}
	if res.Valid() {
		return nil
	}

	var msgs []string
	for i, e := range res.Errors() {
		if i >= maxSchemaErrors {
			break
		}
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", entities.ErrInvalidCatalog, strings.Join(msgs, "; "))
}
