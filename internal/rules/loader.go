package rules

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mwhardin/probata/internal/fault"
)

// ruleFile is the on-disk shape shared by the JSON and YAML loaders.
type ruleFile struct {
	Jurisdictions []Rule `json:"jurisdictions" yaml:"jurisdictions"`
}

func LoadJSON(r io.Reader) (*Table, error) {
	const op = "rules.LoadJSON"

	var f ruleFile

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&f); err != nil {
		return nil, fault.Configuration(op, "malformed rule table: %v", err)
	}

	return NewTable(f.Jurisdictions)
}

func LoadYAML(r io.Reader) (*Table, error) {
	const op = "rules.LoadYAML"

	var f ruleFile

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&f); err != nil {
		return nil, fault.Configuration(op, "malformed rule table: %v", err)
	}

	return NewTable(f.Jurisdictions)
}

// LoadFile loads a rule table, choosing the decoder by file extension.
func LoadFile(path string) (*Table, error) {
	const op = "rules.LoadFile"

	f, err := os.Open(path)
	if err != nil {
		return nil, fault.Configuration(op, "open rule table: %v", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return LoadJSON(f)
	case ".yaml", ".yml":
		return LoadYAML(f)
	default:
		return nil, fault.Configuration(op, "unsupported rule table format %q", ext)
	}
}
