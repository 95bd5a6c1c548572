package output

import (
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// JSONFormatter renders the report as indented JSON
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(r *Report) ([]byte, error) {
	data, err := EncodeJSON(r, true)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// EncodeJSON is the JSON encoding shared by every machine-readable output,
// reports and modification sets alike
func EncodeJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// YAMLFormatter renders the report as YAML
type YAMLFormatter struct{}

func (y YAMLFormatter) Name() string { return "yaml" }

func (y YAMLFormatter) Format(r *Report) ([]byte, error) {
	return yaml.Marshal(r)
}
