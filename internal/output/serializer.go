package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	sigsyaml "sigs.k8s.io/yaml"
)

// Serialize converts a report document to canonical YAML bytes. Keys are
// ordered alphabetically and the output always ends with a newline.
func Serialize(doc any) ([]byte, error) {
	yamlBytes, err := sigsyaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("serializing YAML: %w", err)
	}

	if len(yamlBytes) > 0 && yamlBytes[len(yamlBytes)-1] != '\n' {
		yamlBytes = append(yamlBytes, '\n')
	}

	return yamlBytes, nil
}

// SerializeJSON converts a report document to indented JSON bytes.
func SerializeJSON(doc any, indent string) ([]byte, error) {
	if indent == "" {
		indent = "  "
	}

	// Round-trip through sigs.k8s.io/yaml so json-tagged structs and plain
	// maps serialize identically to the YAML path.
	yamlBytes, err := sigsyaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("serializing intermediate YAML: %w", err)
	}

	jsonBytes, err := sigsyaml.YAMLToJSON(yamlBytes)
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, jsonBytes, "", indent); err != nil {
		return nil, fmt.Errorf("formatting JSON: %w", err)
	}

	b := buf.Bytes()

	if len(b) > 0 && b[len(b)-1] != '\n' {
		b = append(b, '\n')
	}

	return b, nil
}
