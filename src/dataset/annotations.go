package dataset

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/PresageLabs/PrediBench-sub001/src/types"
)

var ErrAnnotationFile = errors.New("annotation file must be a mapping of date to content")

// LoadAnnotations reads a YAML (or JSON, which parses as YAML) mapping of
// window start date to annotation. A value is either a plain string or an
// object with a content field:
//
//	2024-01-01: launch
//	"2024-02-15":
//	  content: model update
//
// Keys are returned verbatim; they are validated when the chart is built.
func LoadAnnotations(path string) (map[string]types.Annotation, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out, err := ParseAnnotations(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Infof("loaded %d annotations from %s", len(out), path)
	return out, nil
}

// ParseAnnotations decodes annotation file content. Empty input yields an
// empty mapping.
func ParseAnnotations(b []byte) (map[string]types.Annotation, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	out := map[string]types.Annotation{}
	if len(doc.Content) == 0 {
		return out, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, ErrAnnotationFile
	}
	// keys are read from the node text so unquoted dates stay strings
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: line %d", ErrAnnotationFile, k.Line)
		}
		var a types.Annotation
		switch v.Kind {
		case yaml.ScalarNode:
			a.Content = v.Value
		case yaml.MappingNode:
			if err := v.Decode(&a); err != nil {
				return nil, fmt.Errorf("%q: %w", k.Value, err)
			}
		default:
			return nil, fmt.Errorf("%w: %q at line %d", ErrAnnotationFile, k.Value, v.Line)
		}
		if _, dup := out[k.Value]; dup {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrAnnotationFile, k.Value)
		}
		out[k.Value] = a
	}
	return out, nil
}
