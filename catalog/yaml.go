package catalog

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// The persisted files are mappings from name to fields. yaml.v3 nodes keep the
// mapping in scrape order, which a Go map would lose.

func (c Courses) MarshalYAML() (interface{}, error) {
	return encodeNamed(c, func(course Course) string { return course.Name })
}

func (c *Courses) UnmarshalYAML(value *yaml.Node) error {
	courses, err := decodeNamed(value, func(course *Course, name string) { course.Name = name })
	if err != nil {
		return errors.Wrap(err, "failed to decode courses")
	}

	*c = courses
	return nil
}

func (s Specializations) MarshalYAML() (interface{}, error) {
	return encodeNamed(s, func(spec Specialization) string { return spec.Name })
}

func (s *Specializations) UnmarshalYAML(value *yaml.Node) error {
	specs, err := decodeNamed(value, func(spec *Specialization, name string) { spec.Name = name })
	if err != nil {
		return errors.Wrap(err, "failed to decode specializations")
	}

	*s = specs
	return nil
}

func encodeNamed[T any](items []T, name func(T) string) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, item := range items {
		var value yaml.Node
		if err := value.Encode(item); err != nil {
			return nil, err
		}

		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name(item)}
		node.Content = append(node.Content, key, &value)
	}

	return node, nil
}

func decodeNamed[T any](node *yaml.Node, setName func(*T, string)) ([]T, error) {
	if node.Kind != yaml.MappingNode {
		return nil, errors.Errorf("expected a mapping at line %d, got kind %d", node.Line, node.Kind)
	}

	items := make([]T, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		var item T
		if err := value.Decode(&item); err != nil {
			return nil, errors.Wrapf(err, "entry %q", key.Value)
		}

		setName(&item, key.Value)
		items = append(items, item)
	}

	return items, nil
}
