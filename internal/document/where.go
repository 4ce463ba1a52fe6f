package document

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/satishbabariya/sqlphrase/internal/core/condition"
	"github.com/satishbabariya/sqlphrase/internal/core/condition/text"
)

// Where is a condition written either in the textual syntax or as a list
// of parts. Mapping keys keep their document order.
type Where struct {
	Condition *condition.Condition
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (w *Where) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			return nil
		}
		c, err := text.Parse(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		w.Condition = c
		return nil
	case yaml.MappingNode:
		part, err := conditionPart(node)
		if err != nil {
			return err
		}
		c, err := condition.New(part)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		w.Condition = c
		return nil
	case yaml.SequenceNode:
		parts, err := conditionParts(node)
		if err != nil {
			return err
		}
		c, err := condition.New(parts...)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		w.Condition = c
		return nil
	}
	return fmt.Errorf("line %d: unsupported condition node", node.Line)
}

func conditionParts(node *yaml.Node) ([]interface{}, error) {
	parts := make([]interface{}, 0, len(node.Content))
	for _, child := range node.Content {
		part, err := conditionPart(child)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return parts, nil
}

func conditionPart(node *yaml.Node) (interface{}, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return conditionPart(node.Alias)
	case yaml.SequenceNode:
		return conditionParts(node)
	case yaml.MappingNode:
		pairs := make(condition.Pairs, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var value interface{}
			if err := node.Content[i+1].Decode(&value); err != nil {
				return nil, err
			}
			pairs = append(pairs, condition.Pair{Key: node.Content[i].Value, Value: value})
		}
		return pairs, nil
	default:
		return node.Value, nil
	}
}
