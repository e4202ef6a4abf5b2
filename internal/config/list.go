package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// FloatList decodes from either a YAML scalar or a YAML sequence, so
// inputs may write `J: 0.3` and `J: [0.2, 0.3]` interchangeably.
type FloatList []float64

func (l *FloatList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := node.Decode(&v); err != nil {
			return err
		}
		*l = FloatList{v}
		return nil
	case yaml.SequenceNode:
		var vs []float64
		if err := node.Decode(&vs); err != nil {
			return err
		}
		*l = FloatList(vs)
		return nil
	}
	return fmt.Errorf("config: line %d: expected scalar or sequence", node.Line)
}

// IntList is the integer counterpart of FloatList.
type IntList []int

func (l *IntList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v int
		if err := node.Decode(&v); err != nil {
			return err
		}
		*l = IntList{v}
		return nil
	case yaml.SequenceNode:
		var vs []int
		if err := node.Decode(&vs); err != nil {
			return err
		}
		*l = IntList(vs)
		return nil
	}
	return fmt.Errorf("config: line %d: expected scalar or sequence", node.Line)
}
