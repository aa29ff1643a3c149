package main

import (
	"fmt"
	"strings"
)

// EnumValue restricts a flag's string value to a fixed set of choices.
type EnumValue struct {
	Enum     []string
	Default  string
	selected string
}

func (e *EnumValue) Set(value string) error {
	for _, allowed := range e.Enum {
		if allowed == value {
			e.selected = value
			return nil
		}
	}
	return fmt.Errorf("allowed values: [%s]", strings.Join(e.Enum, ", "))
}

func (e EnumValue) String() string {
	if e.selected == "" {
		return e.Default
	}
	return e.selected
}

func (e EnumValue) Get() interface{} { return e }
