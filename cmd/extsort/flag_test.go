package main

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestEnumValue_SetRejectsUnknownValue(t *testing.T) {
	e := &EnumValue{Enum: []string{"asc", "desc"}, Default: "asc"}

	assert.NilError(t, e.Set("desc"))
	assert.Equal(t, e.String(), "desc")

	err := e.Set("sideways")
	assert.Assert(t, err != nil)
}

func TestEnumValue_StringFallsBackToDefault(t *testing.T) {
	e := &EnumValue{Enum: []string{"asc", "desc"}, Default: "asc"}
	assert.Equal(t, e.String(), "asc")
}
