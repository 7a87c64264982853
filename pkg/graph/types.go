package graph

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueType represents the type of a node property value
type ValueType uint8

const (
	TypeString ValueType = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeStringList
)

// Value represents a typed node property value
type Value struct {
	Type ValueType
	Data string
}

// Helper functions to create typed values
func StringValue(s string) Value {
	return Value{Type: TypeString, Data: s}
}

func IntValue(i int64) Value {
	return Value{Type: TypeInt, Data: strconv.FormatInt(i, 10)}
}

func FloatValue(f float64) Value {
	return Value{Type: TypeFloat, Data: strconv.FormatFloat(f, 'g', -1, 64)}
}

func BoolValue(b bool) Value {
	return Value{Type: TypeBool, Data: strconv.FormatBool(b)}
}

// StringListValue stores a list of strings as a tab-joined value.
// Tabs cannot occur inside elements; inputs come from tab-separated files.
func StringListValue(items []string) Value {
	return Value{Type: TypeStringList, Data: strings.Join(items, "\t")}
}

// Decode methods
func (v Value) AsString() (string, error) {
	if v.Type != TypeString {
		return "", fmt.Errorf("value is not a string")
	}
	return v.Data, nil
}

func (v Value) AsInt() (int64, error) {
	if v.Type != TypeInt {
		return 0, fmt.Errorf("value is not an int")
	}
	return strconv.ParseInt(v.Data, 10, 64)
}

func (v Value) AsFloat() (float64, error) {
	if v.Type != TypeFloat {
		return 0, fmt.Errorf("value is not a float")
	}
	return strconv.ParseFloat(v.Data, 64)
}

func (v Value) AsBool() (bool, error) {
	if v.Type != TypeBool {
		return false, fmt.Errorf("value is not a bool")
	}
	return strconv.ParseBool(v.Data)
}

func (v Value) AsStringList() ([]string, error) {
	if v.Type != TypeStringList {
		return nil, fmt.Errorf("value is not a string list")
	}
	if v.Data == "" {
		return []string{}, nil
	}
	return strings.Split(v.Data, "\t"), nil
}

// String renders the value for display regardless of type.
func (v Value) String() string {
	if v.Type == TypeStringList {
		return strings.ReplaceAll(v.Data, "\t", ", ")
	}
	return v.Data
}

// Node represents a Mapper graph node. Members are the orthogroup row
// indices the node covers in the orthogroup table.
type Node struct {
	ID         uint64
	Name       string
	Members    []int
	Properties map[string]Value
}

// Statistics holds graph-level counts
type Statistics struct {
	NodeCount int
	LinkCount int
}
