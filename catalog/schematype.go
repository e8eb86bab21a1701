package catalog

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/genezhang/clickgraph/internal/textlit"
)

// SchemaType is a database-agnostic primitive type for a node or
// relationship property or ID column. Dialect-specific SQL rendering of a
// typed constant lives on Literal.
type SchemaType uint8

const (
	TypeInteger SchemaType = iota
	TypeFloat
	TypeString
	TypeBoolean
	TypeDateTime
	TypeDate
	TypeUUID
)

// String returns the name of the schema type.
func (t SchemaType) String() string {
	switch t {
	case TypeInteger:
		return "Integer"
	case TypeFloat:
		return "Float"
	case TypeString:
		return "String"
	case TypeBoolean:
		return "Boolean"
	case TypeDateTime:
		return "DateTime"
	case TypeDate:
		return "Date"
	case TypeUUID:
		return "UUID"
	default:
		return fmt.Sprintf("SchemaType(%d)", t)
	}
}

// ParseSchemaType parses the YAML type name into a SchemaType.
func ParseSchemaType(name string) (SchemaType, bool) {
	switch name {
	case "Integer", "Int", "Int64":
		return TypeInteger, true
	case "Float", "Float64", "Double":
		return TypeFloat, true
	case "String":
		return TypeString, true
	case "Boolean", "Bool":
		return TypeBoolean, true
	case "DateTime":
		return TypeDateTime, true
	case "Date":
		return TypeDate, true
	case "UUID", "Uuid":
		return TypeUUID, true
	default:
		return 0, false
	}
}

// Literal renders a value of this type as a SQL constant, using the quoting
// and format conventions the dialect expects for the type.
//
// Accepted Go representations: TypeInteger <- int64, TypeFloat <- float64,
// TypeString <- string, TypeBoolean <- bool, TypeDateTime/TypeDate <- string
// (already in the store's expected format) or time.Time via its RFC3339/date
// string form, TypeUUID <- string or uuid.UUID.
func (t SchemaType) Literal(val any) (string, error) {
	switch t {
	case TypeInteger:
		switch v := val.(type) {
		case int64:
			return strconv.FormatInt(v, 10), nil
		case int:
			return strconv.Itoa(v), nil
		}
	case TypeFloat:
		switch v := val.(type) {
		case float64:
			return strconv.FormatFloat(v, 'g', -1, 64), nil
		case float32:
			return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
		}
	case TypeString:
		if v, ok := val.(string); ok {
			return textlit.QuoteSQLString(v), nil
		}
	case TypeBoolean:
		if v, ok := val.(bool); ok {
			if v {
				return "1", nil
			}
			return "0", nil
		}
	case TypeDateTime:
		if v, ok := val.(string); ok {
			return fmt.Sprintf("toDateTime(%s)", textlit.QuoteSQLString(v)), nil
		}
	case TypeDate:
		if v, ok := val.(string); ok {
			return fmt.Sprintf("toDate(%s)", textlit.QuoteSQLString(v)), nil
		}
	case TypeUUID:
		switch v := val.(type) {
		case string:
			if _, err := uuid.Parse(v); err != nil {
				return "", fmt.Errorf("catalog: invalid UUID literal %q: %w", v, err)
			}
			return fmt.Sprintf("toUUID(%s)", textlit.QuoteSQLString(v)), nil
		case uuid.UUID:
			return fmt.Sprintf("toUUID(%s)", textlit.QuoteSQLString(v.String())), nil
		}
	}
	return "", fmt.Errorf("catalog: value %v (%T) is not a valid %s literal", val, val, t)
}
