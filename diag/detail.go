package diag

import "strconv"

// Detail provides key-value context for diagnostic issues.
//
// Details are used to add structured information to issues that can be
// programmatically inspected by tools. Use the standard detail key constants
// to ensure consistent key naming across the codebase.
type Detail struct {
	Key   string
	Value string
}

// Standard detail keys for consistent diagnostic metadata.
//
// Use these constants to avoid stringly-typed drift and enable programmatic
// inspection of diagnostic details. Custom detail keys are permitted for
// domain-specific diagnostics; use lower_snake_case for custom keys.
const (
	// DetailKeyLabel is the node label involved in the diagnostic.
	DetailKeyLabel = "label"

	// DetailKeyRelType is the relationship type involved.
	DetailKeyRelType = "rel_type"

	// DetailKeyFromLabel is the from-node label of a relationship pattern.
	DetailKeyFromLabel = "from_label"

	// DetailKeyToLabel is the to-node label of a relationship pattern.
	DetailKeyToLabel = "to_label"

	// DetailKeyCompositeKey is the "TYPE::FROM::TO" composite key involved.
	DetailKeyCompositeKey = "composite_key"

	// DetailKeyProperty is the property name involved.
	DetailKeyProperty = "property"

	// DetailKeyAlias is the Cypher pattern alias involved.
	DetailKeyAlias = "alias"

	// DetailKeyPass is the analyzer pass name.
	DetailKeyPass = "pass"

	// DetailKeyExpected is the expected value or type.
	DetailKeyExpected = "expected"

	// DetailKeyGot is the actual value or type received.
	DetailKeyGot = "got"

	// DetailKeyCombinationCount is the number of label/type combinations an
	// untyped pattern expanded to.
	DetailKeyCombinationCount = "combination_count"

	// DetailKeyMaxCombinations is the configured combination limit
	// (MaxUntypedCombinations) that was exceeded.
	DetailKeyMaxCombinations = "max_combinations"

	// DetailKeyCteName is the CTE name involved (duplicate name, missing
	// column lookup).
	DetailKeyCteName = "cte_name"

	// DetailKeyLabelCode is the 6-bit label code assigned during element ID
	// encoding.
	DetailKeyLabelCode = "label_code"

	// DetailKeyCycle is the polymorphic resolution cycle participants as a
	// comma-separated list of labels.
	DetailKeyCycle = "cycle"

	// DetailKeyYAMLPath is the dotted path within the schema YAML document
	// (e.g., "relationships[2].from_node").
	DetailKeyYAMLPath = "yaml_path"
)

// ExpectedGot creates a pair of details for type or arity mismatch diagnostics.
func ExpectedGot(expected, got string) []Detail {
	return []Detail{
		{Key: DetailKeyExpected, Value: expected},
		{Key: DetailKeyGot, Value: got},
	}
}

// LabelRelType creates detail entries for diagnostics naming a label and a
// relationship type (e.g., E_MISSING_RELATIONSHIP).
func LabelRelType(label, relType string) []Detail {
	return []Detail{
		{Key: DetailKeyLabel, Value: label},
		{Key: DetailKeyRelType, Value: relType},
	}
}

// CompositeKeyDetail creates a detail entry for a composite relationship key.
func CompositeKeyDetail(key string) []Detail {
	return []Detail{{Key: DetailKeyCompositeKey, Value: key}}
}

// AliasProperty creates detail entries for diagnostics involving a property
// lookup on a bound alias (e.g., E_UNKNOWN_PROPERTY).
func AliasProperty(alias, property string) []Detail {
	return []Detail{
		{Key: DetailKeyAlias, Value: alias},
		{Key: DetailKeyProperty, Value: property},
	}
}

// CombinationLimit creates detail entries for E_COMBINATION_LIMIT_EXCEEDED.
func CombinationLimit(count, max int) []Detail {
	return []Detail{
		{Key: DetailKeyCombinationCount, Value: strconv.Itoa(count)},
		{Key: DetailKeyMaxCombinations, Value: strconv.Itoa(max)},
	}
}
