package load

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/genezhang/clickgraph/location"
)

// yamlDocument is the root shape of a graph-schema YAML file.
type yamlDocument struct {
	GraphSchema yamlGraphSchema `yaml:"graph_schema"`
}

type yamlGraphSchema struct {
	Name          string             `yaml:"name"`
	Nodes         []yamlNode         `yaml:"nodes" validate:"dive"`
	Relationships []yamlRelationship `yaml:"relationships" validate:"dive"`
}

// yamlNode mirrors the node options recognized under graph_schema.nodes.
type yamlNode struct {
	Label               string            `yaml:"label" validate:"required"`
	Database            string            `yaml:"database"`
	Table               string            `yaml:"table"`
	NodeID              yamlNodeID        `yaml:"node_id"`
	NodeIDType          string            `yaml:"node_id_type"`
	PropertyMappings    map[string]string `yaml:"property_mappings"`
	Filter              string            `yaml:"filter"`
	Engine              string            `yaml:"engine"`
	FromProperties      map[string]string `yaml:"from_properties"`
	ToProperties        map[string]string `yaml:"to_properties"`
	ExcludeColumns      []string          `yaml:"exclude_columns"`
	NamingConvention    string            `yaml:"naming_convention"`
	AutoDiscoverColumns bool              `yaml:"auto_discover_columns"`
}

// yamlRelationship mirrors the relationship options recognized under
// graph_schema.relationships.
type yamlRelationship struct {
	Type                string            `yaml:"type"`
	Polymorphic         bool              `yaml:"polymorphic"`
	Database            string            `yaml:"database"`
	Table               string            `yaml:"table"`
	FromID              yamlNodeID        `yaml:"from_id"`
	ToID                yamlNodeID        `yaml:"to_id"`
	FromNode            string            `yaml:"from_node"`
	ToNode              string            `yaml:"to_node"`
	EdgeID              yamlNodeID        `yaml:"edge_id"`
	PropertyMappings    map[string]string `yaml:"property_mappings"`
	Filter              string            `yaml:"filter"`
	Engine              string            `yaml:"engine"`
	TypeColumn          string            `yaml:"type_column"`
	FromLabelColumn     string            `yaml:"from_label_column"`
	ToLabelColumn       string            `yaml:"to_label_column"`
	TypeValues          []string          `yaml:"type_values"`
	Constraints         string            `yaml:"constraints"`
	IsFkEdge            bool              `yaml:"is_fk_edge"`
	ExcludeColumns      []string          `yaml:"exclude_columns"`
	NamingConvention    string            `yaml:"naming_convention"`
	AutoDiscoverColumns bool              `yaml:"auto_discover_columns"`
}

// yamlNodeID accepts either a single column name or a list of columns,
// covering node_id, from_id, to_id, and edge_id.
type yamlNodeID []string

func (n *yamlNodeID) UnmarshalYAML(b []byte) error {
	var single string
	if err := yaml.Unmarshal(b, &single); err == nil && single != "" {
		*n = []string{single}
		return nil
	}
	var list []string
	if err := yaml.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("node_id/from_id/to_id/edge_id must be a string or a list of strings: %w", err)
	}
	*n = list
	return nil
}

// decodeYAML unmarshals data into a yamlDocument.
func decodeYAML(data []byte) (*yamlDocument, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// nodeSpans maps a 0-based index in graph_schema.nodes to the span of that
// sequence item, for diagnostics. relationshipSpans does the same for
// graph_schema.relationships. Both return nil on any parse mismatch; callers
// fall back to a whole-document span rather than failing the load over a
// diagnostics-quality degradation.
func nodeSpans(sourceID location.SourceID, data []byte) []location.Span {
	return sequenceItemSpans(sourceID, data, "nodes")
}

func relationshipSpans(sourceID location.SourceID, data []byte) []location.Span {
	return sequenceItemSpans(sourceID, data, "relationships")
}

// sequenceItemSpans walks the parsed AST looking for graph_schema.<key> and
// returns one span per item in that sequence, taken from each item's
// opening token position.
func sequenceItemSpans(sourceID location.SourceID, data []byte, key string) []location.Span {
	file, err := parseAST(data)
	if err != nil || len(file.Docs) == 0 {
		return nil
	}

	root, ok := asMapping(file.Docs[0].Body)
	if !ok {
		return nil
	}
	graphSchema, ok := lookupMapping(root, "graph_schema")
	if !ok {
		return nil
	}
	seqNode, ok := lookupMapping(graphSchema, key)
	if !ok {
		return nil
	}
	seq, ok := seqNode.(*ast.SequenceNode)
	if !ok {
		return nil
	}

	spans := make([]location.Span, 0, len(seq.Values))
	for _, item := range seq.Values {
		tok := item.GetToken()
		if tok == nil || tok.Position == nil {
			spans = append(spans, location.Span{})
			continue
		}
		spans = append(spans, location.Point(sourceID, tok.Position.Line, tok.Position.Column))
	}
	return spans
}

func parseAST(data []byte) (*ast.File, error) {
	return parser.ParseBytes(data, 0)
}

func asMapping(n ast.Node) (*ast.MappingNode, bool) {
	m, ok := n.(*ast.MappingNode)
	return m, ok
}

// lookupMapping returns the value node for key within m, or ok=false if
// absent or m is not a mapping we can walk.
func lookupMapping(m *ast.MappingNode, key string) (ast.Node, bool) {
	for _, v := range m.Values {
		if v.Key == nil {
			continue
		}
		if keyText(v.Key) == key {
			return v.Value, v.Value != nil
		}
	}
	return nil, false
}

func keyText(n ast.Node) string {
	switch t := n.(type) {
	case *ast.StringNode:
		return t.Value
	default:
		return n.String()
	}
}

// spanAt returns spans[i] if present, else a zero span rooted at the
// document's start.
func spanAt(spans []location.Span, i int, fallback location.Span) location.Span {
	if i >= 0 && i < len(spans) && !spans[i].IsZero() {
		return spans[i]
	}
	return fallback
}
