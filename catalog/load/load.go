// Package load is the synchronous YAML-driven catalog loader: it decodes a
// graph_schema document, builds a catalog.GraphSchema from its node and
// relationship declarations, optionally enriches it against a live
// ClickHouse-family connection pool, completes and seals it, and optionally
// publishes it to a catalog.Registry for hot-reload pickup.
package load

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/genezhang/clickgraph/catalog"
	"github.com/genezhang/clickgraph/catalog/discover"
	"github.com/genezhang/clickgraph/catalog/internal/complete"
	"github.com/genezhang/clickgraph/diag"
	"github.com/genezhang/clickgraph/location"
)

// structValidator checks the yaml/validate struct tags on a decoded
// yamlDocument before any of it reaches catalog construction.
var structValidator = validator.New()

// LoadFile reads path, decodes it as a graph_schema YAML document, and
// builds a sealed catalog.GraphSchema from it.
//
// ctx must not be nil; passing nil panics.
// On error, the returned schema is nil but diag.Result may still carry
// useful diagnostics (e.g. a malformed YAML document).
func LoadFile(ctx context.Context, path string, opts ...Option) (*catalog.GraphSchema, diag.Result) {
	if ctx == nil {
		panic("load.LoadFile: context must not be nil")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		c := diag.NewCollector(100)
		c.Collect(diag.NewIssue(diag.Error, diag.E_MALFORMED_YAML,
			fmt.Sprintf("read %q: %s", path, err)).Build())
		return nil, c.Result()
	}

	sourceID, err := location.SourceIDFromPath(path)
	if err != nil {
		c := diag.NewCollector(100)
		c.Collect(diag.NewIssue(diag.Error, diag.E_MALFORMED_YAML,
			fmt.Sprintf("invalid path %q: %s", path, err)).Build())
		return nil, c.Result()
	}

	return LoadBytes(ctx, sourceID, content, opts...)
}

// LoadBytes decodes data as a graph_schema YAML document under sourceID and
// builds a sealed catalog.GraphSchema from it.
//
// ctx must not be nil; passing nil panics.
func LoadBytes(ctx context.Context, sourceID location.SourceID, data []byte, opts ...Option) (*catalog.GraphSchema, diag.Result) {
	if ctx == nil {
		panic("load.LoadBytes: context must not be nil")
	}

	cfg := defaultConfig()
	applyOptions(cfg, opts)

	collector := diag.NewCollector(cfg.issueLimit)
	cfg.sourceRegistry.Put(sourceID, data)
	docSpan := location.Point(sourceID, 1, 1)

	doc, err := decodeYAML(data)
	if err != nil {
		collector.Collect(diag.NewIssue(diag.Error, diag.E_MALFORMED_YAML,
			fmt.Sprintf("parse graph_schema document: %s", err)).
			WithSpan(docSpan).Build())
		return nil, collector.Result()
	}

	if err := structValidator.Struct(doc); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			collector.Collect(diag.NewIssue(diag.Error, diag.E_MALFORMED_YAML,
				fmt.Sprintf("%s failed %q validation", fieldErr.Namespace(), fieldErr.Tag())).
				WithSpan(docSpan).Build())
		}
		return nil, collector.Result()
	}

	name := doc.GraphSchema.Name
	if name == "" {
		name = sourceID.String()
	}
	schema := catalog.NewGraphSchema(name)

	nSpans := nodeSpans(sourceID, data)
	rSpans := relationshipSpans(sourceID, data)

	var discoverRequests []discover.Request

	for i, yn := range doc.GraphSchema.Nodes {
		span := spanAt(nSpans, i, docSpan)
		node, reqs, ok := buildNode(yn, span, collector)
		if !ok {
			continue
		}
		if err := schema.AddNode(node); err != nil {
			collector.Collect(diag.NewIssue(diag.Error, diag.E_DUPLICATE_NODE_LABEL, err.Error()).
				WithSpan(span).WithPass("catalog-load", yn.Label).Build())
			continue
		}
		discoverRequests = append(discoverRequests, reqs...)
	}

	for i, yr := range doc.GraphSchema.Relationships {
		span := spanAt(rSpans, i, docSpan)
		rel, reqs, ok := buildRelationship(yr, span, collector)
		if !ok {
			continue
		}
		if err := schema.AddRelationship(rel); err != nil {
			collector.Collect(diag.NewIssue(diag.Error, diag.E_DUPLICATE_REL_KEY, err.Error()).
				WithSpan(span).WithPass("catalog-load", string(rel.CompositeKey())).Build())
			continue
		}
		discoverRequests = append(discoverRequests, reqs...)
	}

	if collector.HasErrors() {
		return nil, collector.Result()
	}

	if cfg.discoveryPool != nil && len(discoverRequests) > 0 {
		discover.Enrich(ctx, cfg.discoveryPool, discoverRequests, collector)
	}

	if !complete.Complete(schema, collector) {
		return nil, collector.Result()
	}

	if cfg.registry != nil {
		cfg.registry.Set(schema)
	}

	if cfg.logger != nil {
		cfg.logger.Info("catalog loaded",
			"source", sourceID.String(),
			"name", schema.Name(),
			"nodes", len(schema.NodesSlice()),
			"relationships", len(schema.RelationshipsSlice()))
	}

	return schema, collector.Result()
}

// buildNode constructs a *catalog.NodeSchema from its YAML declaration.
// Returns ok=false if a required field is missing or malformed; the
// diagnostic explaining why has already been collected.
func buildNode(yn yamlNode, span location.Span, collector *diag.Collector) (*catalog.NodeSchema, []discover.Request, bool) {
	if yn.Label == "" {
		collector.Collect(diag.NewIssue(diag.Error, diag.E_MALFORMED_YAML,
			"node declaration is missing label").WithSpan(span).Build())
		return nil, nil, false
	}
	if len(yn.NodeID) == 0 {
		collector.Collect(diag.NewIssue(diag.Error, diag.E_MALFORMED_YAML,
			fmt.Sprintf("node %q is missing node_id", yn.Label)).WithSpan(span).Build())
		return nil, nil, false
	}

	idType := catalog.TypeInteger
	if yn.NodeIDType != "" {
		parsed, ok := catalog.ParseSchemaType(yn.NodeIDType)
		if !ok {
			collector.Collect(diag.NewIssue(diag.Error, diag.E_MALFORMED_YAML,
				fmt.Sprintf("node %q: unknown node_id_type %q", yn.Label, yn.NodeIDType)).WithSpan(span).Build())
			return nil, nil, false
		}
		idType = parsed
	}

	var nodeID catalog.NodeIdSchema
	if len(yn.NodeID) == 1 {
		nodeID = catalog.NewSingleNodeID(yn.NodeID[0], idType)
	} else {
		types := make([]catalog.SchemaType, len(yn.NodeID))
		for i := range types {
			types[i] = idType
		}
		nodeID = catalog.NewCompositeNodeID(yn.NodeID, types)
	}

	var node *catalog.NodeSchema
	if yn.Table == "" {
		node = catalog.NewDenormalizedNodeSchema(catalog.Label(yn.Label), nodeID)
	} else {
		node = catalog.NewNodeSchema(catalog.Label(yn.Label), yn.Table, yn.Database, nodeID)
	}

	for cypherName, column := range yn.PropertyMappings {
		node.SetProperty(cypherName, catalog.NewColumnProperty(column))
	}
	for cypherName, column := range yn.FromProperties {
		node.SetFromProperty(cypherName, catalog.NewColumnProperty(column))
	}
	for cypherName, column := range yn.ToProperties {
		node.SetToProperty(cypherName, catalog.NewColumnProperty(column))
	}

	if yn.Filter != "" {
		filter, err := catalog.ParseSchemaFilter(yn.Filter)
		if err != nil {
			collector.Collect(diag.NewIssue(diag.Error, diag.E_INVALID_SCHEMA_FILTER,
				fmt.Sprintf("node %q: invalid filter %q: %s", yn.Label, yn.Filter, err)).WithSpan(span).Build())
			return nil, nil, false
		}
		node.SetFilter(filter)
	}

	if yn.Engine != "" {
		node.SetEngine(catalog.ClassifyEngine(yn.Engine))
	}

	var reqs []discover.Request
	if yn.AutoDiscoverColumns {
		if yn.Table == "" {
			collector.Collect(diag.NewIssue(diag.Warning, diag.E_MALFORMED_YAML,
				fmt.Sprintf("node %q: auto_discover_columns has no effect on a denormalized node with no table", yn.Label)).
				WithSpan(span).Build())
		} else {
			reqs = append(reqs, discover.Request{
				Database:            yn.Database,
				Table:               yn.Table,
				AutoDiscoverColumns: true,
				ExcludeColumns:      yn.ExcludeColumns,
				NamingConvention:    yn.NamingConvention,
				Target:              node,
			})
		}
	} else if yn.Engine == "" && yn.Table != "" {
		reqs = append(reqs, discover.Request{
			Database: yn.Database,
			Table:    yn.Table,
			Target:   node,
		})
	}

	return node, reqs, true
}

// buildRelationship constructs a *catalog.RelationshipSchema from its YAML
// declaration.
func buildRelationship(yr yamlRelationship, span location.Span, collector *diag.Collector) (*catalog.RelationshipSchema, []discover.Request, bool) {
	if yr.Type == "" && !yr.Polymorphic {
		collector.Collect(diag.NewIssue(diag.Error, diag.E_MALFORMED_YAML,
			"relationship declaration is missing type").WithSpan(span).Build())
		return nil, nil, false
	}
	if len(yr.FromID) == 0 || len(yr.ToID) == 0 {
		collector.Collect(diag.NewIssue(diag.Error, diag.E_MALFORMED_YAML,
			fmt.Sprintf("relationship %q is missing from_id or to_id", yr.Type)).WithSpan(span).Build())
		return nil, nil, false
	}

	fromNode := catalog.Label(yr.FromNode)
	if fromNode == "" {
		fromNode = catalog.AnyLabel
	}
	toNode := catalog.Label(yr.ToNode)
	if toNode == "" {
		toNode = catalog.AnyLabel
	}

	fromID := joinColumns(yr.FromID)
	toID := joinColumns(yr.ToID)

	var rel *catalog.RelationshipSchema
	if yr.IsFkEdge {
		rel = catalog.NewFkEdgeSchema(catalog.RelType(yr.Type), fromNode, toNode, fromID, toID)
	} else {
		if yr.Table == "" {
			collector.Collect(diag.NewIssue(diag.Error, diag.E_MALFORMED_YAML,
				fmt.Sprintf("relationship %q is missing table (set is_fk_edge for a foreign-key edge)", yr.Type)).
				WithSpan(span).Build())
			return nil, nil, false
		}
		rel = catalog.NewRelationshipSchema(catalog.RelType(yr.Type), fromNode, toNode, yr.Table, yr.Database, fromID, toID)
	}

	for cypherName, column := range yr.PropertyMappings {
		rel.SetProperty(cypherName, catalog.NewColumnProperty(column))
	}

	if len(yr.EdgeID) > 0 {
		rel.SetEdgeID(joinColumns(yr.EdgeID))
	}

	if yr.TypeColumn != "" || yr.FromLabelColumn != "" || yr.ToLabelColumn != "" || len(yr.TypeValues) > 0 {
		rel.SetPolymorphicDiscrimination(yr.TypeColumn, yr.FromLabelColumn, yr.ToLabelColumn, yr.TypeValues)
	}

	if yr.Constraints != "" {
		c, err := catalog.ParseRelationshipConstraint(yr.Constraints)
		if err != nil {
			collector.Collect(diag.NewIssue(diag.Error, diag.E_INVALID_SCHEMA_FILTER,
				fmt.Sprintf("relationship %q: invalid constraints %q: %s", yr.Type, yr.Constraints, err)).
				WithSpan(span).Build())
			return nil, nil, false
		}
		rel.SetConstraints(c)
	}

	if yr.Engine != "" {
		rel.SetEngine(catalog.ClassifyEngine(yr.Engine))
	}

	var reqs []discover.Request
	if yr.Table != "" && (yr.AutoDiscoverColumns || yr.Engine == "") {
		reqs = append(reqs, discover.Request{
			Database:            yr.Database,
			Table:               yr.Table,
			AutoDiscoverColumns: yr.AutoDiscoverColumns,
			ExcludeColumns:      yr.ExcludeColumns,
			NamingConvention:    yr.NamingConvention,
			Target:              rel,
		})
	}

	return rel, reqs, true
}

func joinColumns(columns []string) catalog.JoinColumns {
	if len(columns) == 1 {
		return catalog.NewSingleJoinColumn(columns[0])
	}
	return catalog.NewCompositeJoinColumns(columns)
}
