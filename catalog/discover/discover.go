// Package discover implements the asynchronous catalog-load path: querying a
// ClickHouse-family store's system tables for engine classification and, for
// nodes/relationships with auto_discover_columns, for column lists.
package discover

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/genezhang/clickgraph/catalog"
	"github.com/genezhang/clickgraph/diag"
	"github.com/genezhang/clickgraph/internal/ident"
)

// mapped is satisfied by *catalog.NodeSchema and *catalog.RelationshipSchema:
// both expose a property map that discovery can read and extend.
type mapped interface {
	Property(cypherName string) (catalog.PropertyValue, bool)
	SetProperty(cypherName string, value catalog.PropertyValue)
	SetEngine(engine catalog.EngineInfo)
}

// Request describes one node or relationship definition eligible for column
// discovery.
type Request struct {
	Database            string
	Table               string
	AutoDiscoverColumns bool
	ExcludeColumns      []string
	NamingConvention    string // "" or "identity" (default), "camelCase"
	Target              mapped
}

// Enrich queries pool's system tables for every request's engine and,
// where requested, its column list, filling in unmapped properties by
// identity or camelCase-converted column name. schema must not be sealed
// yet: SetProperty/SetEngine panic on a sealed NodeSchema/RelationshipSchema.
//
// A failure against one request degrades to that request's declared YAML
// shape with a warning collected; it never aborts the rest of the batch.
func Enrich(ctx context.Context, pool *sql.DB, requests []Request, collector *diag.Collector) {
	for _, req := range requests {
		enrichOne(ctx, pool, req, collector)
	}
}

func enrichOne(ctx context.Context, pool *sql.DB, req Request, collector *diag.Collector) {
	engineName, err := tableEngine(ctx, pool, req.Database, req.Table)
	if err != nil {
		collector.Collect(diag.NewIssue(diag.Warning, diag.E_MALFORMED_YAML,
			fmt.Sprintf("could not discover engine for %s.%s: %s; keeping declared shape", req.Database, req.Table, err)).
			WithPass("catalog-discover", req.Table).Build())
	} else {
		req.Target.SetEngine(catalog.ClassifyEngine(engineName))
	}

	if !req.AutoDiscoverColumns {
		return
	}

	columns, err := tableColumns(ctx, pool, req.Database, req.Table)
	if err != nil {
		collector.Collect(diag.NewIssue(diag.Warning, diag.E_MALFORMED_YAML,
			fmt.Sprintf("could not discover columns for %s.%s: %s; keeping declared shape", req.Database, req.Table, err)).
			WithPass("catalog-discover", req.Table).Build())
		return
	}

	mergeDiscoveredColumns(req, columns)
}

// mergeDiscoveredColumns maps every discovered column not already covered by
// a declared property mapping and not excluded, by identity or
// naming-convention-converted name. Split out from enrichOne so the merge
// policy is testable without a live store.
func mergeDiscoveredColumns(req Request, columns []string) {
	for _, column := range columns {
		if slices.Contains(req.ExcludeColumns, column) {
			continue
		}
		name := applyNamingConvention(column, req.NamingConvention)
		if _, mapped := req.Target.Property(name); mapped {
			continue
		}
		req.Target.SetProperty(name, catalog.NewColumnProperty(column))
	}
}

func applyNamingConvention(column, convention string) string {
	switch convention {
	case "camelCase":
		return ident.ToLowerCamel(column)
	default:
		return column
	}
}

func tableEngine(ctx context.Context, pool *sql.DB, database, table string) (string, error) {
	var engine string
	row := pool.QueryRowContext(ctx,
		`SELECT engine FROM system.tables WHERE database = ? AND name = ?`, database, table)
	if err := row.Scan(&engine); err != nil {
		return "", err
	}
	return engine, nil
}

func tableColumns(ctx context.Context, pool *sql.DB, database, table string) ([]string, error) {
	rows, err := pool.QueryContext(ctx,
		`SELECT name FROM system.columns WHERE database = ? AND table = ? ORDER BY position`, database, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}
