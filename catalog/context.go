package catalog

import "context"

type schemaKey struct{}

// NewContext returns a context carrying schema as the active schema for the
// analyzer and renderer passes it will be threaded through. Every query
// plans under exactly one schema; this is how that schema reaches pass code
// without a global registry lookup.
func NewContext(ctx context.Context, schema *GraphSchema) context.Context {
	return context.WithValue(ctx, schemaKey{}, schema)
}

// FromContext returns the schema carried by ctx, or nil, false if none was
// attached with NewContext.
func FromContext(ctx context.Context) (*GraphSchema, bool) {
	schema, ok := ctx.Value(schemaKey{}).(*GraphSchema)
	return schema, ok
}
