// Package ident provides rune-aware identifier tokenization and case
// conversion utilities for the clickgraph module.
//
// # Internal Package
//
// This package is internal to the clickgraph module. Its one caller is the
// catalog discovery package, which uses [ToLowerCamel] to turn column names
// into property names under the "camelCase" naming convention.
//
// # lower_snake Algorithm
//
// The [ToLowerSnake] function implements the canonical lower_snake algorithm:
//
//	WORKS_AT   -> works_at
//	HTTPProxy  -> http_proxy
//	CreatedBy  -> created_by
//	UserID     -> user_id
//
// # Thread Safety
//
// All functions in this package are stateless and safe for concurrent use.
//
// # Stdlib-Only Dependencies
//
// This package depends only on stdlib.
package ident
