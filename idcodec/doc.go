// Package idcodec encodes and decodes the element ID of a graph node or
// relationship: a "Label:id" or "Label:k1|k2" string form for display and
// wire transport, and a bit-packed 53-bit integer form for compact storage
// in result sets and WHERE-clause round trips.
//
// # Integer encoding
//
// The low 47 bits hold the raw numeric row ID (enough range for ClickHouse
// UInt64 ids truncated to JavaScript-safe integers); the high 6 bits hold a
// per-process label code assigned by Registry. Code 0 is reserved and means
// "unencoded": a raw numeric ID with no label prefix passes through
// unchanged in both directions. Codes 1-63 are available, giving a hard
// limit of 63 distinct labels per encoder instance.
package idcodec
