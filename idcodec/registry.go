package idcodec

import (
	"fmt"
	"sync"

	"github.com/genezhang/clickgraph/catalog"
)

// Registry assigns a stable, per-process label code (1-63) to each node
// label the first time it is seen, for use with Encode/Decode. Registry is
// append-only and safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	codeOf   map[catalog.Label]uint8
	labelOf  map[uint8]catalog.Label
	nextCode uint8
}

// NewRegistry creates an empty label registry.
func NewRegistry() *Registry {
	return &Registry{
		codeOf:   make(map[catalog.Label]uint8),
		labelOf:  make(map[uint8]catalog.Label),
		nextCode: 1,
	}
}

// CodeFor returns the label code for label, assigning a new one if this is
// the first time label has been seen. Returns an error once all 63 codes
// are exhausted.
func (r *Registry) CodeFor(label catalog.Label) (uint8, error) {
	r.mu.RLock()
	if code, ok := r.codeOf[label]; ok {
		r.mu.RUnlock()
		return code, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if code, ok := r.codeOf[label]; ok {
		return code, nil
	}
	if uint64(r.nextCode) > MaxLabelCode {
		return 0, fmt.Errorf("idcodec: label code space exhausted (max %d labels) assigning code for %q", MaxLabelCode, label)
	}
	code := r.nextCode
	r.nextCode++
	r.codeOf[label] = code
	r.labelOf[code] = label
	return code, nil
}

// Label returns the label registered under code, if any.
func (r *Registry) Label(code uint8) (catalog.Label, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.labelOf[code]
	return l, ok
}

// Len returns the number of labels registered so far.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.codeOf)
}
