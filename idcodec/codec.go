package idcodec

import (
	"fmt"
	"hash/fnv"
)

const (
	// labelBits is the width of the label code field.
	labelBits = 6
	// idBits is the width of the raw id field.
	idBits = 47
	// MaxID is the largest raw id value the 47-bit field can hold.
	MaxID = (uint64(1) << idBits) - 1
	// MaxLabelCode is the largest assignable label code (codes 1..63).
	MaxLabelCode = (uint64(1) << labelBits) - 1

	idMask = MaxID
)

// Encode packs labelCode into the high 6 bits and id into the low 47 bits of
// a 53-bit integer. labelCode 0 (reserved "unencoded") passes id through
// unchanged. Encode panics if id exceeds MaxID or labelCode exceeds
// MaxLabelCode; callers validate against Registry before encoding.
func Encode(labelCode uint8, id uint64) uint64 {
	if id > MaxID {
		panic(fmt.Sprintf("idcodec: id %d exceeds %d-bit range", id, idBits))
	}
	if uint64(labelCode) > MaxLabelCode {
		panic(fmt.Sprintf("idcodec: label code %d exceeds %d-bit range", labelCode, labelBits))
	}
	if labelCode == 0 {
		return id
	}
	return uint64(labelCode)<<idBits | (id & idMask)
}

// Decode splits a 53-bit integer back into its label code and raw id. A
// value with no bits set above the 47-bit field decodes to label code 0
// ("unencoded") and the value unchanged.
func Decode(encoded uint64) (labelCode uint8, id uint64) {
	code := encoded >> idBits
	if code == 0 {
		return 0, encoded
	}
	return uint8(code), encoded & idMask
}

// HashString folds an arbitrary string id (or a composite id's serialized
// concatenation) down to the 47-bit range using FNV-1a.
func HashString(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64() & idMask
}
