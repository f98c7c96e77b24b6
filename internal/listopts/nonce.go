package listopts

import "github.com/google/uuid"

// NewNonce returns a fresh random identifier a caller may attach to a
// page-token issuance for log correlation (e.g. "issued token <nonce>
// for query X"). It plays no part in token encoding, decoding, or
// equality — Cursor identity is carried entirely by FieldOffset/
// IDOffset/ListedIDs, never by this value.
func NewNonce() string {
	return uuid.New().String()
}
