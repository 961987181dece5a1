package domain

import "github.com/google/uuid"

// NewID returns an opaque identifier such as "ord_4f1c...".
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
