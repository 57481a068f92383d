package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewOrderNo builds a short human-facing order number, e.g. QS-3F81A2C4.
func NewOrderNo(prefix string) string {
	return prefix + "-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func NewReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}
