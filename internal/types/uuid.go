package types

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	UUID_PREFIX_SERVICE_CENTER       = "center"
	UUID_PREFIX_PAYMENT_TRANSACTION  = "txn"
	UUID_PREFIX_SUBSCRIPTION_HISTORY = "sub"
	UUID_PREFIX_PAYMENT_PLAN         = "plan"
	UUID_PREFIX_REQUEST              = "req"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	id, _ := uuid.NewV7()
	return id.String()
}

// GenerateUUIDWithPrefix returns a unique identifier prefixed with the entity
// type, e.g. "txn_0190f2...".
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}
