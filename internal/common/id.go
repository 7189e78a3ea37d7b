package common

import (
	"github.com/google/uuid"
)

// NewFlowID generates a unique login-flow correlation ID with the "flow_" prefix
// Format: flow_<uuid>
func NewFlowID() string {
	return "flow_" + uuid.New().String()
}
