package api

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a failure reported by the remote service: a non-2xx status or a
// body with success=false. Message is the server-provided text, falling back
// to the HTTP status line.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("api: %s (HTTP %d)", e.Message, e.Status)
	}
	return "api: " + e.Message
}

// entitlement phrases the service uses when a lookup needs a paid plan.
var entitlementPhrases = []string{"402", "pro subscription", "upgrade"}

// IsEntitlement reports whether err looks like a paywall rejection:
// HTTP 402, or a message mentioning an upgrade or Pro subscription.
func IsEntitlement(err error) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) && e.Status == 402 {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, p := range entitlementPhrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
