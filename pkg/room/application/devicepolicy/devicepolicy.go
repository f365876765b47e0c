// Package devicepolicy decides whether a freshly paired room should be
// advised to skip direct connectivity. The advisory is evaluated exactly
// once, at the moment a room reaches two peers, and is never enforced.
package devicepolicy

import "encoding/json"

// ForceRelayReason is sent alongside the advisory so clients can surface
// why a relayed path was requested.
const ForceRelayReason = "both peers report a restricted mobile device class"

// deviceInfo is the subset of the self-reported device payload the policy
// inspects. Everything else stays opaque to the broker.
type deviceInfo struct {
	IsMobileRestrictedClass bool `json:"isMobileRestrictedClass"`
}

// ForceRelay reports whether both peers' device payloads carry the
// restricted-class flag. Empty or unparsable payloads count as
// unrestricted.
func ForceRelay(a, b json.RawMessage) bool {
	return restricted(a) && restricted(b)
}

func restricted(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}

	var info deviceInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return false
	}

	return info.IsMobileRestrictedClass
}
