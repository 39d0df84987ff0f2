package schemes

import "strings"

// Backend names come in two shapes: the short device name ("fermions") or
// the full SDK name "<provider>_<device>_<simulator|hardware>". Anything
// else is invalid.

// ShortBackendName extracts the device part of a backend name. It returns
// "" when the name has neither one nor three underscore-separated parts.
func ShortBackendName(backendName string) string {
	parts := strings.Split(backendName, "_")
	switch len(parts) {
	case 1:
		return parts[0]
	case 3:
		return parts[1]
	default:
		return ""
	}
}

// ProviderPart extracts the storage provider name from a full backend
// name. Short names carry no provider, so only three-part names resolve.
func ProviderPart(backendName string) (string, bool) {
	parts := strings.Split(backendName, "_")
	if len(parts) != 3 {
		return "", false
	}
	return parts[0], true
}
