// internal/app/system/limits/limits.go
package limits

// Request body size limits.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBody is the maximum size of a JSON request body. Leg edits
	// carry a few ids or a name.
	MaxJSONBody = 64 << 10 // 64 KB
)
