// internal/app/system/limits/limits.go
package limits

// Request body size limits for various features.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxImportSize is the maximum size for an uploaded export document.
	MaxImportSize = 8 << 20 // 8 MB

	// MaxWordsCSVSize is the maximum size for a vocabulary CSV upload.
	MaxWordsCSVSize = 2 << 20 // 2 MB

	// MaxFormSize is the maximum size for ordinary form submissions such
	// as test answers.
	MaxFormSize = 1 << 20 // 1 MB
)
