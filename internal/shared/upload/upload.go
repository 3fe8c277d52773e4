package upload

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// DetectContentType sniffs the payload and strips any parameters from the
// result. The declared type is only trusted when the bytes are inconclusive.
func DetectContentType(data []byte, declared string) string {
	detected := mimetype.Detect(data).String()
	if i := strings.Index(detected, ";"); i >= 0 {
		detected = strings.TrimSpace(detected[:i])
	}
	if (detected == "" || detected == "application/octet-stream") && declared != "" {
		return declared
	}
	return detected
}

// SanitizeFileName strips any path component and replaces everything outside
// [a-zA-Z0-9._-] so the name is safe inside an object key.
func SanitizeFileName(name string) string {
	base := filepath.Base(name)
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "archivo"
	}
	return b.String()
}

// ObjectKey builds a collision-resistant storage key under prefix. Nanosecond
// timestamp plus a random suffix keeps same-name uploads apart.
func ObjectKey(prefix, fileName string) string {
	return fmt.Sprintf(
		"%s/%d-%03d_%s",
		strings.TrimSuffix(prefix, "/"),
		time.Now().UnixNano(),
		rand.Intn(1000),
		SanitizeFileName(fileName),
	)
}
