package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultOutputDir is where timestamped outputs land when no directory is
// configured.
const DefaultOutputDir = "Outputs"

// OutputPath places base under dir with a timestamp suffix, creating the
// directory if needed. A base that already carries a timestamp is left alone.
func OutputPath(dir, base string) (string, error) {
	if dir == "" {
		dir = DefaultOutputDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir %s: %w", dir, err)
	}

	stamp := time.Now().Format("20060102_150405")
	if strings.Contains(base, stamp) {
		return filepath.Join(dir, base), nil
	}
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, fmt.Sprintf("%s_%s%s", name, stamp, ext)), nil
}
