package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultPathManager implements output path construction.
type DefaultPathManager struct {
	BaseDir string
}

// NewDefaultPathManager creates a path manager rooted at baseDir, defaulting
// to "results".
func NewDefaultPathManager(baseDir string) *DefaultPathManager {
	if baseDir == "" {
		baseDir = "results"
	}
	return &DefaultPathManager{BaseDir: baseDir}
}

// DefaultOutputDir returns results/<symbol>/<variant>_<date> for a run.
func (p *DefaultPathManager) DefaultOutputDir(symbol, variant string) string {
	stamp := time.Now().Format("20060102")
	return filepath.Join(p.BaseDir, symbol, fmt.Sprintf("%s_%s", variant, stamp))
}

// EnsureDirectoryExists creates the directory if needed.
func (p *DefaultPathManager) EnsureDirectoryExists(path string) error {
	return os.MkdirAll(path, 0o755)
}
