// File: pkg/combine/traversal.go
package combine

import (
	"io/fs"
	"path/filepath"

	"go.uber.org/zap"
)

// Walk calls visit for every non-directory entry below root, in the lexical
// order of filepath.WalkDir. Directories are always descended into; filtering
// is left to visit. Entries that cannot be accessed are logged and skipped.
// An error returned by visit stops the walk and is returned.
func Walk(root string, logger *zap.Logger, visit func(path string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Error accessing path during traversal", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.IsDir() {
			return nil
		}
		return visit(path)
	})
}
