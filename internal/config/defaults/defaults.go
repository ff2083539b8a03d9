// Package defaults carries the stock runtime configuration: the persona
// skill set, the selection matrix, and the starter profiles. `disco init`
// copies them into the runtime directory where users can edit them.
package defaults

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed skills/*.yaml profiles/*.yaml skill_matrix.yaml
var files embed.FS

// Install writes the embedded configuration tree under dir. Existing files
// are left untouched so local edits survive re-running init.
func Install(dir string) ([]string, error) {
	var written []string

	err := fs.WalkDir(files, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		dst := filepath.Join(dir, path)
		if _, err := os.Stat(dst); err == nil {
			return nil
		}

		data, err := files.ReadFile(path)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dst, err)
		}
		written = append(written, dst)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return written, nil
}
