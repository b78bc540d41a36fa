package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DeclExt is the extension of declaration files picked up from directories.
const DeclExt = ".toml"

// ListFiles expands paths into declaration files. Directories are walked for
// *.toml files; plain files are taken as given. The result is sorted and free
// of duplicates.
func ListFiles(paths []string) ([]string, error) {
	seen := make(map[string]struct{}, len(paths))
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			// missing files surface as load diagnostics
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, DeclExt) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

// snapshotName derives a stable file name for the listing of path. The hash
// keeps equally named files from different directories apart.
func snapshotName(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	sum := sha256.Sum256([]byte(abs))
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return base + "-" + hex.EncodeToString(sum[:6]) + ".mp"
}
