package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// SalaryFilePattern matches the exports the optimizer consumes.
const SalaryFilePattern = "DKSalaries*.csv"

// SearchDirs returns the default salary-file search locations: the working
// directory first, then the user's Downloads folder.
func SearchDirs() []string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, "Downloads"))
	}
	return dirs
}

// FindSalaryFile returns the most recently modified file matching
// SalaryFilePattern across the given directories (SearchDirs when none are
// given).
func FindSalaryFile(dirs ...string) (string, error) {
	if len(dirs) == 0 {
		dirs = SearchDirs()
	}

	type match struct {
		path    string
		modTime int64
	}
	var matches []match
	for _, dir := range dirs {
		paths, err := filepath.Glob(filepath.Join(dir, SalaryFilePattern))
		if err != nil {
			continue
		}
		for _, p := range paths {
			info, err := os.Stat(p)
			if err != nil {
				continue
			}
			matches = append(matches, match{path: p, modTime: info.ModTime().UnixNano()})
		}
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no %s file found in %v", SalaryFilePattern, dirs)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].modTime > matches[j].modTime })
	return matches[0].path, nil
}

// CopySalaryFile mirrors the newest matching salary file into dstDir and
// returns the copied path.
func CopySalaryFile(dstDir string, dirs ...string) (string, error) {
	src, err := FindSalaryFile(dirs...)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(dstDir, filepath.Base(src))

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return "", fmt.Errorf("copying %s: %w", src, err)
	}
	return dst, nil
}
