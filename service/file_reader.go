// Package service implements the collaborator side of the engine
// boundary: file discovery and loading, output formatting, report
// writing and progress reporting.
package service

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dupscan/dupscan/domain"
)

// FileReaderImpl implements the domain.FileReader interface.
type FileReaderImpl struct{}

// NewFileReader creates a new file reader service.
func NewFileReader() *FileReaderImpl {
	return &FileReaderImpl{}
}

// CollectSourceFiles finds all supported source files in the given
// paths, filtered by include/exclude glob patterns. The result is
// sorted and deduplicated.
func (f *FileReaderImpl) CollectSourceFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, domain.NewFileNotFoundError(path, err)
		}

		if info.IsDir() {
			dirFiles, err := f.collectFromDirectory(path, recursive, includePatterns, excludePatterns)
			if err != nil {
				return nil, err
			}
			for _, file := range dirFiles {
				if !seen[file] {
					seen[file] = true
					files = append(files, file)
				}
			}
			continue
		}

		if f.isSupportedFile(path) && f.shouldIncludeFile(path, includePatterns, excludePatterns) && !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	sort.Strings(files)
	return files, nil
}

// ReadFile reads the content of a file.
func (f *FileReaderImpl) ReadFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	return content, nil
}

// FileExists checks if a file exists.
func (f *FileReaderImpl) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

func (f *FileReaderImpl) collectFromDirectory(dirPath string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	walkFunc := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal.
			return nil
		}
		if info.IsDir() {
			if !recursive && path != dirPath {
				return filepath.SkipDir
			}
			if isHiddenDir(info.Name()) && path != dirPath {
				return filepath.SkipDir
			}
			return nil
		}
		if f.isSupportedFile(path) && f.shouldIncludeFile(path, includePatterns, excludePatterns) {
			files = append(files, path)
		}
		return nil
	}

	if err := filepath.Walk(dirPath, walkFunc); err != nil {
		return nil, domain.NewInvalidInputError("failed to walk directory "+dirPath, err)
	}
	return files, nil
}

func (f *FileReaderImpl) isSupportedFile(path string) bool {
	_, ok := domain.LanguageForPath(path)
	return ok
}

// shouldIncludeFile applies include and exclude glob patterns against
// both the full path and the base name.
func (f *FileReaderImpl) shouldIncludeFile(path string, includePatterns, excludePatterns []string) bool {
	slashPath := filepath.ToSlash(path)
	base := filepath.Base(path)

	for _, pattern := range excludePatterns {
		if matchPattern(pattern, slashPath, base) {
			return false
		}
	}

	if len(includePatterns) == 0 {
		return true
	}
	for _, pattern := range includePatterns {
		if matchPattern(pattern, slashPath, base) {
			return true
		}
	}
	return false
}

func matchPattern(pattern, slashPath, base string) bool {
	if ok, err := doublestar.Match(pattern, slashPath); err == nil && ok {
		return true
	}
	if ok, err := doublestar.Match(pattern, base); err == nil && ok {
		return true
	}
	return false
}

func isHiddenDir(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
