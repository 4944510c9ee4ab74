package game

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadIdentities reads a card identity pool from a list of paths (files or
// directories). Each non-empty line is one identity; lines starting with '#'
// are comments. Duplicates are dropped, keeping the first occurrence.
func LoadIdentities(paths []string) ([]string, error) {
	var identities []string
	seen := map[string]bool{}

	add := func(ids []string) {
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				identities = append(identities, id)
			}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to access path %s: %w", path, err)
		}

		if info.IsDir() {
			// Read directory
			files, err := os.ReadDir(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read dir %s: %w", path, err)
			}
			for _, entry := range files {
				if !entry.IsDir() {
					ids, err := loadFile(filepath.Join(path, entry.Name()))
					if err != nil {
						return nil, err
					}
					add(ids)
				}
			}
		} else {
			// Read file
			ids, err := loadFile(path)
			if err != nil {
				return nil, err
			}
			add(ids)
		}
	}

	return identities, nil
}

func loadFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	var ids []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan file %s: %w", path, err)
	}

	return ids, nil
}
