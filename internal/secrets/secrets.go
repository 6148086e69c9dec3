// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key
// name and the file contents (trimmed) are the value.
//
// Supported key files: govinfo-api-key.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// GovInfoAPIKey is the file holding the api.data.gov key used for GovInfo.
const GovInfoAPIKey = "govinfo-api-key"

// Set is the loaded secrets, keyed by filename.
type Set map[string]string

// Load reads all files in dir and returns them as a Set. A missing
// directory is not an error; Load returns an empty Set. Unreadable files
// are reported on warn and skipped. A nil warn discards the warnings.
func Load(dir string, warn io.Writer) (Set, error) {
	if warn == nil {
		warn = io.Discard
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	set := Set{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(warn, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			set[name] = value
		}
	}
	return set, nil
}

// Names returns the loaded secret names, sorted. Values are never listed.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Default returns value when it is non-empty, otherwise the secret stored
// under key.
func (s Set) Default(key, value string) string {
	if value != "" {
		return value
	}
	return s[key]
}
