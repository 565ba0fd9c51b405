package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
)

// ErrNoInputFiles indicates the input pattern matched nothing. This is an
// operator mistake, surfaced immediately with no retry.
var ErrNoInputFiles = errors.New("no input files")

// Glob expands a glob-style pattern into the sorted set of shard paths.
func Glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("expand pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: pattern %q matched nothing", ErrNoInputFiles, pattern)
	}
	sort.Strings(matches)
	return matches, nil
}
