package gamemap

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// ErrMapResource marks a map that could not be loaded: a missing directory,
// a missing or empty file, or a map without a player spawn.
var ErrMapResource = errors.New("map resource error")

const mapExt = ".txt"

// Store reads named text maps from a directory inside fsys.
type Store struct {
	fsys fs.FS
	dir  string
}

// NewStore returns a Store over dir in fsys. The directory is checked on
// every read, not here, so a directory created later is picked up.
func NewStore(fsys fs.FS, dir string) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{fsys: fsys, dir: dir}
}

// Lines returns the rows of the named map. A missing ".txt" suffix is added.
func (s *Store) Lines(name string) ([]string, error) {
	if info, err := fs.Stat(s.fsys, s.dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: map directory %q not found", ErrMapResource, s.dir)
	}
	if !strings.HasSuffix(name, mapExt) {
		name += mapExt
	}
	data, err := fs.ReadFile(s.fsys, path.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: map %q: %w", ErrMapResource, name, err)
	}

	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: map %q: %w", ErrMapResource, name, err)
	}
	if len(normalizeLines(lines)) == 0 {
		return nil, fmt.Errorf("%w: map %q is empty", ErrMapResource, name)
	}
	return lines, nil
}

// Names lists the maps available in the store, without extension.
func (s *Store) Names() ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: map directory %q: %w", ErrMapResource, s.dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), mapExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), mapExt))
	}
	sort.Strings(names)
	return names, nil
}
