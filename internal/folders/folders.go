// Package folders creates directory trees under a workspace root from a
// nested spec. The spec accepts the loosely-typed JSON the UI sends: a
// bare string is a leaf folder, an object carries a name and children.
package folders

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Spec is one node of a folder tree: a leaf when Children is empty, an
// inner node otherwise.
type Spec struct {
	Name     string  `json:"name"`
	Children []*Spec `json:"children,omitempty"`
}

// UnmarshalJSON accepts either a bare string (leaf) or an object with
// name and children.
func (s *Spec) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		s.Name = name
		s.Children = nil
		return nil
	}

	type rawSpec Spec
	var raw rawSpec
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("folder spec must be a string or an object: %w", err)
	}

	*s = Spec(raw)
	return nil
}

// Validate checks a spec tree for empty or path-escaping names.
func (s *Spec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("folder name cannot be empty")
	}
	if s.Name != filepath.Base(filepath.Clean(s.Name)) || s.Name == "." || s.Name == ".." {
		return fmt.Errorf("invalid folder name: %q", s.Name)
	}
	for _, child := range s.Children {
		if err := child.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Create materializes the spec trees under root and returns the
// workspace-relative paths of every directory it ensured, in creation
// order. Existing directories are not errors, so re-running a spec is a
// no-op apart from the returned paths.
func Create(fsys afero.Fs, root string, specs []*Spec) ([]string, error) {
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
	}

	var created []string
	for _, spec := range specs {
		if err := create(fsys, root, root, spec, &created); err != nil {
			return created, err
		}
	}
	return created, nil
}

func create(fsys afero.Fs, root, dir string, spec *Spec, created *[]string) error {
	path := filepath.Join(dir, spec.Name)

	if err := fsys.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", spec.Name, err)
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return err
	}
	*created = append(*created, "/"+filepath.ToSlash(rel))

	for _, child := range spec.Children {
		if err := create(fsys, root, path, child, created); err != nil {
			return err
		}
	}
	return nil
}
