package packaging

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/refdata/internal/model"
)

// File names inside a library directory.
const (
	ManifestFile    = "library.json"
	MetaFile        = "meta.zip"
	DependenciesDir = "dependencies"
)

// Library is a library directory that was written by a build.
type Library struct {
	// Name is the versioned library name, e.g. openLCA-ref-units-2.0.0.
	Name string
	Dir  string

	// Zip is the packaged directory, empty until Package was called.
	Zip string

	// Entities counts the entities written to meta.zip.
	Entities int
}

type manifest struct {
	Name         string   `json:"name"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// initLibrary creates the directory root/name, copies the dependency
// directories into it and writes the manifest.
func initLibrary(root, name string, deps []*Library) (*Library, error) {
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create library %s: %w", name, err)
	}

	m := manifest{Name: name}
	for _, dep := range deps {
		if err := copyDir(dep.Dir, filepath.Join(dir, DependenciesDir, dep.Name)); err != nil {
			return nil, fmt.Errorf("copy dependency %s into %s: %w", dep.Name, name, err)
		}
		m.Dependencies = append(m.Dependencies, dep.Name)
	}

	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), b, 0o644); err != nil {
		return nil, fmt.Errorf("write manifest of %s: %w", name, err)
	}
	return &Library{Name: name, Dir: dir}, nil
}

// Write stores the given entity lists in meta.zip. Entities are written in
// order and deduplicated by id.
func (l *Library) Write(lists ...[]model.Entity) error {
	f, err := os.Create(filepath.Join(l.Dir, MetaFile))
	if err != nil {
		return fmt.Errorf("create %s: %w", MetaFile, err)
	}
	defer f.Close()

	sw, err := NewSchemaWriter(f)
	if err != nil {
		return err
	}
	for _, list := range lists {
		n, err := sw.WriteAll(list)
		l.Entities += n
		if err != nil {
			return fmt.Errorf("write %s of %s: %w", MetaFile, l.Name, err)
		}
	}
	if err := sw.Close(); err != nil {
		return fmt.Errorf("close %s: %w", MetaFile, err)
	}
	return f.Close()
}

// Package zips the library directory to <root>/<name>_lib.zip, next to the
// directory.
func (l *Library) Package() error {
	target := filepath.Join(filepath.Dir(l.Dir), l.Name+"_lib.zip")
	if err := zipDir(l.Dir, target); err != nil {
		return fmt.Errorf("package %s: %w", l.Name, err)
	}
	l.Zip = target
	return nil
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// zipDir writes every file below dir into a new archive at target, with
// slash-separated paths relative to dir.
func zipDir(dir, target string) error {
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: filepath.ToSlash(rel), Method: zip.Deflate})
		if err != nil {
			return err
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		_, err = io.Copy(w, in)
		return err
	})
	if err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return out.Close()
}
