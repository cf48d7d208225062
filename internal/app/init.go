package app

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/xo/internal/core/domain"
	"go.trai.ch/zerr"
)

//go:embed all:skeleton
var skeleton embed.FS

const skeletonRoot = "skeleton"

// Init writes a sample site into dir, creating dir if needed. It refuses to touch a
// directory that already holds any of the sample files.
func (a *App) Init(dir string) ([]string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve project directory")
	}

	var files []string
	err = fs.WalkDir(skeleton, skeletonRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, _ := filepath.Rel(skeletonRoot, filepath.FromSlash(path))
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read project skeleton")
	}

	for _, rel := range files {
		target := filepath.Join(dir, rel)
		if _, err := os.Stat(target); err == nil {
			return nil, zerr.With(domain.ErrProjectExists, "path", target)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(err, "failed to inspect project directory"), "path", target)
		}
	}

	for _, rel := range files {
		data, err := skeleton.ReadFile(skeletonRoot + "/" + filepath.ToSlash(rel))
		if err != nil {
			return nil, zerr.Wrap(err, "failed to read project skeleton")
		}
		target := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to create directory"), "path", filepath.Dir(target))
		}
		if err := os.WriteFile(target, data, domain.FilePerm); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to write file"), "path", target)
		}
		a.logger.Debug(fmt.Sprintf("created %s", target))
	}

	a.logger.Info(fmt.Sprintf("created sample site in %s", dir))
	return files, nil
}
