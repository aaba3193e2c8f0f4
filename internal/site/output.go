package site

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"git.home.luguber.info/inful/docsite/internal/content"
	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/manifest"
)

// DataDir holds the props JSON of every page below the output directory.
const DataDir = "_data"

// AssetsDir holds the stylesheets and scripts below the output directory.
const AssetsDir = "assets"

// pagePath is <category>/<slug>/index.html, slash separated.
func pagePath(category string, slug content.Slug) string {
	return path.Join(slug.Path(category), "index.html")
}

// dataPath is _data/<category>/<slug>.json. The root page is
// _data/<category>.json, outside the directory every other slug lands in.
func dataPath(category string, slug content.Slug) string {
	if slug.IsRoot() {
		return path.Join(DataDir, category+".json")
	}
	return path.Join(DataDir, slug.Path(category)+".json")
}

func writeFile(outDir, rel string, data []byte) error {
	p := filepath.Join(outDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create output directory").
			WithContext("path", filepath.Dir(p)).
			Build()
	}
	if err := os.WriteFile(p, data, 0o644); err != nil { // #nosec G306 -- static site files are world readable
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write output file").
			WithContext("path", p).
			Build()
	}
	return nil
}

// cleanOutput empties outDir. Paths that would wipe the working directory
// or the filesystem root are refused.
func cleanOutput(outDir string) error {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve output directory").Build()
	}
	wd, _ := os.Getwd()
	if abs == filepath.Dir(abs) || abs == wd {
		return ferrors.ConfigError("refusing to clean output directory").
			WithContext("path", abs).
			Build()
	}
	if err := os.RemoveAll(abs); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "clean output directory").
			WithContext("path", abs).
			Build()
	}
	return nil
}

// copyAssets writes every file of assets below outDir/assets.
func copyAssets(outDir string, assets fs.FS) error {
	return fs.WalkDir(assets, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(assets, p)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryInternal, "read embedded asset").
				WithContext("path", p).
				Build()
		}
		return writeFile(outDir, path.Join(AssetsDir, p), data)
	})
}

// readManifest loads the manifest of the previous build, or nil when there is none.
func readManifest(outDir string) (*manifest.Manifest, error) {
	data, err := os.ReadFile(filepath.Join(outDir, manifest.FileName)) // #nosec G304 -- output dir is operator configured
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return manifest.FromJSON(data)
}
