package widget

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	pkgerrors "github.com/pkg/errors"
)

// AssetPattern is the glob background images must match.
const AssetPattern = "*.png"

// ScanAssets lists the files directly inside dir whose names match the
// glob pattern, sorted by path. progress, if not nil, is called for every
// match with the number found so far. The scan stops early when ctx is
// cancelled.
func ScanAssets(ctx context.Context, dir, pattern string, progress func(path string, found int)) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, pkgerrors.Wrapf(err, "invalid asset pattern %q", pattern)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read asset directory %s", dir)
	}

	var files []string
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() {
			continue
		}
		// The pattern was validated above.
		if ok, _ := filepath.Match(pattern, e.Name()); !ok {
			continue
		}

		path := filepath.Join(dir, e.Name())
		files = append(files, path)
		if progress != nil {
			progress(path, len(files))
		}
	}

	sort.Strings(files)
	return files, nil
}

// MatchBackground returns the first file matching the regular expression
// expr, or "" if none does.
func MatchBackground(files []string, expr string) (string, error) {
	if expr == "" {
		return "", nil
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return "", pkgerrors.Wrapf(err, "invalid background image pattern %q", expr)
	}

	for _, f := range files {
		if re.MatchString(f) {
			return f, nil
		}
	}
	return "", nil
}
