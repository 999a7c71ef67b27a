package conn

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ddeutils/flowext/pkg/flowerrors"
)

func init() {
	Register(newLocal, "local", "file")
}

// localAdapter checks files under a local directory endpoint.
type localAdapter struct {
	root string
}

func newLocal(c Conn) (Adapter, error) {
	if c.Endpoint == "" {
		return nil, flowerrors.New(flowerrors.ErrorTypeConfig,
			"local connection requires an endpoint directory").WithField("endpoint")
	}
	return &localAdapter{root: c.Endpoint}, nil
}

// Ping reports whether the endpoint directory exists.
func (a *localAdapter) Ping(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, flowerrors.Wrap(err, flowerrors.ErrorTypeConnection, "ping canceled")
	}
	info, err := os.Stat(a.root)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, flowerrors.Wrap(err, flowerrors.ErrorTypeConnection,
			"cannot stat endpoint "+a.root)
	}
	return info.IsDir(), nil
}

// Exists reports whether the object exists under the endpoint directory.
func (a *localAdapter) Exists(ctx context.Context, object string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, flowerrors.Wrap(err, flowerrors.ErrorTypeConnection, "exists canceled")
	}
	_, err := os.Stat(filepath.Join(a.root, object))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, flowerrors.Wrap(err, flowerrors.ErrorTypeConnection,
			"cannot stat object "+object)
	}
	return true, nil
}

// Glob returns objects under the endpoint matching pattern, relative to the
// endpoint directory.
func (a *localAdapter) Glob(ctx context.Context, pattern string) ([]string, error) {
	var matches []string
	err := filepath.WalkDir(a.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(a.root, path)
		if err != nil {
			return err
		}
		ok, err := filepath.Match(pattern, filepath.Base(rel))
		if err != nil {
			return err
		}
		if ok {
			matches = append(matches, rel)
		}
		return nil
	})
	if err != nil {
		return nil, flowerrors.Wrap(err, flowerrors.ErrorTypeFile,
			"glob failed under "+a.root)
	}
	return matches, nil
}
