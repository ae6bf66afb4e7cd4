package model

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter"

	"github.com/patrickkwang/bmt-lite/errors"
	"github.com/patrickkwang/bmt-lite/logger"
)

// ResolveSource classifies an input as a local file path or a remote
// source. Detection follows go-getter, so plain URLs, git refs, and
// GitHub shorthand all classify as remote. Local paths come back
// absolute with tildes expanded.
func ResolveSource(input string) (local string, remote bool, err error) {
	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}

	detected, err := getter.Detect(input, pwd, getter.Detectors)
	if err != nil {
		return "", false, errors.Wrapf(err, "detecting source type of %q", input)
	}

	parsed, err := url.Parse(detected)
	if err != nil {
		return "", false, errors.Wrapf(err, "parsing detected source %q", detected)
	}

	if parsed.Scheme != "" && parsed.Scheme != "file" {
		return "", true, nil
	}

	path := input
	if parsed.Scheme == "file" {
		path = parsed.Path
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false, errors.Wrap(err, "expanding home directory")
		}
		path = filepath.Join(home, path[2:])
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(pwd, path)
	}
	return path, false, nil
}

// Materialize fetches a remote source to the dst file using go-getter,
// so the model cache can be primed from git refs and archives as well as
// plain HTTP URLs. The destination directory is created as needed.
func Materialize(ctx context.Context, src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrapf(err, "creating cache directory for %s", dst)
	}

	logger.Infow("Materializing model",
		"source", src,
		"destination", dst)

	client := &getter.Client{
		Ctx:     ctx,
		Src:     src,
		Dst:     dst,
		Mode:    getter.ClientModeFile,
		Getters: getter.Getters,
	}
	if err := client.Get(); err != nil {
		return errors.Wrapf(err, "fetching %s", src)
	}
	return nil
}

// CachePath returns the cache file location for a pinned release
// version.
func CachePath(cacheDir, version string) string {
	return filepath.Join(cacheDir, "biolink-model-"+version+".yaml")
}
