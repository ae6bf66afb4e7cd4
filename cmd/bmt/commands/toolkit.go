package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/patrickkwang/bmt-lite/config"
	"github.com/patrickkwang/bmt-lite/errors"
	"github.com/patrickkwang/bmt-lite/model"
	"github.com/patrickkwang/bmt-lite/taxonomy"
)

// loadedModel is a built index plus where it came from.
type loadedModel struct {
	Toolkit     *taxonomy.Toolkit
	Fingerprint string
	Source      string // human-readable origin for banners
	Path        string // local file path when loaded from disk, "" for remote
}

// loadToolkit builds the index from the first available source:
// the --model flag, model.path from config, model.url, then the cached
// copy of the pinned release.
func loadToolkit(cmd *cobra.Command) (*loadedModel, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return loadToolkitWithConfig(cmd, cfg)
}

func loadToolkitWithConfig(cmd *cobra.Command, cfg *config.Config) (*loadedModel, error) {
	if override, _ := cmd.Flags().GetString("model"); override != "" {
		return loadFromFile(override)
	}

	if path := cfg.GetModelPath(); path != "" {
		return loadFromFile(path)
	}

	if cfg.Model.URL != "" {
		return loadFromURL(cmd.Context(), cfg, cfg.Model.URL)
	}

	manifest, err := model.ReleasesAt(cfg.GetCacheDir())
	if err != nil {
		return nil, err
	}
	release, err := manifest.Resolve(cfg.Model.Release)
	if err != nil {
		return nil, err
	}

	cached := model.CachePath(cfg.GetCacheDir(), release.Version)
	if _, err := os.Stat(cached); err != nil {
		return nil, errors.Newf(
			"no model available: run \"bmt model fetch\" to download release %s, or set model.path in config",
			release.Version)
	}
	return loadFromFile(cached)
}

func loadFromFile(path string) (*loadedModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading model file %s", path)
	}
	tk, err := buildToolkit(data)
	if err != nil {
		return nil, err
	}
	return &loadedModel{
		Toolkit:     tk,
		Fingerprint: model.Fingerprint(data),
		Source:      path,
		Path:        path,
	}, nil
}

func loadFromURL(ctx context.Context, cfg *config.Config, url string) (*loadedModel, error) {
	fetcher := model.NewFetcher(model.FetcherOptions{
		Timeout:           cfg.GetFetchTimeout(),
		MaxBytes:          cfg.GetMaxFetchBytes(),
		RequestsPerMinute: cfg.GetRequestsPerMinute(),
	})
	data, err := fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	tk, err := buildToolkit(data)
	if err != nil {
		return nil, err
	}
	return &loadedModel{
		Toolkit:     tk,
		Fingerprint: model.Fingerprint(data),
		Source:      url,
	}, nil
}

func buildToolkit(data []byte) (*taxonomy.Toolkit, error) {
	doc, err := model.Parse(data)
	if err != nil {
		return nil, err
	}
	return taxonomy.New(doc)
}

// jsonOutput reports whether the global --json flag is set
func jsonOutput(cmd *cobra.Command) bool {
	out, _ := cmd.Flags().GetBool("json")
	return out
}

// printJSON renders v as indented JSON on stdout
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding JSON output")
	}
	fmt.Println(string(data))
	return nil
}

// printNames prints one name per line, for shell pipelines
func printNames(names []string) {
	for _, name := range names {
		fmt.Println(name)
	}
}

// shortFingerprint truncates a fingerprint for banners
func shortFingerprint(fingerprint string) string {
	if len(fingerprint) > 12 {
		return fingerprint[:12]
	}
	return fingerprint
}
