package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/patrickkwang/bmt-lite/config"
	"github.com/patrickkwang/bmt-lite/errors"
	"github.com/patrickkwang/bmt-lite/model"
	"github.com/patrickkwang/bmt-lite/sym"
)

// ModelCmd represents the model command
var ModelCmd = &cobra.Command{
	Use:   "model",
	Short: sym.Model + " Fetch, inspect, and pin schema documents",
	Long: sym.Model + ` model — Fetch, inspect, and pin schema documents

Query commands need a schema document. The model commands prime the
local cache from the bundled release manifest or from an arbitrary
source, and show what is currently loadable.

Examples:
  bmt model fetch                 # Download the pinned release
  bmt model fetch latest          # Download the newest release
  bmt model fetch ./my-model.yaml # Stage a local or remote source
  bmt model show                  # Describe the model queries would use
  bmt model releases              # List bundled releases`,
}

var modelFetchCmd = &cobra.Command{
	Use:   "fetch [release|source]",
	Short: "Download a model release or stage an arbitrary source",
	Long: `Download a model into the local cache.

With no argument the pinned release from config (model.release) is
fetched. A version, "latest", or a semver constraint selects from the
bundled manifest; anything else is treated as a file path, URL, or
go-getter source and staged into the cache as a custom model.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runModelFetch,
}

var modelShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Describe the model query commands would load",
	RunE:  runModelShow,
}

var modelReleasesCmd = &cobra.Command{
	Use:   "releases",
	Short: "List the bundled model releases",
	RunE:  runModelReleases,
}

func init() {
	ModelCmd.AddCommand(modelFetchCmd)
	ModelCmd.AddCommand(modelShowCmd)
	ModelCmd.AddCommand(modelReleasesCmd)
}

func runModelFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	request := cfg.Model.Release
	if len(args) == 1 {
		request = args[0]
	}

	manifest, err := model.ReleasesAt(cfg.GetCacheDir())
	if err != nil {
		return err
	}

	release, resolveErr := manifest.Resolve(request)
	if resolveErr != nil {
		// Not a manifest selector; try it as a file path, URL, or
		// go-getter source
		if len(args) == 1 {
			return fetchCustomSource(cmd, cfg, args[0])
		}
		return resolveErr
	}

	return fetchRelease(cmd, cfg, release)
}

// fetchRelease downloads a manifest release into the cache, verifying
// its checksum when the manifest pins one
func fetchRelease(cmd *cobra.Command, cfg *config.Config, release *model.Release) error {
	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Downloading model release %s", release.Version))

	fetcher := model.NewFetcher(model.FetcherOptions{
		Timeout:           cfg.GetFetchTimeout(),
		MaxBytes:          cfg.GetMaxFetchBytes(),
		RequestsPerMinute: cfg.GetRequestsPerMinute(),
	})
	data, err := fetcher.Fetch(cmd.Context(), release.URL)
	if err != nil {
		spinner.Fail("Download failed")
		return err
	}

	if err := release.Verify(data); err != nil {
		spinner.Fail("Checksum verification failed")
		return err
	}

	tk, err := buildToolkit(data)
	if err != nil {
		spinner.Fail("Downloaded model does not parse")
		return err
	}

	cached := model.CachePath(cfg.GetCacheDir(), release.Version)
	if err := os.MkdirAll(filepath.Dir(cached), config.DefaultDirPermissions); err != nil {
		spinner.Fail("Cache directory not writable")
		return errors.Wrapf(err, "creating cache directory %s", filepath.Dir(cached))
	}
	if err := os.WriteFile(cached, data, config.DefaultFilePermissions); err != nil {
		spinner.Fail("Cache write failed")
		return errors.Wrapf(err, "writing cached model %s", cached)
	}

	spinner.Success(fmt.Sprintf("Cached release %s (%d elements, fingerprint %s)",
		release.Version, tk.Len(), shortFingerprint(model.Fingerprint(data))))
	pterm.Printf("  %s\n", pterm.Gray(cached))
	return nil
}

// fetchCustomSource stages a non-manifest source (local path, URL, git
// ref) into the cache via go-getter
func fetchCustomSource(cmd *cobra.Command, cfg *config.Config, source string) error {
	local, remote, err := model.ResolveSource(source)
	if err != nil {
		return err
	}

	dst := filepath.Join(cfg.GetCacheDir(), "biolink-model-custom.yaml")
	if remote {
		spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Fetching %s", source))
		if err := model.Materialize(cmd.Context(), source, dst); err != nil {
			spinner.Fail("Fetch failed")
			return err
		}
		spinner.Stop()
	} else {
		data, err := os.ReadFile(local)
		if err != nil {
			return errors.Wrapf(err, "reading model file %s", local)
		}
		if err := os.MkdirAll(filepath.Dir(dst), config.DefaultDirPermissions); err != nil {
			return errors.Wrapf(err, "creating cache directory %s", filepath.Dir(dst))
		}
		if err := os.WriteFile(dst, data, config.DefaultFilePermissions); err != nil {
			return errors.Wrapf(err, "writing cached model %s", dst)
		}
	}

	// Validate the staged copy before advising its use
	lm, err := loadFromFile(dst)
	if err != nil {
		return err
	}

	pterm.Success.Printf("Staged custom model (%d elements, fingerprint %s)\n",
		lm.Toolkit.Len(), shortFingerprint(lm.Fingerprint))
	pterm.Printf("  %s\n", pterm.Gray(dst))
	pterm.Printf("  Set %s to use it for queries\n", pterm.LightCyan("model.path = \""+dst+"\""))
	return nil
}

func runModelShow(cmd *cobra.Command, args []string) error {
	lm, err := loadToolkit(cmd)
	if err != nil {
		return err
	}

	tk := lm.Toolkit
	roots := tk.Roots()

	if jsonOutput(cmd) {
		return printJSON(map[string]any{
			"source":      lm.Source,
			"fingerprint": lm.Fingerprint,
			"elements":    tk.Len(),
			"roots":       roots,
		})
	}

	fmt.Printf("%s Model\n", sym.Model)
	fmt.Printf("  %-12s %s\n", "source", lm.Source)
	fmt.Printf("  %-12s %s\n", "fingerprint", lm.Fingerprint)
	fmt.Printf("  %-12s %d\n", "elements", tk.Len())
	fmt.Printf("  %-12s %d\n", "roots", len(roots))
	for _, root := range roots {
		fmt.Printf("    %s %s\n", sym.Root, root)
	}
	return nil
}

func runModelReleases(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	manifest, err := model.ReleasesAt(cfg.GetCacheDir())
	if err != nil {
		return err
	}

	versions := manifest.Versions()

	if jsonOutput(cmd) {
		return printJSON(map[string]any{
			"default":  manifest.Default,
			"versions": versions,
		})
	}

	fmt.Printf("%s Model releases (default %s)\n", sym.Model, manifest.Default)
	for _, version := range versions {
		marker := " "
		if version == manifest.Default {
			marker = "*"
		}
		cached := ""
		if _, err := os.Stat(model.CachePath(cfg.GetCacheDir(), version)); err == nil {
			cached = pterm.Green(" [cached]")
		}
		fmt.Printf("  %s %s%s\n", marker, version, cached)
	}
	return nil
}
