package model

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"

	"github.com/patrickkwang/bmt-lite/errors"
)

//go:embed releases.toml
var releasesTOML []byte

// Release pins one published model version to a source URL, optionally
// with a checksum.
type Release struct {
	Version string `toml:"version"`
	URL     string `toml:"url"`
	SHA256  string `toml:"sha256"`
}

// Manifest is the bundled release list.
type Manifest struct {
	Default  string    `toml:"default"`
	Releases []Release `toml:"release"`
}

// Releases parses the bundled manifest.
func Releases() (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(releasesTOML, &m); err != nil {
		return nil, errors.Wrap(err, "parsing bundled release manifest")
	}
	if len(m.Releases) == 0 {
		return nil, errors.New("bundled release manifest lists no releases")
	}
	return &m, nil
}

// ReleasesAt parses the release manifest, preferring a releases.toml
// override in dir over the bundled copy. dir is normally the model
// cache directory, so a user can pin newer releases without a rebuild.
func ReleasesAt(dir string) (*Manifest, error) {
	if dir == "" {
		return Releases()
	}
	override := filepath.Join(dir, "releases.toml")
	data, err := os.ReadFile(override)
	if err != nil {
		return Releases()
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "parsing release manifest override %s", override)
	}
	if len(m.Releases) == 0 {
		return nil, errors.Newf("release manifest override %s lists no releases", override)
	}
	return &m, nil
}

// Resolve picks a release by request. An empty request resolves to the
// manifest default, "latest" to the highest semantic version, an exact
// version string to itself, and anything else is tried as a semver
// constraint matched against the highest satisfying release.
func (m *Manifest) Resolve(request string) (*Release, error) {
	if request == "" {
		request = m.Default
	}
	if request == "" {
		request = "latest"
	}

	if request == "latest" {
		latest, err := m.latest()
		if err != nil {
			return nil, err
		}
		return latest, nil
	}

	for i := range m.Releases {
		if m.Releases[i].Version == request {
			return &m.Releases[i], nil
		}
	}

	constraint, err := semver.NewConstraint(request)
	if err != nil {
		return nil, errors.Newf("unknown release %q and not a version constraint", request)
	}
	var best *Release
	var bestVer *semver.Version
	for i := range m.Releases {
		ver, err := semver.NewVersion(m.Releases[i].Version)
		if err != nil {
			continue
		}
		if !constraint.Check(ver) {
			continue
		}
		if bestVer == nil || ver.GreaterThan(bestVer) {
			best = &m.Releases[i]
			bestVer = ver
		}
	}
	if best == nil {
		return nil, errors.Newf("no release satisfies %q", request)
	}
	return best, nil
}

// Versions lists the manifest versions sorted ascending by semver, with
// unparsable versions last in their manifest order.
func (m *Manifest) Versions() []string {
	type entry struct {
		raw string
		ver *semver.Version
	}
	entries := make([]entry, 0, len(m.Releases))
	for _, r := range m.Releases {
		ver, err := semver.NewVersion(r.Version)
		if err != nil {
			ver = nil
		}
		entries = append(entries, entry{raw: r.Version, ver: ver})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].ver == nil || entries[j].ver == nil {
			return false
		}
		return entries[i].ver.LessThan(entries[j].ver)
	})
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.raw
	}
	return out
}

func (m *Manifest) latest() (*Release, error) {
	var best *Release
	var bestVer *semver.Version
	for i := range m.Releases {
		ver, err := semver.NewVersion(m.Releases[i].Version)
		if err != nil {
			continue
		}
		if bestVer == nil || ver.GreaterThan(bestVer) {
			best = &m.Releases[i]
			bestVer = ver
		}
	}
	if best == nil {
		return nil, errors.New("no release in the manifest has a parsable version")
	}
	return best, nil
}

// Verify checks data against the release checksum. Releases without a
// pinned checksum verify trivially.
func (r *Release) Verify(data []byte) error {
	if r.SHA256 == "" {
		return nil
	}
	sum := sha256.Sum256(data)
	if hex.EncodeToString(sum[:]) != r.SHA256 {
		return errors.Newf("checksum mismatch for release %s", r.Version)
	}
	return nil
}
