// Package model loads schema documents from disk, remote URLs, and the
// bundled release manifest, and fingerprints them for change detection.
// Parsing stops at the document shape; structural validation happens when
// the taxonomy index is built.
package model

import (
	"crypto/sha256"
	"os"

	"github.com/mr-tron/base58"
	"gopkg.in/yaml.v3"

	"github.com/patrickkwang/bmt-lite/errors"
	"github.com/patrickkwang/bmt-lite/taxonomy"
)

// RemoteURL is the published location of the current model.
const RemoteURL = "https://biolink.github.io/biolink-model/biolink-model.yaml"

// Parse decodes schema YAML into a document. The YAML root must be a
// mapping; anything else is a schema-format error.
func Parse(data []byte) (taxonomy.Document, error) {
	// Decode into the unnamed map type: yaml.v3 reuses a named target type
	// for nested mappings, and the document contract is plain map[string]any
	// values all the way down.
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapSchemaFormat(err, "decoding schema YAML")
	}
	return taxonomy.Document(doc), nil
}

// LoadFile reads and parses a schema file.
func LoadFile(path string) (taxonomy.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading schema file %s", path)
	}
	return Parse(data)
}

// Fingerprint returns a stable content digest of raw schema bytes,
// base58-encoded SHA-256. Equal bytes always fingerprint equal, so the
// digest doubles as a change detector for watch and reload.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return base58.Encode(sum[:])
}

// ShortFingerprint returns a display-sized prefix of Fingerprint.
func ShortFingerprint(data []byte) string {
	fp := Fingerprint(data)
	if len(fp) > 12 {
		fp = fp[:12]
	}
	return fp
}
