package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

// ChecksumManifest pins the config file contents with a BLAKE3 hash. The
// manifest lives next to the config file with a ".lock" suffix.
type ChecksumManifest struct {
	Version     int    `yaml:"version"`
	GeneratedAt string `yaml:"generated_at"`
	Hash        string `yaml:"hash"`
}

// LockPath returns the manifest path for a config file.
func LockPath(configPath string) string {
	return configPath + ".lock"
}

// ComputeBlake3Hash computes the BLAKE3 hash of a file.
func ComputeBlake3Hash(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

// Lock writes the checksum manifest for the config file.
func Lock(configPath string) (*ChecksumManifest, error) {
	hash, err := ComputeBlake3Hash(configPath)
	if err != nil {
		return nil, err
	}

	manifest := &ChecksumManifest{
		Version:     1,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Hash:        hash,
	}

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}

	// Restrictive permissions: the manifest is the tamper baseline.
	if err := os.WriteFile(LockPath(configPath), data, 0600); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	return manifest, nil
}

// Verify checks the config file against its checksum manifest. A missing
// manifest is not an error; ok reports whether a manifest was found.
func Verify(configPath string) (ok bool, err error) {
	data, err := os.ReadFile(LockPath(configPath))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest ChecksumManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return false, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if manifest.Version != 1 {
		return false, fmt.Errorf("unsupported manifest version: %d", manifest.Version)
	}

	actual, err := ComputeBlake3Hash(configPath)
	if err != nil {
		return false, err
	}
	if actual != manifest.Hash {
		return false, fmt.Errorf("hash mismatch for %s (expected %s, got %s); if you edited the file intentionally, run 'rfd-discussd config lock'",
			configPath, manifest.Hash, actual)
	}
	return true, nil
}
