package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
)

//go:embed default.yml
var defaultYAML []byte

// DefaultYAML is the commented template written by EnsureUserConfig.
func DefaultYAML() []byte { return append([]byte(nil), defaultYAML...) }

// EnsureUserConfig writes the default template to path unless a file is
// already there. With force an existing file is kept as path.bak.
func EnsureUserConfig(path string, force bool) (created bool, err error) {
	_, err = os.Stat(path)
	if err == nil && !force {
		return false, nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, err
	}

	if err := writeAtomic(path, defaultYAML); err != nil {
		return false, err
	}
	return true, nil
}

func writeAtomic(path string, b []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}
