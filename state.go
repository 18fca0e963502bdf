package gotach

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/xxxserxxx/gotach/gauge"
)

// RestoreNeedle loads the saved needle state into n. A missing state file is
// not an error.
func (conf *Config) RestoreNeedle(n *gauge.Needle) error {
	f, err := os.Open(conf.StatePath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()
	st, err := gauge.LoadState(f)
	if err != nil {
		return fmt.Errorf("%s: %w", conf.StatePath(), err)
	}
	n.Restore(st)
	return nil
}

// SaveNeedle writes the needle state to the cache folder.
func (conf *Config) SaveNeedle(n *gauge.Needle) error {
	path := conf.StatePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gauge.SaveState(f, n.State()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
