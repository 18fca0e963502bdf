package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/xxxserxxx/gotach"
)

const LOGFILE = "errors.log"

// New sends the standard logger, and stderr where the platform allows it, to
// a size-capped log file in the cache folder.
func New(c gotach.Config) (io.WriteCloser, error) {
	// create the log directory
	cache := c.ConfigDir.QueryCacheFolder()
	err := cache.MkdirAll()
	if err != nil && !os.IsExist(err) {
		return nil, err
	}
	w, err := newRotateWriter(filepath.Join(cache.Path, LOGFILE), c.MaxLogSize)
	if err != nil {
		return nil, err
	}
	// log time, filename, and line number
	log.SetFlags(log.Ltime | log.Lshortfile)
	// log to file
	log.SetOutput(w)
	w.dupStderr = true
	stderrToLogfile(w.fp)
	return w, nil
}

// RotateWriter moves the log aside to LOGFILE.1 once it grows past
// maxLogSize.
type RotateWriter struct {
	lock       sync.Mutex
	filename   string
	fp         *os.File
	maxLogSize int64
	// redirect stderr into each new file
	dupStderr bool
}

func newRotateWriter(filename string, maxLogSize int64) (*RotateWriter, error) {
	w := &RotateWriter{filename: filename, maxLogSize: maxLogSize}
	fp, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	w.fp = fp
	return w, nil
}

func (w *RotateWriter) Write(output []byte) (int, error) {
	w.lock.Lock()
	defer w.lock.Unlock()
	if w.maxLogSize > 0 {
		if fi, err := w.fp.Stat(); err == nil && fi.Size()+int64(len(output)) > w.maxLogSize {
			if err := w.rotate(); err != nil {
				return 0, err
			}
		}
	}
	return w.fp.Write(output)
}

func (w *RotateWriter) Close() error {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.fp.Close()
}

func (w *RotateWriter) rotate() error {
	if err := w.fp.Close(); err != nil {
		return err
	}
	if err := os.Rename(w.filename, w.filename+".1"); err != nil && !os.IsNotExist(err) {
		return err
	}
	fp, err := os.OpenFile(w.filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	w.fp = fp
	if w.dupStderr {
		stderrToLogfile(w.fp)
	}
	return nil
}
