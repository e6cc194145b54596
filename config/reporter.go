package config

import (
	"archive/zip"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/multierr"

	"atomcss/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates empty report. When destination cannot be created report
// goes to temporary directory.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{entries: make(map[string]entry), file: f}, nil
}

// entry is either a file read when report is closed (path) or data captured
// when it was stored.
type entry struct {
	path  string
	data  []byte
	stamp time.Time
}

// Report collects recipes, engine dumps, logs and outputs into single
// archive for troubleshooting. All methods are no-op on nil report, so
// callers never check if report was requested. Not safe for concurrent use.
type Report struct {
	entries map[string]entry
	file    *os.File
}

// Close writes the archive.
func (r *Report) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	err := r.finalize()
	return multierr.Append(err, r.file.Close())
}

// Name returns report location.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// Store remembers file to be archived with content it has when report is
// closed. Storing the same file under the same name again is allowed.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	if p, err := filepath.Abs(path); err == nil {
		path = p
	}
	if old, exists := r.entries[name]; exists {
		if old.data == nil && old.path == path {
			return
		}
		panic(fmt.Sprintf("report entry [%s] already stored, was %q, now %q", name, old.path, path))
	}
	r.entries[name] = entry{path: path}
}

// StoreData archives data under name. Names must be unique.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	if _, exists := r.entries[name]; exists {
		panic(fmt.Sprintf("report entry [%s] already stored", name))
	}
	if data == nil {
		data = []byte{}
	}
	r.entries[name] = entry{data: data, stamp: time.Now()}
}

// StoreCopy archives file content as of now. When name is taken it gets
// timestamp suffix, so the same file could be kept before and after it
// changes.
func (r *Report) StoreCopy(name, path string) error {
	if r == nil {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("unable to store copy of %s: not a regular file", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	now := time.Now()
	if _, exists := r.entries[name]; exists {
		name = fmt.Sprintf("%s-%d", name, now.UnixNano())
	}
	if p, err := filepath.Abs(path); err == nil {
		path = p
	}
	r.entries[name] = entry{path: path, data: data, stamp: now}
	return nil
}

// finalize writes MANIFEST listing every entry, followed by entries in name
// order. Files which are absent by now are listed but skipped.
func (r *Report) finalize() (err error) {
	arc := zip.NewWriter(r.file)
	defer func() {
		err = multierr.Append(err, arc.Close())
	}()

	now := time.Now()
	names := slices.Sorted(maps.Keys(r.entries))

	var manifest strings.Builder
	for _, name := range names {
		e := r.entries[name]
		stamp := e.stamp
		if stamp.IsZero() {
			stamp = now
		}
		fmt.Fprintf(&manifest, "%s\t%s\t%s\n", stamp.UTC().Format(time.UnixDate), name, e.path)
	}
	if err := saveFile(arc, "MANIFEST", now, []byte(manifest.String())); err != nil {
		return err
	}

	for _, name := range names {
		e := r.entries[name]
		data, stamp := e.data, e.stamp
		if data == nil {
			info, serr := os.Stat(e.path)
			if errors.Is(serr, fs.ErrNotExist) {
				continue
			}
			if serr != nil {
				return serr
			}
			if !info.Mode().IsRegular() {
				continue
			}
			if data, err = os.ReadFile(e.path); err != nil {
				return err
			}
			stamp = info.ModTime()
		}
		if err := saveFile(arc, name, stamp, data); err != nil {
			return err
		}
	}
	return nil
}

func saveFile(arc *zip.Writer, name string, stamp time.Time, data []byte) error {
	w, err := arc.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: stamp})
	if err != nil {
		return fmt.Errorf("unable to add %s to report: %w", name, err)
	}
	_, err = w.Write(data)
	return err
}
