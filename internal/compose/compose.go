// Package compose writes generated files and merges changes into existing ones.
//
// Merges are idempotent: MergeJSON and MergeText are no-ops when the target is
// missing, and MergeText refuses to inject twice when its marker is present.
package compose

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/conn-castle/expofast/internal/messages"
)

const filePerm = 0o644

var prettyOptions = &pretty.Options{Width: 80, Prefix: "", Indent: "  ", SortKeys: false}

// Composer creates and merges files through a System.
type Composer struct {
	sys System
	log logrus.FieldLogger
}

// New returns a Composer. A nil logger discards diagnostics.
func New(sys System, log logrus.FieldLogger) *Composer {
	if sys == nil {
		sys = RealSystem{}
	}
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Composer{sys: sys, log: log}
}

// Exists reports whether path exists.
func (c *Composer) Exists(path string) bool {
	_, err := c.sys.Stat(path)
	return err == nil
}

// EnsureDir creates path and any missing parents.
func (c *Composer) EnsureDir(path string) error {
	if err := c.sys.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf(messages.ComposeFailedCreateDirFmt, path, err)
	}
	return nil
}

// WriteNew creates or overwrites path with content.
// The parent directory must already exist.
func (c *Composer) WriteNew(path string, content []byte) error {
	if err := c.sys.WriteFileAtomic(path, content, filePerm); err != nil {
		return fmt.Errorf(messages.ComposeFailedWriteFmt, path, err)
	}
	c.log.WithField("path", path).Debug(messages.ComposeWroteLog)
	return nil
}

// Remove deletes path and reports whether it existed.
func (c *Composer) Remove(path string) (bool, error) {
	err := c.sys.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf(messages.ComposeFailedRemoveFmt, path, err)
	}
	c.log.WithField("path", path).Debug(messages.ComposeRemovedLog)
	return true, nil
}

// MergeJSON applies mutate to the JSON document at path and writes it back.
// It returns false without touching the filesystem when path does not exist,
// and false without rewriting when mutate leaves the document unchanged.
func (c *Composer) MergeJSON(path string, mutate func(*Document) error) (bool, error) {
	original, found, err := c.read(path)
	if err != nil || !found {
		return false, err
	}
	if !gjson.ValidBytes(original) {
		return false, fmt.Errorf(messages.ComposeInvalidJSONFmt, path)
	}

	doc := &Document{raw: original}
	if err := mutate(doc); err != nil {
		return false, fmt.Errorf(messages.ComposeMutateFailedFmt, path, err)
	}
	if bytes.Equal(doc.raw, original) {
		c.log.WithField("path", path).Debug(messages.ComposeUnchangedLog)
		return false, nil
	}

	updated := pretty.PrettyOptions(doc.raw, prettyOptions)
	return true, c.writeMerged(path, original, updated)
}

// MergeText rewrites path with inject(content) unless path is missing or
// already contains marker. Repeating the call with the same marker is a no-op.
func (c *Composer) MergeText(path string, marker string, inject func(string) string) (bool, error) {
	if marker == "" {
		return false, errors.New(messages.ComposeMarkerRequired)
	}
	original, found, err := c.read(path)
	if err != nil || !found {
		return false, err
	}
	if strings.Contains(string(original), marker) {
		c.log.WithFields(logrus.Fields{"path": path, "marker": marker}).Debug(messages.ComposeSkippedMarkerLog)
		return false, nil
	}
	updated := []byte(inject(string(original)))
	if bytes.Equal(updated, original) {
		c.log.WithField("path", path).Debug(messages.ComposeUnchangedLog)
		return false, nil
	}
	return true, c.writeMerged(path, original, updated)
}

// read returns the content of path; found is false when it does not exist.
func (c *Composer) read(path string) ([]byte, bool, error) {
	if _, err := c.sys.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.log.WithField("path", path).Debug(messages.ComposeSkippedMissingLog)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf(messages.ComposeFailedStatFmt, path, err)
	}
	data, err := c.sys.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf(messages.ComposeFailedReadFmt, path, err)
	}
	return data, true, nil
}

func (c *Composer) writeMerged(path string, before []byte, after []byte) error {
	if err := c.sys.WriteFileAtomic(path, after, filePerm); err != nil {
		return fmt.Errorf(messages.ComposeFailedWriteFmt, path, err)
	}
	diff := udiff.Unified(path+" (before)", path+" (after)", string(before), string(after))
	c.log.WithFields(logrus.Fields{"path": path, "diff": diff}).Debug(messages.ComposeMergedLog)
	return nil
}
