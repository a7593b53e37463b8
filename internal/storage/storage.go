// Package storage archives uploaded spreadsheets and generated exports.
package storage

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Archiver keeps a copy of a file under key.
type Archiver interface {
	Archive(ctx context.Context, key string, data []byte, contentType string) error
}

// NoopArchiver discards files. Used when no object store is configured.
type NoopArchiver struct{}

// Archive is a no-op.
func (NoopArchiver) Archive(context.Context, string, []byte, string) error { return nil }

// ExportKey returns the object key for an export rendered at t.
// Keys sort by time: exports/2006/01/02/<ulid>.<ext>
func ExportKey(t time.Time, ext string) string {
	id := ulid.MustNew(ulid.Timestamp(t), ulid.DefaultEntropy())
	return path.Join("exports", t.UTC().Format("2006/01/02"), id.String()+"."+ext)
}

// UploadKey returns the object key for an uploaded file received at t.
func UploadKey(t time.Time, filename string) string {
	id := ulid.MustNew(ulid.Timestamp(t), ulid.DefaultEntropy())
	return path.Join("uploads", t.UTC().Format("2006/01/02"), id.String()+"-"+sanitizeName(filename))
}

// sanitizeName keeps the base name and replaces anything outside [A-Za-z0-9._-].
func sanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 || name == "." || name == "/" {
		return "file"
	}
	return b.String()
}
