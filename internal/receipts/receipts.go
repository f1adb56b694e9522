// Package receipts stores uploaded payment receipts on local disk under a
// name derived from the student, room and application they belong to.
package receipts

import (
	"fmt"           // Name formatting and error wrapping
	"io"            // Streaming the upload
	"os"            // Filesystem access
	"path/filepath" // Path joining
	"strings"       // Extension handling
)

// AllowedExtensions are the receipt formats accepted on upload
var AllowedExtensions = map[string]bool{"pdf": true, "jpg": true, "png": true}

// Extension returns the lower-cased extension of filename when it is an
// accepted receipt format. Only the name is checked, not the content.
func Extension(filename string) (string, bool) {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return "", false
	}
	ext := strings.ToLower(filename[idx+1:])
	return ext, AllowedExtensions[ext]
}

// Prefix is the stored name of a receipt without its extension
func Prefix(studentID int64, roomID, applicationID uint) string {
	return fmt.Sprintf("Payment_receipt_%d_%d_%d", studentID, roomID, applicationID)
}

// FileName is the stored name of a receipt
func FileName(studentID int64, roomID, applicationID uint, ext string) string {
	return Prefix(studentID, roomID, applicationID) + "." + ext
}

// DiskStore keeps receipts in a single directory
type DiskStore struct {
	dir string
}

// NewDiskStore creates dir if needed and returns a store rooted there
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir is the directory receipts are written to
func (s *DiskStore) Dir() string {
	return s.dir
}

// Replace deletes every stored prefix.* file, then writes r as prefix.ext.
// It returns the stored file name.
func (s *DiskStore) Replace(prefix, ext string, r io.Reader) (string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", fmt.Errorf("list upload dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix+".") {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			return "", fmt.Errorf("remove previous receipt %s: %w", e.Name(), err)
		}
	}

	name := prefix + "." + ext
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create receipt: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = s.Remove(name) // Drop the partial file
		return "", fmt.Errorf("write receipt: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = s.Remove(name)
		return "", fmt.Errorf("close receipt: %w", err)
	}
	return name, nil
}

// Remove deletes a stored receipt; a missing file is not an error
func (s *DiskStore) Remove(name string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove receipt %s: %w", name, err)
	}
	return nil
}
