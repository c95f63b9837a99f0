/*
Copyright © 2022 Bartłomiej Święcki (byo)

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package blob

import (
	"bufio"
	"context"
	"crypto/sha1" //nolint:gosec // content identity, not a security boundary
	"io"
	"os"
	"path/filepath"
)

// fileStore is an on-disk BlobStore using a two-level fan-out directory
// layout: a blob with hex hash h0h1...h39 lives at
// <root>/h0h1/h2...h39.
type fileStore struct {
	root string
}

var _ BlobStore = (*fileStore)(nil)

// NewFileStore returns a BlobStore rooted at path, creating the directory
// (and any missing parents) if it does not already exist.
func NewFileStore(path string) (BlobStore, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, err
	}
	return &fileStore{root: path}, nil
}

func (fs *fileStore) blobPath(h Hash) string {
	s := h.String()
	return filepath.Join(fs.root, s[:2], s[2:])
}

func (fs *fileStore) Put(ctx context.Context, r io.Reader) (Hash, error) {
	tmp, err := os.CreateTemp(fs.root, ".upload-*")
	if err != nil {
		return Hash{}, err
	}
	defer func() {
		// Harmless if the file was already renamed to its final name;
		// Remove on a missing path is swallowed below.
		_ = os.Remove(tmp.Name())
	}()

	sha := sha1.New() //nolint:gosec // content identity, not a security boundary
	bw := bufio.NewWriter(tmp)
	tee := newTeeWriter(sha, bw)

	if _, err := io.Copy(tee, r); err != nil {
		tmp.Close()
		return Hash{}, err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return Hash{}, err
	}
	if err := tmp.Close(); err != nil {
		return Hash{}, err
	}

	var h Hash
	copy(h[:], sha.Sum(nil))

	dir := filepath.Join(fs.root, h.String()[:2])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Hash{}, err
	}

	if err := os.Rename(tmp.Name(), fs.blobPath(h)); err != nil {
		return Hash{}, err
	}

	return h, nil
}

func (fs *fileStore) Get(ctx context.Context, h Hash, w io.Writer) error {
	f, err := os.Open(fs.blobPath(h))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, bufio.NewReader(f))
	return err
}
