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
	"context"
	"crypto/sha1" //nolint:gosec // content identity, not a security boundary
	"io"
	"sync"
)

// memStore is an in-memory BlobStore: a map of Hash to its immutable
// bytes, guarded by a RWMutex so the store is safe to share between
// concurrent readers.
type memStore struct {
	mu   sync.RWMutex
	blob map[Hash][]byte
}

var (
	_ BlobStore = (*memStore)(nil)
	_ BufGetter = (*memStore)(nil)
)

// NewMemStore returns an empty in-memory BlobStore.
func NewMemStore() BlobStore {
	return &memStore{
		blob: make(map[Hash][]byte),
	}
}

func (m *memStore) Put(ctx context.Context, r io.Reader) (Hash, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return Hash{}, err
	}

	h := sha1.Sum(buf) //nolint:gosec // content identity, not a security boundary

	m.mu.Lock()
	defer m.mu.Unlock()

	// Identical hash implies identical content - keep whichever copy was
	// stored first rather than overwriting.
	if _, found := m.blob[h]; !found {
		m.blob[h] = buf
	}

	return h, nil
}

func (m *memStore) Get(ctx context.Context, h Hash, w io.Writer) error {
	buf, err := m.GetBuf(ctx, h)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// GetBuf returns the stored bytes directly, without a copy - MemStore's
// override of the generic zero-copy path, since its data is already held
// as an immutable []byte.
func (m *memStore) GetBuf(ctx context.Context, h Hash) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	buf, found := m.blob[h]
	if !found {
		return nil, ErrNotFound
	}
	return buf, nil
}
