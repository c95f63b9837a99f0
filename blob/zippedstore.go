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
	"compress/zlib"
	"context"
	"io"
)

// zippedStore is a transparent compression wrapper around any BlobStore.
// The Hash it returns from Put is the digest of the *compressed* bytes -
// callers must commit to using the same wrapping consistently for a given
// store, since changing the wrapper changes the hashes of stored content.
type zippedStore struct {
	inner BlobStore
}

var _ BlobStore = (*zippedStore)(nil)

// NewZippedStore wraps inner so that Put zlib-compresses its input before
// storing it, and Get transparently decompresses on the way out. Wrappers
// may be stacked.
func NewZippedStore(inner BlobStore) BlobStore {
	return &zippedStore{inner: inner}
}

func (z *zippedStore) Put(ctx context.Context, r io.Reader) (Hash, error) {
	pr, pw := io.Pipe()

	errCh := make(chan error, 1)
	go func() {
		zw := zlib.NewWriter(pw)
		_, err := io.Copy(zw, r)
		if err != nil {
			zw.Close()
			pw.CloseWithError(err)
			errCh <- err
			return
		}
		err = zw.Close()
		pw.CloseWithError(err)
		errCh <- err
	}()

	h, err := z.inner.Put(ctx, pr)
	if err != nil {
		// inner.Put stopped reading pr; unblock the producer goroutine's
		// pending pw.Write before returning.
		pr.CloseWithError(err)
		<-errCh
		return Hash{}, err
	}
	if err := <-errCh; err != nil {
		return Hash{}, err
	}
	return h, nil
}

func (z *zippedStore) Get(ctx context.Context, h Hash, w io.Writer) error {
	pr, pw := io.Pipe()

	go func() {
		pw.CloseWithError(z.inner.Get(ctx, h, pw))
	}()

	zr, err := zlib.NewReader(pr)
	if err != nil {
		pr.CloseWithError(err)
		return err
	}
	defer zr.Close()

	if _, err := io.Copy(w, zr); err != nil {
		// w stopped accepting bytes; unblock the producer goroutine's
		// pending pw.Write (inside z.inner.Get) before returning.
		pr.CloseWithError(err)
		return err
	}
	return nil
}
