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
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

// ErrNotFound is returned by Get when no blob with the given Hash exists in
// the store.
var ErrNotFound = errors.New("blob not found")

// BlobStore puts and gets opaque byte blobs addressed by their SHA-1
// digest. Put consumes the reader to EOF and Get streams the stored bytes
// to the writer. FileStore hashes while writing to disk rather than
// buffering the whole payload; MemStore, which keeps blobs in memory, reads
// the whole payload into one buffer.
//
// Put requires exclusive access to the store; Get requires only shared
// access. Implementations are not required to be safe for concurrent Put
// calls against the same store instance, though MemStore and FileStore
// both are.
type BlobStore interface {
	// Put consumes r to EOF, computes the SHA-1 of its bytes, durably
	// persists them and returns the resulting Hash. Put is all-or-nothing:
	// either the blob is committed under its Hash or no state change is
	// visible.
	Put(ctx context.Context, r io.Reader) (Hash, error)

	// Get streams the blob stored under h into w. It returns ErrNotFound
	// if h is not present in the store.
	Get(ctx context.Context, h Hash, w io.Writer) error
}

// BufGetter is an optional interface a BlobStore may implement to return
// its stored bytes directly, without copying through an intermediate
// writer. GetBuf uses it when available.
type BufGetter interface {
	GetBuf(ctx context.Context, h Hash) ([]byte, error)
}

// PutString hashes and stores s, equivalent to Put(strings.NewReader(s)).
func PutString(ctx context.Context, s BlobStore, str string) (Hash, error) {
	return s.Put(ctx, strings.NewReader(str))
}

// PutBuf hashes and stores buf, equivalent to Put(bytes.NewReader(buf)).
func PutBuf(ctx context.Context, s BlobStore, buf []byte) (Hash, error) {
	return s.Put(ctx, bytes.NewReader(buf))
}

// PutVec hashes and stores buf. It exists alongside PutBuf to mirror the
// spec's put_vec/put_buf distinction; in Go both take a []byte.
func PutVec(ctx context.Context, s BlobStore, buf []byte) (Hash, error) {
	return PutBuf(ctx, s, buf)
}

// GetVec returns the full contents of the blob stored under h.
func GetVec(ctx context.Context, s BlobStore, h Hash) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Get(ctx, h, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GetBuf returns the full contents of the blob stored under h, using the
// store's zero-copy path (BufGetter) when the store implements one.
func GetBuf(ctx context.Context, s BlobStore, h Hash) ([]byte, error) {
	if bg, ok := s.(BufGetter); ok {
		return bg.GetBuf(ctx, h)
	}
	return GetVec(ctx, s, h)
}

// ErrInvalidUTF8 is returned by GetString when the stored blob is not
// valid UTF-8.
var ErrInvalidUTF8 = errors.New("blob is not valid utf-8")

// GetString returns the blob stored under h as a string. It fails with
// ErrInvalidUTF8 if the bytes are not valid UTF-8.
func GetString(ctx context.Context, s BlobStore, h Hash) (string, error) {
	buf, err := GetVec(ctx, s, h)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", ErrInvalidUTF8
	}
	return string(buf), nil
}
