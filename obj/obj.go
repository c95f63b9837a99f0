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

package obj

import (
	"bytes"
	"context"
	"io"

	"github.com/byo/contentstore/blob"
)

// Obj is implemented by types that know how to persist themselves as a
// typed reference into a blob.BlobStore. Implementations recursively store
// any owned sub-objects first, then serialize their own surrogate form and
// call Store (see obj_test.go's Tree/Buf example).
type Obj[T any] interface {
	Store(ctx context.Context, s blob.BlobStore) (ObjRef[T], error)
}

// Loader is the free-function counterpart to Obj.Store: it loads the value
// referenced by an ObjRef[T] back out of a blob.BlobStore. Go methods can't
// introduce a receiver-independent type parameter, so the load side of an
// Obj implementation is always a plain function of this shape rather than
// an interface method - see LoadBuf/LoadTree in obj_test.go.
type Loader[T any] func(ctx context.Context, s blob.BlobStore, r ObjRef[T]) (T, error)

// ObjRef[T] is a Hash tagged, at the type level, with the kind of object it
// refers to. At the wire level it is exactly the 20 raw Hash bytes; T only
// exists for compile-time safety and carries no runtime weight.
//
// Because a value's Hash depends on the hashes of whatever it references,
// an object can only ever reference objects that already exist - cycles
// are structurally impossible, and there is no lifetime coupling between
// an ObjRef and the store it was produced against.
type ObjRef[T any] struct {
	hash blob.Hash
}

// RefOf wraps a raw Hash as a typed reference to T. Used by Obj
// implementations once they've stored a value and obtained its Hash.
func RefOf[T any](h blob.Hash) ObjRef[T] {
	return ObjRef[T]{hash: h}
}

// Hash returns the underlying content hash.
func (r ObjRef[T]) Hash() blob.Hash {
	return r.hash
}

// WriteObjRef serializes an ObjRef as its 20 raw hash bytes, no prefix.
func WriteObjRef[T any](w io.Writer, r ObjRef[T]) error {
	return WriteHash(w, r.hash)
}

// ReadObjRef deserializes a value written by WriteObjRef.
func ReadObjRef[T any](r io.Reader) (ObjRef[T], error) {
	h, err := ReadHash(r)
	if err != nil {
		return ObjRef[T]{}, err
	}
	return ObjRef[T]{hash: h}, nil
}

// Store puts the already-serialized surrogate bytes buf into s and returns
// a typed reference to the result. It does not serialize anything or store
// sub-objects itself; the caller stores any owned sub-objects and
// serializes the surrogate first.
//
// Callers implementing a composite type's persistence call Store once they
// have serialized their value's surrogate form into buf; see obj_test.go's
// Tree/Buf example for the expected shape.
func Store[T any](ctx context.Context, s blob.BlobStore, buf []byte) (ObjRef[T], error) {
	h, err := blob.PutBuf(ctx, s, buf)
	if err != nil {
		return ObjRef[T]{}, err
	}
	return ObjRef[T]{hash: h}, nil
}

// Load fetches the blob referenced by r. Callers deserialize the returned
// bytes into their surrogate form and recursively Load any ObjRefs it
// contains to reconstruct the full value.
func Load[T any](ctx context.Context, s blob.BlobStore, r ObjRef[T]) ([]byte, error) {
	return blob.GetVec(ctx, s, r.hash)
}

// StoreSlice implements the Vec<O: Obj> case: given the already-stored
// refs for each element (in order), it serializes the list of refs as a
// single blob and returns a typed reference to the resulting slice object.
func StoreSlice[O any](ctx context.Context, s blob.BlobStore, refs []ObjRef[O]) (ObjRef[[]O], error) {
	var buf bytes.Buffer
	if err := WriteSlice(&buf, refs, WriteObjRef[O]); err != nil {
		return ObjRef[[]O]{}, err
	}
	return Store[[]O](ctx, s, buf.Bytes())
}

// LoadSlice reverses StoreSlice, returning the per-element refs so the
// caller can Load each element with its own element-type Load function.
func LoadSlice[O any](ctx context.Context, s blob.BlobStore, r ObjRef[[]O]) ([]ObjRef[O], error) {
	buf, err := Load[[]O](ctx, s, r)
	if err != nil {
		return nil, err
	}
	return ReadSlice(bytes.NewReader(buf), ReadObjRef[O])
}
