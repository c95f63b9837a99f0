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

import "io"

// Encoder writes a single T in the canonical SerDe encoding.
type Encoder[T any] func(w io.Writer, v T) error

// Decoder reads a single T written by the matching Encoder.
type Decoder[T any] func(r io.Reader) (T, error)

// Pair is the (T, U) wire shape: T serialized then U, with no separator.
type Pair[T, U any] struct {
	First  T
	Second U
}

// WritePair serializes a Pair as First then Second.
func WritePair[T, U any](w io.Writer, p Pair[T, U], encFirst Encoder[T], encSecond Encoder[U]) error {
	if err := encFirst(w, p.First); err != nil {
		return err
	}
	return encSecond(w, p.Second)
}

// ReadPair deserializes a value written by WritePair.
func ReadPair[T, U any](r io.Reader, decFirst Decoder[T], decSecond Decoder[U]) (Pair[T, U], error) {
	first, err := decFirst(r)
	if err != nil {
		return Pair[T, U]{}, err
	}
	second, err := decSecond(r)
	if err != nil {
		return Pair[T, U]{}, err
	}
	return Pair[T, U]{First: first, Second: second}, nil
}

// WriteSlice serializes a []T as a usize length prefix followed by each
// element in order - the Vec<T> wire shape.
func WriteSlice[T any](w io.Writer, s []T, enc Encoder[T]) error {
	if err := WriteUint(w, len(s)); err != nil {
		return err
	}
	for _, v := range s {
		if err := enc(w, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadSlice deserializes a value written by WriteSlice.
func ReadSlice[T any](r io.Reader, dec Decoder[T]) ([]T, error) {
	n, err := ReadUint(r)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		v, err := dec(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
