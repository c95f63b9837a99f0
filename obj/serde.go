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

// Package obj implements the canonical SerDe binary encoding and the Obj
// persistence protocol that maps typed values, and their references to
// other typed values, onto a blob.BlobStore.
package obj

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/byo/contentstore/blob"
)

// ErrFormat is returned by deserialization whenever the input bytes don't
// describe a value of the expected shape: a short read, invalid UTF-8 in a
// string, or a discriminant outside the declared set for a sum type.
var ErrFormat = errors.New("format error")

// WriteUint8 writes v as a single byte.
func WriteUint8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

// ReadUint8 reads a single byte written by WriteUint8.
func ReadUint8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, formatErr(err)
	}
	return buf[0], nil
}

// WriteUint16 writes v as 2 big-endian bytes.
func WriteUint16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// ReadUint16 reads a value written by WriteUint16.
func ReadUint16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, formatErr(err)
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

// WriteUint32 writes v as 4 big-endian bytes.
func WriteUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// ReadUint32 reads a value written by WriteUint32.
func ReadUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, formatErr(err)
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// WriteUint64 writes v as 8 big-endian bytes.
func WriteUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// ReadUint64 reads a value written by WriteUint64.
func ReadUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, formatErr(err)
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

// WriteUint writes v (the usize/length-prefix equivalent) as an 8-byte
// big-endian uint64, always - regardless of host word size.
func WriteUint(w io.Writer, v int) error {
	if v < 0 {
		return fmt.Errorf("%w: negative length %d", ErrFormat, v)
	}
	return WriteUint64(w, uint64(v))
}

// ReadUint reads a value written by WriteUint, rejecting a length that
// would overflow a (possibly 32-bit) int or turn negative on cast -
// callers use the result to allocate (e.g. make([]byte, n)).
func ReadUint(r io.Reader) (int, error) {
	v, err := ReadUint64(r)
	if err != nil {
		return 0, err
	}
	if v > math.MaxInt {
		return 0, fmt.Errorf("%w: length %d overflows int", ErrFormat, v)
	}
	return int(v), nil
}

// WriteString writes a usize length prefix followed by the raw UTF-8
// bytes of s.
func WriteString(w io.Writer, s string) error {
	if err := WriteUint(w, len(s)); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// ReadString reads a value written by WriteString, failing with ErrFormat
// if the bytes are not valid UTF-8.
func ReadString(r io.Reader) (string, error) {
	n, err := ReadUint(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", formatErr(err)
	}
	if !utf8.Valid(buf) {
		return "", fmt.Errorf("%w: invalid utf-8 string", ErrFormat)
	}
	return string(buf), nil
}

// WriteHash writes the 20 raw bytes of h, with no length prefix.
func WriteHash(w io.Writer, h blob.Hash) error {
	_, err := w.Write(h.Bytes())
	return err
}

// ReadHash reads a value written by WriteHash.
func ReadHash(r io.Reader) (blob.Hash, error) {
	var buf [blob.HashSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return blob.Hash{}, formatErr(err)
	}
	return blob.NewHash(buf), nil
}

func formatErr(err error) error {
	return fmt.Errorf("%w: %v", ErrFormat, err)
}
