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

// Package blob implements a content-addressed byte-blob store: a Hash type,
// the BlobStore interface, and the MemStore / FileStore / ZippedStore
// backends.
package blob

import (
	"encoding/hex"
	"errors"

	base58 "github.com/jbenet/go-base58"
)

// HashSize is the fixed width, in bytes, of a Hash. It is the digest size
// of SHA-1 and is load-bearing for both the FileStore on-disk layout and
// the obj package's wire format - it must not change.
const HashSize = 20

// ErrInvalidHash is returned when a string does not decode to a well formed
// Hash.
var ErrInvalidHash = errors.New("invalid hash")

// Hash is a fixed-width content identifier: the SHA-1 digest of a blob's
// bytes. The zero Hash is an ordinary value, not a sentinel - there is no
// invalid Hash value.
type Hash [HashSize]byte

// NewHash wraps a 20-byte digest as a Hash.
func NewHash(buf [HashSize]byte) Hash {
	return Hash(buf)
}

// Bytes returns the raw 20 bytes of the hash.
func (h Hash) Bytes() []byte {
	return h[:]
}

// String renders the hash as 40 lowercase hex characters.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Base58 renders the hash using the base58 alphabet instead of hex. This is
// a cosmetic, operator-facing alternative (e.g. for short CLI output) - it
// is not the canonical wire or display form and does not round-trip
// through ParseHash.
func (h Hash) Base58() string {
	return base58.Encode(h[:])
}

// ParseHash parses the canonical 40-character lowercase hex form produced
// by String back into a Hash.
func ParseHash(s string) (Hash, error) {
	if len(s) != HashSize*2 {
		return Hash{}, ErrInvalidHash
	}
	buf, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, errors.Join(ErrInvalidHash, err)
	}
	var h Hash
	copy(h[:], buf)
	return h, nil
}
