package obj

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/byo/contentstore/blob"
	"github.com/stretchr/testify/require"
)

// Buf is the simplest possible Obj: an inline byte blob with no
// sub-references.
type Buf struct {
	Data []byte
}

var _ Obj[Buf] = Buf{}

func (b Buf) Store(ctx context.Context, s blob.BlobStore) (ObjRef[Buf], error) {
	return Store[Buf](ctx, s, b.Data)
}

func LoadBuf(ctx context.Context, s blob.BlobStore, r ObjRef[Buf]) (Buf, error) {
	buf, err := Load(ctx, s, r)
	if err != nil {
		return Buf{}, err
	}
	return Buf{Data: buf}, nil
}

// Entry is a tagged union of a leaf Buf and a nested Tree.
type Entry struct {
	Blob *Buf
	Sub  *Tree
}

// Tree is a named, unordered collection of Entry values - an Obj whose
// Store implementation must sort entries by key before serializing so
// that structurally equal trees hash identically.
type Tree struct {
	Entries map[string]Entry
}

const (
	treeEntryBlob uint8 = 0
	treeEntryTree uint8 = 1
)

var _ Obj[Tree] = Tree{}

func (t Tree) Store(ctx context.Context, s blob.BlobStore) (ObjRef[Tree], error) {
	type namedRef struct {
		name    string
		kind    uint8
		blobRef ObjRef[Buf]
		treeRef ObjRef[Tree]
	}

	refs := make([]namedRef, 0, len(t.Entries))
	for name, e := range t.Entries {
		switch {
		case e.Blob != nil:
			r, err := e.Blob.Store(ctx, s)
			if err != nil {
				return ObjRef[Tree]{}, err
			}
			refs = append(refs, namedRef{name: name, kind: treeEntryBlob, blobRef: r})
		case e.Sub != nil:
			r, err := e.Sub.Store(ctx, s)
			if err != nil {
				return ObjRef[Tree]{}, err
			}
			refs = append(refs, namedRef{name: name, kind: treeEntryTree, treeRef: r})
		default:
			return ObjRef[Tree]{}, fmt.Errorf("%w: empty tree entry %q", ErrFormat, name)
		}
	}

	// Canonical ordering: structurally equal trees must produce identical
	// bytes, hence identical hashes, regardless of map iteration order.
	sort.Slice(refs, func(i, j int) bool { return refs[i].name < refs[j].name })

	var buf bytes.Buffer
	if err := WriteUint(&buf, len(refs)); err != nil {
		return ObjRef[Tree]{}, err
	}
	for _, re := range refs {
		if err := WriteString(&buf, re.name); err != nil {
			return ObjRef[Tree]{}, err
		}
		if err := WriteUint8(&buf, re.kind); err != nil {
			return ObjRef[Tree]{}, err
		}
		switch re.kind {
		case treeEntryBlob:
			if err := WriteObjRef(&buf, re.blobRef); err != nil {
				return ObjRef[Tree]{}, err
			}
		case treeEntryTree:
			if err := WriteObjRef(&buf, re.treeRef); err != nil {
				return ObjRef[Tree]{}, err
			}
		}
	}

	return Store[Tree](ctx, s, buf.Bytes())
}

func LoadTree(ctx context.Context, s blob.BlobStore, r ObjRef[Tree]) (Tree, error) {
	raw, err := Load(ctx, s, r)
	if err != nil {
		return Tree{}, err
	}
	br := bytes.NewReader(raw)

	n, err := ReadUint(br)
	if err != nil {
		return Tree{}, err
	}

	entries := make(map[string]Entry, n)
	for i := 0; i < n; i++ {
		name, err := ReadString(br)
		if err != nil {
			return Tree{}, err
		}
		kind, err := ReadUint8(br)
		if err != nil {
			return Tree{}, err
		}
		switch kind {
		case treeEntryBlob:
			ref, err := ReadObjRef[Buf](br)
			if err != nil {
				return Tree{}, err
			}
			b, err := LoadBuf(ctx, s, ref)
			if err != nil {
				return Tree{}, err
			}
			entries[name] = Entry{Blob: &b}
		case treeEntryTree:
			ref, err := ReadObjRef[Tree](br)
			if err != nil {
				return Tree{}, err
			}
			sub, err := LoadTree(ctx, s, ref)
			if err != nil {
				return Tree{}, err
			}
			entries[name] = Entry{Sub: &sub}
		default:
			return Tree{}, fmt.Errorf("%w: invalid tree entry tag %d", ErrFormat, kind)
		}
	}

	return Tree{Entries: entries}, nil
}

// fibTree builds a recursively defined tree whose node at depth n holds
// two named sub-trees for n-1 and n-2, bottoming out at blob leaves for
// n=0,1.
func fibTree(n int) Tree {
	entries := map[string]Entry{}
	switch {
	case n == 0:
		entries["fib 0"] = Entry{Blob: &Buf{Data: []byte{0}}}
	case n == 1:
		entries["fib 1"] = Entry{Blob: &Buf{Data: []byte{1}}}
	default:
		t1 := fibTree(n - 1)
		t2 := fibTree(n - 2)
		entries[fmt.Sprintf("fib %d", n-1)] = Entry{Sub: &t1}
		entries[fmt.Sprintf("fib %d", n-2)] = Entry{Sub: &t2}
	}
	return Tree{Entries: entries}
}

func TestObjFibTreeRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := blob.NewZippedStore(blob.NewMemStore())

	original := fibTree(10)

	ref, err := original.Store(ctx, store)
	require.NoError(t, err)

	loaded, err := LoadTree(ctx, store, ref)
	require.NoError(t, err)

	require.Equal(t, original, loaded)
}

func TestObjStoreIsDeterministic(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemStore()

	t1 := fibTree(6)
	t2 := fibTree(6)

	ref1, err := t1.Store(ctx, store)
	require.NoError(t, err)
	ref2, err := t2.Store(ctx, store)
	require.NoError(t, err)

	require.Equal(t, ref1.Hash(), ref2.Hash(), "equal logical values must hash identically")
}

func TestObjSliceRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemStore()

	bufs := []Buf{{Data: []byte("a")}, {Data: []byte("b")}, {Data: []byte("c")}}

	refs := make([]ObjRef[Buf], len(bufs))
	for i, b := range bufs {
		r, err := b.Store(ctx, store)
		require.NoError(t, err)
		refs[i] = r
	}

	sliceRef, err := StoreSlice[Buf](ctx, store, refs)
	require.NoError(t, err)

	loadedRefs, err := LoadSlice[Buf](ctx, store, sliceRef)
	require.NoError(t, err)
	require.Len(t, loadedRefs, len(bufs))

	for i, r := range loadedRefs {
		b, err := LoadBuf(ctx, store, r)
		require.NoError(t, err)
		require.Equal(t, bufs[i], b)
	}
}
