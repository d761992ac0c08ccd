package value

import (
	"strings"

	"github.com/dchest/siphash"
)

// dictSeed0/dictSeed1 key the SipHash-2-4 used to bucket Dict entries.
// Fixed (not random) so that Dict iteration/printing is reproducible
// across runs. dict-keys sorts the keys, so its output does not depend
// on bucket order.
const (
	dictSeed0 = 0x646f6e746c657473
	dictSeed1 = 0x6865656c7468656d
)

type dictEntry struct {
	key Symbol
	val Value
}

// Dict is a mutating mapping from Symbol to Value, the one Value variant
// that is mutated in place. It is backed by a SipHash-bucketed open hash
// table with fixed seeds, so bucket placement (and therefore iteration
// order) is reproducible across runs.
type Dict struct {
	buckets [][]dictEntry
	count   int
}

// NewDict returns an empty Dict, the fresh mutable value a dict factory
// produces on every reference.
func NewDict() *Dict {
	return &Dict{buckets: make([][]dictEntry, 8)}
}

func (*Dict) Kind() Kind { return KindDict }

func (d *Dict) String() string {
	keys := d.Keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		v, _ := d.Get(k)
		parts[i] = k.String() + ":" + v.String()
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func (d *Dict) bucketIndex(key Symbol) int {
	h := siphash.Hash(dictSeed0, dictSeed1, []byte(key))
	return int(h % uint64(len(d.buckets)))
}

// Get returns the value bound to key, if any.
func (d *Dict) Get(key Symbol) (Value, bool) {
	for _, e := range d.buckets[d.bucketIndex(key)] {
		if e.key == key {
			return e.val, true
		}
	}
	return nil, false
}

// Set binds key to val, replacing any prior binding.
func (d *Dict) Set(key Symbol, val Value) {
	idx := d.bucketIndex(key)
	bucket := d.buckets[idx]
	for i, e := range bucket {
		if e.key == key {
			bucket[i].val = val
			return
		}
	}
	d.buckets[idx] = append(bucket, dictEntry{key: key, val: val})
	d.count++
	if d.count > len(d.buckets)*3 {
		d.grow()
	}
}

// Delete removes key's binding, if present.
func (d *Dict) Delete(key Symbol) {
	idx := d.bucketIndex(key)
	bucket := d.buckets[idx]
	for i, e := range bucket {
		if e.key == key {
			d.buckets[idx] = append(bucket[:i], bucket[i+1:]...)
			d.count--
			return
		}
	}
}

// Len returns the number of bindings in d.
func (d *Dict) Len() int { return d.count }

// Keys returns the bound keys in an unspecified but stable-per-call order;
// callers wanting a deterministic order (e.g. the dict-keys builtin) sort
// the result themselves.
func (d *Dict) Keys() []Symbol {
	out := make([]Symbol, 0, d.count)
	for _, bucket := range d.buckets {
		for _, e := range bucket {
			out = append(out, e.key)
		}
	}
	return out
}

func (d *Dict) grow() {
	old := d.buckets
	d.buckets = make([][]dictEntry, len(old)*2)
	d.count = 0
	for _, bucket := range old {
		for _, e := range bucket {
			d.Set(e.key, e.val)
		}
	}
}
