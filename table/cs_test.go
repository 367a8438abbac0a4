package table

import (
	"testing"

	"github.com/named-data/ccnfwd/ccn"
	"github.com/stretchr/testify/assert"
)

func TestContentStoreSaveFetch(t *testing.T) {
	cs := NewContentStore(10)
	object := makeNamedObject(t, "/a/b", "hello")
	assert.True(t, cs.Save(object, 0))
	assert.Equal(t, 1, cs.Len())

	found, ok := cs.Fetch(makeNamedInterest(t, "/a/b", 1), 0)
	assert.True(t, ok)
	assert.Same(t, object, found)

	_, ok = cs.Fetch(makeNamedInterest(t, "/a", 1), 0)
	assert.False(t, ok)

	// Saving the same object again only refreshes it
	assert.True(t, cs.Save(makeNamedObject(t, "/a/b", "hello"), 0))
	assert.Equal(t, 1, cs.Len())

	c := cs.Counters()
	assert.Equal(t, uint64(1), c.Adds)
	assert.Equal(t, uint64(1), c.Refreshes)
	assert.Equal(t, uint64(1), c.Hits)
	assert.Equal(t, uint64(1), c.Misses)
}

func TestContentStoreRejects(t *testing.T) {
	cs := NewContentStore(10)
	assert.False(t, cs.Save(makeNamedInterest(t, "/a", 1), 0))
	assert.False(t, cs.Save(makeObject(t, ccn.ContentObjectFields{Payload: []byte("nameless")}, 0), 0))
	assert.False(t, cs.Save(makeObject(t, ccn.ContentObjectFields{
		Name:       ccn.MustParseName("/old"),
		ExpiryTime: 100,
	}, 0), 100))
	assert.Equal(t, 0, cs.Len())

	assert.False(t, NewContentStore(0).Save(makeNamedObject(t, "/a", "x"), 0))
	assert.Panics(t, func() { cs.Save(nil, 0) })
	assert.Panics(t, func() { cs.Fetch(nil, 0) })
}

func TestContentStoreRestrictions(t *testing.T) {
	cs := NewContentStore(10)
	object := makeObject(t, ccn.ContentObjectFields{
		Name:    ccn.MustParseName("/k"),
		Payload: []byte("signed"),
		KeyId:   []byte{0x01, 0x02},
	}, 0)
	assert.True(t, cs.Save(object, 0))

	_, ok := cs.Fetch(makeInterest(t, ccn.InterestFields{
		Name:             ccn.MustParseName("/k"),
		KeyIdRestriction: []byte{0x01, 0x02},
	}, 1), 0)
	assert.True(t, ok)

	_, ok = cs.Fetch(makeInterest(t, ccn.InterestFields{
		Name:             ccn.MustParseName("/k"),
		KeyIdRestriction: []byte{0x09},
	}, 1), 0)
	assert.False(t, ok)

	_, ok = cs.Fetch(makeInterest(t, ccn.InterestFields{
		Name:                  ccn.MustParseName("/k"),
		ObjectHashRestriction: object.ObjectHash(),
	}, 1), 0)
	assert.True(t, ok)

	wrongHash := make([]byte, 32)
	_, ok = cs.Fetch(makeInterest(t, ccn.InterestFields{
		Name:                  ccn.MustParseName("/k"),
		ObjectHashRestriction: wrongHash,
	}, 1), 0)
	assert.False(t, ok)
}

func TestContentStoreLRU(t *testing.T) {
	cs := NewContentStore(2)
	a := makeNamedObject(t, "/a", "a")
	b := makeNamedObject(t, "/b", "b")
	c := makeNamedObject(t, "/c", "c")
	cs.Save(a, 0)
	cs.Save(b, 0)

	_, ok := cs.Fetch(makeNamedInterest(t, "/a", 1), 0)
	assert.True(t, ok)

	assert.True(t, cs.Save(c, 0))
	assert.Equal(t, 2, cs.Len())
	_, ok = cs.Fetch(makeNamedInterest(t, "/b", 1), 0)
	assert.False(t, ok)
	_, ok = cs.Fetch(makeNamedInterest(t, "/a", 1), 0)
	assert.True(t, ok)
	_, ok = cs.Fetch(makeNamedInterest(t, "/c", 1), 0)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), cs.Counters().EvictionsLRU)

	// Shrinking evicts from the tail, which is now /a
	cs.SetCapacity(1)
	assert.Equal(t, 1, cs.Len())
	assert.Equal(t, 1, cs.Capacity())
	_, ok = cs.Fetch(makeNamedInterest(t, "/c", 1), 0)
	assert.True(t, ok)
}

func TestContentStoreExpiry(t *testing.T) {
	cs := NewContentStore(10)
	expiring := makeObject(t, ccn.ContentObjectFields{
		Name:       ccn.MustParseName("/e"),
		ExpiryTime: 5000,
	}, 0)
	cached := makeObject(t, ccn.ContentObjectFields{
		Name:                 ccn.MustParseName("/r"),
		ExpiryTime:           9000,
		RecommendedCacheTime: 3000,
	}, 0)
	forever := makeNamedObject(t, "/f", "f")
	assert.True(t, cs.Save(expiring, 1000))
	assert.True(t, cs.Save(cached, 1000))
	assert.True(t, cs.Save(forever, 1000))

	entryExpiry := func(uri string) uint64 {
		entry, ok := cs.table.Get(makeNamedInterest(t, uri, 1))
		assert.True(t, ok)
		at, ok := entry.Expiry()
		assert.True(t, ok)
		return uint64(at)
	}
	assert.Equal(t, uint64(5000), entryExpiry("/e"))
	assert.Equal(t, uint64(3000), entryExpiry("/r"))

	_, ok := cs.Fetch(makeNamedInterest(t, "/e", 1), 4999)
	assert.True(t, ok)

	assert.Equal(t, 1, cs.RemoveExpired(4000))
	assert.Equal(t, 2, cs.Len())

	// Expired at fetch time but not yet swept
	_, ok = cs.Fetch(makeNamedInterest(t, "/e", 1), 5000)
	assert.False(t, ok)
	assert.Equal(t, 1, cs.Len())
	assert.Equal(t, 0, cs.RemoveExpired(1<<40))

	_, ok = cs.Fetch(makeNamedInterest(t, "/f", 1), 1<<40)
	assert.True(t, ok)
	assert.Equal(t, uint64(2), cs.Counters().EvictionsTime)
}

func TestContentStoreRemoveAndClear(t *testing.T) {
	cs := NewConfiguredContentStore()
	assert.Equal(t, csCapacity, cs.Capacity())
	a := makeNamedObject(t, "/a", "a")
	cs.Save(a, 0)
	cs.Save(makeNamedObject(t, "/b", "b"), 0)

	assert.True(t, cs.Remove(a))
	assert.False(t, cs.Remove(a))
	assert.Equal(t, 1, cs.Len())

	cs.Clear()
	assert.Equal(t, 0, cs.Len())
	_, ok := cs.Fetch(makeNamedInterest(t, "/b", 1), 0)
	assert.False(t, ok)
	assert.True(t, cs.Save(a, 0))
	assert.Equal(t, 1, cs.Len())
}

func TestContentStoreSameNameSurvivesRemoval(t *testing.T) {
	cs := NewContentStore(10)
	v1 := makeNamedObject(t, "/n", "v1")
	v2 := makeNamedObject(t, "/n", "v2")
	assert.True(t, cs.Save(v1, 0))
	assert.True(t, cs.Save(v2, 0))
	assert.Equal(t, 2, cs.Len())

	assert.True(t, cs.Remove(v1))
	assert.Equal(t, 1, cs.Len())
	found, ok := cs.Fetch(makeNamedInterest(t, "/n", 1), 0)
	assert.True(t, ok)
	assert.Same(t, v2, found)

	assert.True(t, cs.Remove(v2))
	_, ok = cs.Fetch(makeNamedInterest(t, "/n", 1), 0)
	assert.False(t, ok)
	assert.Empty(t, cs.sameName)
}

func TestContentStoreSameKeyIdSurvivesEviction(t *testing.T) {
	cs := NewContentStore(2)
	keyId := []byte{0x0a, 0x0b}
	k1 := makeObject(t, ccn.ContentObjectFields{Name: ccn.MustParseName("/k"), Payload: []byte("1"), KeyId: keyId}, 0)
	k2 := makeObject(t, ccn.ContentObjectFields{Name: ccn.MustParseName("/k"), Payload: []byte("2"), KeyId: keyId}, 0)
	assert.True(t, cs.Save(k1, 0))
	assert.True(t, cs.Save(k2, 0))

	// k1 is the LRU tail
	assert.True(t, cs.Save(makeNamedObject(t, "/other", "x"), 0))
	assert.Equal(t, 2, cs.Len())
	assert.Equal(t, uint64(1), cs.Counters().EvictionsLRU)

	found, ok := cs.Fetch(makeInterest(t, ccn.InterestFields{
		Name:             ccn.MustParseName("/k"),
		KeyIdRestriction: keyId,
	}, 1), 0)
	assert.True(t, ok)
	assert.Same(t, k2, found)

	found, ok = cs.Fetch(makeNamedInterest(t, "/k", 1), 0)
	assert.True(t, ok)
	assert.Same(t, k2, found)
}
