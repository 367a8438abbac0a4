package table

import (
	"testing"
	"time"

	"github.com/named-data/ccnfwd/ccn"
	"github.com/stretchr/testify/assert"
)

func TestPitAggregation(t *testing.T) {
	pit := NewPIT()
	verdict, entry := pit.ReceiveInterest(makeLivingInterest(t, "/a", 1, 4*time.Second), 0)
	assert.Equal(t, PitForward, verdict)
	assert.Equal(t, ticks(4*time.Second), entry.Expiry())
	assert.Equal(t, 1, pit.Len())

	verdict, same := pit.ReceiveInterest(makeLivingInterest(t, "/a", 2, 4*time.Second), 0)
	assert.Equal(t, PitAggregate, verdict)
	assert.Same(t, entry, same)
	assert.True(t, NewNumberSet(1, 2).Equal(entry.Ingress()))

	// A restricted Interest does not aggregate with the plain one
	keyed := makeInterest(t, ccn.InterestFields{
		Name:             ccn.MustParseName("/a"),
		KeyIdRestriction: []byte{1},
		Lifetime:         4 * time.Second,
	}, 3)
	verdict, other := pit.ReceiveInterest(keyed, 0)
	assert.Equal(t, PitForward, verdict)
	assert.NotSame(t, entry, other)
	assert.Equal(t, 2, pit.Len())

	found, ok := pit.GetPitEntry(makeNamedInterest(t, "/a", 9))
	assert.True(t, ok)
	assert.Same(t, entry, found)
	assert.Equal(t, "Forward", PitForward.String())
	assert.Equal(t, "Aggregate", PitAggregate.String())
}

func TestPitLifetimeExtension(t *testing.T) {
	pit := NewPIT()
	pit.SetExtensionThreshold(time.Second)
	_, entry := pit.ReceiveInterest(makeLivingInterest(t, "/x", 1, 4*time.Second), 0)

	// Extends the entry but stays within the threshold
	verdict, _ := pit.ReceiveInterest(makeLivingInterest(t, "/x", 2, 4500*time.Millisecond), 0)
	assert.Equal(t, PitAggregate, verdict)
	assert.Equal(t, ticks(4500*time.Millisecond), entry.Expiry())

	// Shorter lifetime never shrinks the entry
	verdict, _ = pit.ReceiveInterest(makeLivingInterest(t, "/x", 3, time.Second), 0)
	assert.Equal(t, PitAggregate, verdict)
	assert.Equal(t, ticks(4500*time.Millisecond), entry.Expiry())

	// Beyond the threshold the Interest is forwarded again
	verdict, again := pit.ReceiveInterest(makeLivingInterest(t, "/x", 4, 6*time.Second), 0)
	assert.Equal(t, PitForward, verdict)
	assert.Same(t, entry, again)
	assert.Equal(t, ticks(6*time.Second), entry.Expiry())
	assert.Equal(t, 4, entry.Ingress().Len())

	// The time index follows the extension
	assert.Equal(t, 0, pit.RemoveExpired(ticks(5*time.Second)))
	assert.Equal(t, 1, pit.RemoveExpired(ticks(6*time.Second)))
}

func TestPitDefaultAndMaxLifetime(t *testing.T) {
	pit := NewPIT()
	pit.SetDefaultLifetime(2 * time.Second)
	_, entry := pit.ReceiveInterest(makeNamedInterest(t, "/d", 1), 100)
	assert.Equal(t, 100+ticks(2*time.Second), entry.Expiry())
	assert.Equal(t, uint64(100), uint64(entry.Created()))

	_, long := pit.ReceiveInterest(makeLivingInterest(t, "/long", 1, time.Hour), 0)
	assert.Equal(t, ticks(pitMaxLifetime), long.Expiry())
}

func TestPitSatisfy(t *testing.T) {
	pit := NewPIT()
	pit.ReceiveInterest(makeNamedInterest(t, "/s", 1), 0)
	pit.ReceiveInterest(makeNamedInterest(t, "/s", 2), 0)
	pit.ReceiveInterest(makeInterest(t, ccn.InterestFields{
		Name:             ccn.MustParseName("/s"),
		KeyIdRestriction: []byte{5},
	}, 3), 0)
	pit.ReceiveInterest(makeInterest(t, ccn.InterestFields{
		Name:             ccn.MustParseName("/s"),
		KeyIdRestriction: []byte{6},
	}, 4), 0)
	assert.Equal(t, 3, pit.Len())

	object := makeObject(t, ccn.ContentObjectFields{Name: ccn.MustParseName("/s"), KeyId: []byte{5}}, 7)
	reversePath := pit.SatisfyInterest(object)
	assert.True(t, NewNumberSet(1, 2, 3).Equal(reversePath))
	assert.Equal(t, 1, pit.Len())

	// Satisfied entries are gone
	assert.True(t, pit.SatisfyInterest(object).IsEmpty())

	// The hash restriction is matched against the computed hash
	hashed := makeNamedObject(t, "/h", "payload")
	pit.ReceiveInterest(makeInterest(t, ccn.InterestFields{
		Name:                  ccn.MustParseName("/h"),
		ObjectHashRestriction: hashed.ObjectHash(),
	}, 8), 0)
	assert.True(t, NewNumberSet(8).Equal(pit.SatisfyInterest(hashed)))
	assert.Equal(t, 1, pit.Len())
}

func TestPitExpiry(t *testing.T) {
	pit := NewPIT()
	pit.ReceiveInterest(makeLivingInterest(t, "/1", 1, time.Second), 0)
	pit.ReceiveInterest(makeLivingInterest(t, "/2", 1, 3*time.Second), 0)

	assert.Equal(t, 1, pit.RemoveExpired(ticks(time.Second)))
	assert.Equal(t, 1, pit.Len())
	_, ok := pit.GetPitEntry(makeNamedInterest(t, "/1", 1))
	assert.False(t, ok)

	// An expired entry that was not swept yet is replaced
	verdict, entry := pit.ReceiveInterest(makeLivingInterest(t, "/2", 2, time.Second), ticks(3*time.Second))
	assert.Equal(t, PitForward, verdict)
	assert.True(t, NewNumberSet(2).Equal(entry.Ingress()))
	assert.Equal(t, 1, pit.Len())
	assert.Equal(t, uint64(2), pit.ExpiredCount())

	assert.True(t, pit.RemoveInterest(makeNamedInterest(t, "/2", 5)))
	assert.False(t, pit.RemoveInterest(makeNamedInterest(t, "/2", 5)))
	assert.Equal(t, 0, pit.Len())
	assert.Equal(t, 0, pit.RemoveExpired(ticks(time.Hour)))
}

func TestPitRemoveConnection(t *testing.T) {
	pit := NewPIT()
	_, shared := pit.ReceiveInterest(makeNamedInterest(t, "/shared", 1), 0)
	pit.ReceiveInterest(makeNamedInterest(t, "/shared", 2), 0)
	_, alone := pit.ReceiveInterest(makeNamedInterest(t, "/alone", 1), 0)
	alone.AddEgress(3, 0)
	shared.AddEgress(3, 0)

	assert.Equal(t, 1, pit.RemoveConnection(1))
	assert.Equal(t, 1, pit.Len())
	assert.True(t, NewNumberSet(2).Equal(shared.Ingress()))

	assert.Equal(t, 0, pit.RemoveConnection(3))
	assert.True(t, shared.Egress().IsEmpty())
	_, ok := shared.SentAt(3)
	assert.False(t, ok)
}

func TestPitEntrySentAt(t *testing.T) {
	pit := NewPIT()
	_, entry := pit.ReceiveInterest(makeNamedInterest(t, "/sent", 1), 100)
	_, ok := entry.SentAt(3)
	assert.False(t, ok)

	entry.AddEgress(3, 100)
	entry.AddEgress(4, 150)
	entry.AddEgress(3, 400)
	sent, ok := entry.SentAt(3)
	assert.True(t, ok)
	assert.Equal(t, uint64(400), uint64(sent))
	sent, ok = entry.SentAt(4)
	assert.True(t, ok)
	assert.Equal(t, uint64(150), uint64(sent))
	assert.Equal(t, uint64(100), uint64(entry.Created()))
	assert.Equal(t, 2, entry.Egress().Len())
}
