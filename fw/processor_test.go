package fw

import (
	"testing"
	"time"

	"github.com/named-data/ccnfwd/ccn"
	"github.com/named-data/ccnfwd/ccn/tlv"
	"github.com/named-data/ccnfwd/core"
	"github.com/named-data/ccnfwd/dispatch"
	"github.com/named-data/ccnfwd/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConnection struct {
	id    uint64
	up    bool
	local bool
	fail  bool
	sent  []*ccn.Message
}

func (c *fakeConnection) String() string {
	return "FakeConnection"
}

func (c *fakeConnection) ID() uint64 {
	return c.id
}

func (c *fakeConnection) IsUp() bool {
	return c.up
}

func (c *fakeConnection) IsLocal() bool {
	return c.local
}

func (c *fakeConnection) Send(msg *ccn.Message) bool {
	if c.fail {
		return false
	}
	c.sent = append(c.sent, msg)
	return true
}

type fakeConnectionTable map[uint64]*fakeConnection

func (t fakeConnectionTable) Get(id uint64) dispatch.Connection {
	c, ok := t[id]
	if !ok {
		return nil
	}
	return c
}

func (t fakeConnectionTable) add(id uint64, local bool) *fakeConnection {
	c := &fakeConnection{id: id, up: true, local: local}
	t[id] = c
	return c
}

type processorFixture struct {
	conns fakeConnectionTable
	clock *core.ManualClock
	p     *Processor
}

func newFixture() *processorFixture {
	f := &processorFixture{conns: fakeConnectionTable{}, clock: core.NewManualClock(1000)}
	f.p = NewProcessor(f.conns, f.clock)
	return f
}

func (f *processorFixture) route(uri string, id uint64) {
	f.p.Fib().AddOrUpdate(table.Route{Prefix: ccn.MustParseName(uri), ConnectionID: id})
}

func interestWire(t *testing.T, uri string, hopLimit uint8) []byte {
	wire, err := (&ccn.InterestFields{Name: ccn.MustParseName(uri), HopLimit: hopLimit}).Encode()
	require.NoError(t, err)
	return wire
}

func objectWire(t *testing.T, uri string) []byte {
	wire, err := (&ccn.ContentObjectFields{Name: ccn.MustParseName(uri), Payload: []byte("data")}).Encode()
	require.NoError(t, err)
	return wire
}

func TestZeroHopLimitFromRemote(t *testing.T) {
	f := newFixture()
	f.conns.add(1, false)
	upstream := f.conns.add(2, false)
	f.route("/a", 2)
	f.p.ContentStore().Save(f.mustMessage(t, objectWire(t, "/a"), 2), f.clock.Now())

	f.p.ReceiveRaw(interestWire(t, "/a", 0), 1)

	c := f.p.Counters()
	assert.Equal(t, uint64(1), c.DroppedZeroHopLimitFromRemote)
	assert.Equal(t, uint64(0), c.InterestsSatisfiedFromStore)
	assert.Equal(t, uint64(0), c.InterestsForwarded)
	assert.Equal(t, 0, f.p.Pit().Len())
	assert.Equal(t, uint64(0), f.p.ContentStore().Counters().Hits)
	assert.Equal(t, uint64(0), f.p.ContentStore().Counters().Misses)
	assert.Empty(t, upstream.sent)
}

func (f *processorFixture) mustMessage(t *testing.T, wire []byte, ingress uint64) *ccn.Message {
	msg, err := ccn.NewMessage(wire, ingress, f.clock.Now())
	require.NoError(t, err)
	return msg
}

func TestHopLimitDecrement(t *testing.T) {
	f := newFixture()
	f.conns.add(1, false)
	remote := f.conns.add(2, false)
	local := f.conns.add(3, true)
	f.route("/a", 2)
	f.route("/a", 3)

	f.p.ReceiveRaw(interestWire(t, "/a/x", 5), 1)
	require.Len(t, remote.sent, 1)
	hopLimit, ok := remote.sent[0].HopLimit()
	assert.True(t, ok)
	assert.Equal(t, uint8(4), hopLimit)
	assert.Equal(t, uint64(2), f.p.Counters().InterestsForwarded)

	// Reaching zero suppresses only the remote nexthop
	f.p.ReceiveRaw(interestWire(t, "/a/y", 1), 1)
	assert.Len(t, remote.sent, 1)
	require.Len(t, local.sent, 2)
	hopLimit, _ = local.sent[1].HopLimit()
	assert.Equal(t, uint8(0), hopLimit)
	assert.Equal(t, uint64(1), f.p.Counters().DroppedZeroHopLimitToRemote)
}

func TestZeroHopLimitFromLocal(t *testing.T) {
	f := newFixture()
	f.conns.add(1, true)
	remote := f.conns.add(2, false)
	local := f.conns.add(3, true)
	f.route("/a", 2)
	f.route("/a", 3)

	f.p.ReceiveRaw(interestWire(t, "/a", 0), 1)
	assert.Empty(t, remote.sent)
	assert.Len(t, local.sent, 1)
	c := f.p.Counters()
	assert.Equal(t, uint64(0), c.DroppedZeroHopLimitFromRemote)
	assert.Equal(t, uint64(1), c.DroppedZeroHopLimitToRemote)
	assert.Equal(t, uint64(1), c.InterestsForwarded)
}

func TestAggregateSatisfyAndCache(t *testing.T) {
	f := newFixture()
	consumer1 := f.conns.add(1, false)
	consumer2 := f.conns.add(2, false)
	producer := f.conns.add(3, false)
	f.route("/a", 3)

	f.p.ReceiveRaw(interestWire(t, "/a/b", 8), 1)
	f.p.ReceiveRaw(interestWire(t, "/a/b", 8), 2)
	assert.Len(t, producer.sent, 1)
	assert.Equal(t, uint64(1), f.p.Counters().InterestsAggregated)

	entry, ok := f.p.Pit().GetPitEntry(f.mustMessage(t, interestWire(t, "/a/b", 8), 1))
	require.True(t, ok)
	assert.True(t, table.NewNumberSet(1, 2).Equal(entry.Ingress()))
	assert.True(t, table.NewNumberSet(3).Equal(entry.Egress()))

	f.p.ReceiveRaw(objectWire(t, "/a/b"), 3)
	assert.Len(t, consumer1.sent, 1)
	assert.Len(t, consumer2.sent, 1)
	assert.Equal(t, uint64(2), f.p.Counters().ObjectsForwarded)
	assert.Equal(t, 0, f.p.Pit().Len())
	assert.Equal(t, 1, f.p.ContentStore().Len())

	// The next Interest is answered from the Content Store
	f.p.ReceiveRaw(interestWire(t, "/a/b", 8), 1)
	assert.Len(t, consumer1.sent, 2)
	assert.Len(t, producer.sent, 1)
	assert.Equal(t, uint64(1), f.p.Counters().InterestsSatisfiedFromStore)
}

func TestContentStorePolicy(t *testing.T) {
	f := newFixture()
	f.p.SetContentStorePolicy(false, false)
	f.conns.add(1, false)
	producer := f.conns.add(3, false)
	f.route("/a", 3)

	f.p.ReceiveRaw(interestWire(t, "/a", 8), 1)
	f.p.ReceiveRaw(objectWire(t, "/a"), 3)
	assert.Equal(t, 0, f.p.ContentStore().Len())

	f.p.ContentStore().Save(f.mustMessage(t, objectWire(t, "/a"), 3), f.clock.Now())
	f.p.ReceiveRaw(interestWire(t, "/a", 8), 1)
	assert.Len(t, producer.sent, 2)
	assert.Equal(t, uint64(0), f.p.Counters().InterestsSatisfiedFromStore)
}

func TestInterestDrops(t *testing.T) {
	f := newFixture()
	f.conns.add(1, false)
	down := f.conns.add(4, false)
	down.up = false
	failing := f.conns.add(5, false)
	failing.fail = true
	f.route("/self", 1)
	f.route("/missing", 9)
	f.route("/down", 4)
	f.route("/failing", 5)

	f.p.ReceiveRaw(interestWire(t, "/none", 8), 1)
	f.p.ReceiveRaw(interestWire(t, "/self", 8), 1)
	f.p.ReceiveRaw(interestWire(t, "/missing", 8), 1)
	f.p.ReceiveRaw(interestWire(t, "/down", 8), 1)
	f.p.ReceiveRaw(interestWire(t, "/failing", 8), 1)

	c := f.p.Counters()
	assert.Equal(t, uint64(5), c.InterestsReceived)
	assert.Equal(t, uint64(1), c.DroppedNoRoute)
	assert.Equal(t, uint64(1), c.DroppedNexthopIsIngress)
	assert.Equal(t, uint64(2), c.DroppedConnectionNotFound)
	assert.Equal(t, uint64(1), c.SendFailures)
	assert.Equal(t, uint64(0), c.InterestsForwarded)

	// Interests that went nowhere leave no PIT state
	assert.Equal(t, 0, f.p.Pit().Len())
}

func TestObjectDrops(t *testing.T) {
	f := newFixture()
	f.conns.add(3, false)
	f.route("/a", 3)

	f.p.ReceiveRaw(objectWire(t, "/a"), 3)
	assert.Equal(t, uint64(1), f.p.Counters().DroppedNoReversePath)
	assert.Equal(t, 0, f.p.ContentStore().Len())

	// The consumer went away before the object came back
	f.conns.add(1, false)
	f.p.ReceiveRaw(interestWire(t, "/a", 8), 1)
	delete(f.conns, 1)
	f.p.ReceiveRaw(objectWire(t, "/a"), 3)
	assert.Equal(t, uint64(1), f.p.Counters().DroppedConnectionNotFound)
	assert.Equal(t, 1, f.p.ContentStore().Len())
}

type recordingHandler struct {
	received []*ccn.Message
}

func (h *recordingHandler) HandleControl(p *Processor, msg *ccn.Message) {
	h.received = append(h.received, msg)
}

func TestControlAndOtherPackets(t *testing.T) {
	f := newFixture()
	control, err := ccn.EncodeControl([]byte(`{"command":"stats"}`))
	require.NoError(t, err)

	f.p.ReceiveRaw(control, 1)
	assert.Equal(t, uint64(1), f.p.Counters().DroppedControl)

	h := &recordingHandler{}
	f.p.SetControlHandler(h)
	f.p.ReceiveRaw(control, 1)
	require.Len(t, h.received, 1)
	assert.Equal(t, []byte(`{"command":"stats"}`), h.received[0].ControlPayload())
	assert.Equal(t, uint64(1), f.p.Counters().ControlReceived)

	interestReturn := interestWire(t, "/a", 8)
	interestReturn[1] = tlv.PacketTypeInterestReturn
	f.p.ReceiveRaw(interestReturn, 1)
	assert.Equal(t, uint64(1), f.p.Counters().InterestReturnsReceived)
	assert.Equal(t, 0, f.p.Pit().Len())

	f.p.ReceiveRaw([]byte{1, 0, 0}, 1)
	f.p.ReceiveRaw([]byte{7, 0, 0, 8, 0, 0, 0, 8}, 1)
	assert.Equal(t, uint64(2), f.p.Counters().DroppedParseError)
}

func TestMissiveCleanup(t *testing.T) {
	f := newFixture()
	f.conns.add(1, false)
	f.conns.add(3, false)
	f.conns.add(4, false)
	f.route("/a", 3)
	f.route("/a", 4)
	f.p.ReceiveRaw(interestWire(t, "/a", 8), 1)
	assert.Equal(t, 1, f.p.Pit().Len())

	f.p.ProcessMissive(dispatch.Missive{Type: dispatch.MissiveUp, ConnectionID: 1})
	assert.Equal(t, 1, f.p.Pit().Len())

	f.p.ProcessMissive(dispatch.Missive{Type: dispatch.MissiveClosed, ConnectionID: 1})
	assert.Equal(t, 0, f.p.Pit().Len())

	f.p.ProcessMissive(dispatch.Missive{Type: dispatch.MissiveDestroyed, ConnectionID: 3})
	entry, ok := f.p.Fib().FindExact(ccn.MustParseName("/a"))
	require.True(t, ok)
	assert.Equal(t, []table.FibNextHop{{Nexthop: 4}}, entry.Nexthops())
}

func TestTickExpiresEntries(t *testing.T) {
	f := newFixture()
	f.conns.add(1, false)
	f.conns.add(3, false)
	f.route("/a", 3)

	wire, err := (&ccn.InterestFields{
		Name:     ccn.MustParseName("/a"),
		HopLimit: 8,
		Lifetime: time.Second,
	}).Encode()
	require.NoError(t, err)
	f.p.ReceiveRaw(wire, 1)
	assert.Equal(t, 1, f.p.Pit().Len())

	f.p.Tick(f.clock.Advance(500 * time.Millisecond))
	assert.Equal(t, 1, f.p.Pit().Len())
	f.p.Tick(f.clock.Advance(time.Second))
	assert.Equal(t, 0, f.p.Pit().Len())
}

func TestObjectFeedsStrategyRtt(t *testing.T) {
	f := newFixture()
	prefix := ccn.MustParseName("/rtt/fw")
	f.conns.add(1, false)
	f.conns.add(3, false)
	f.route("/rtt/fw", 3)

	f.p.ReceiveRaw(interestWire(t, "/rtt/fw/x", 8), 1)
	f.clock.Advance(30 * time.Millisecond)
	f.p.ReceiveRaw(objectWire(t, "/rtt/fw/x"), 3)

	rtt, ok := table.SmoothedRtt(prefix, 3)
	assert.True(t, ok)
	assert.Equal(t, 30*time.Millisecond, rtt)
	table.ClearRtt(prefix, 3)
}

func TestRttMeasuredFromLastForward(t *testing.T) {
	f := newFixture()
	prefix := ccn.MustParseName("/rtt/refresh")
	f.conns.add(1, false)
	f.conns.add(2, false)
	f.conns.add(3, false)
	f.route("/rtt/refresh", 3)

	lived := func(lifetime time.Duration) []byte {
		wire, err := (&ccn.InterestFields{
			Name:     ccn.MustParseName("/rtt/refresh/x"),
			HopLimit: 8,
			Lifetime: lifetime,
		}).Encode()
		require.NoError(t, err)
		return wire
	}
	f.p.ReceiveRaw(lived(2*time.Second), 1)
	f.clock.Advance(1500 * time.Millisecond)
	// Extends the entry past the threshold, so it goes out again
	f.p.ReceiveRaw(lived(4*time.Second), 2)
	assert.Equal(t, uint64(2), f.p.Counters().InterestsForwarded)

	f.clock.Advance(20 * time.Millisecond)
	f.p.ReceiveRaw(objectWire(t, "/rtt/refresh/x"), 3)
	assert.Equal(t, uint64(2), f.p.Counters().ObjectsForwarded)

	rtt, ok := table.SmoothedRtt(prefix, 3)
	assert.True(t, ok)
	assert.Equal(t, 20*time.Millisecond, rtt)
	table.ClearRtt(prefix, 3)
}
