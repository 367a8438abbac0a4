package face

import (
	"sync"
	"testing"
	"time"

	"github.com/named-data/ccnfwd/ccn"
	"github.com/named-data/ccnfwd/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queuedPacket struct {
	raw     []byte
	ingress uint64
}

type fakeThread struct {
	packets chan queuedPacket
}

func newFakeThread() *fakeThread {
	return &fakeThread{packets: make(chan queuedPacket, 64)}
}

func (t *fakeThread) String() string {
	return "FakeThread"
}

func (t *fakeThread) QueuePacket(raw []byte, ingress uint64) {
	t.packets <- queuedPacket{raw: raw, ingress: ingress}
}

func (t *fakeThread) next(tb testing.TB) queuedPacket {
	select {
	case p := <-t.packets:
		return p
	case <-time.After(2 * time.Second):
		tb.Fatal("no packet queued")
		return queuedPacket{}
	}
}

// memConnection is a connection without a transport. Sent frames are recorded.
type memConnection struct {
	connectionBase
	mutex sync.Mutex
	sent  [][]byte
}

func newMemConnection(remote string) *memConnection {
	uri, err := ParseURI(remote)
	if err != nil {
		panic(err)
	}
	c := &memConnection{}
	c.init(c, uri, uri, PersistencyPersistent)
	return c
}

func (c *memConnection) String() string {
	return "MemConnection, ConnectionID=" + itoa(c.ID())
}

func (c *memConnection) start() {
	c.changeState(Up)
	go c.runSend(func(frame []byte) error {
		c.mutex.Lock()
		defer c.mutex.Unlock()
		c.sent = append(c.sent, frame)
		return nil
	})
}

func (c *memConnection) sentCount() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.sent)
}

func (c *memConnection) Close() error {
	return c.close(func() error { return nil })
}

func nextMissive(tb testing.TB, table *Table) dispatch.Missive {
	select {
	case m := <-table.Missives():
		return m
	case <-time.After(2 * time.Second):
		tb.Fatal("no missive")
		return dispatch.Missive{}
	}
}

func encodeInterest(t *testing.T, name string) []byte {
	raw, err := (&ccn.InterestFields{Name: ccn.MustParseName(name), HopLimit: 8}).Encode()
	require.NoError(t, err)
	return raw
}

func makeMessage(t *testing.T, raw []byte) *ccn.Message {
	msg, err := ccn.NewMessage(raw, 0, 0)
	require.NoError(t, err)
	return msg
}

func assertEventually(t *testing.T, condition func() bool) {
	assert.Eventually(t, condition, 2*time.Second, 10*time.Millisecond)
}
