package mgmt

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/named-data/ccnfwd/ccn"
	"github.com/named-data/ccnfwd/core"
	"github.com/named-data/ccnfwd/dispatch"
	"github.com/named-data/ccnfwd/fw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConnection struct {
	id    uint64
	local bool
	sent  []*ccn.Message
}

func (c *fakeConnection) String() string {
	return "FakeConnection"
}

func (c *fakeConnection) ID() uint64 {
	return c.id
}

func (c *fakeConnection) IsUp() bool {
	return true
}

func (c *fakeConnection) IsLocal() bool {
	return c.local
}

func (c *fakeConnection) Send(msg *ccn.Message) bool {
	c.sent = append(c.sent, msg)
	return true
}

type fakeConnectionTable map[uint64]*fakeConnection

func (t fakeConnectionTable) Get(id uint64) dispatch.Connection {
	if c, ok := t[id]; ok {
		return c
	}
	return nil
}

type rawResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Body    json.RawMessage `json:"body"`
}

type mgmtFixture struct {
	conns fakeConnectionTable
	clock *core.ManualClock
	p     *fw.Processor
	m     *Manager
}

func newMgmtFixture() *mgmtFixture {
	f := &mgmtFixture{conns: fakeConnectionTable{
		1: {id: 1, local: true},
		2: {id: 2, local: false},
		3: {id: 3, local: true},
	}}
	f.clock = core.NewManualClock(1000)
	f.p = fw.NewProcessor(f.conns, f.clock)
	f.m = NewManager(nil, nil)
	f.p.SetControlHandler(f.m)
	return f
}

// command sends a command as a Control message received on connection id and returns the response.
func (f *mgmtFixture) command(t *testing.T, id uint64, body string) rawResponse {
	raw, err := ccn.EncodeControl([]byte(body))
	require.NoError(t, err)
	f.p.ReceiveRaw(raw, id)

	conn := f.conns[id]
	require.NotEmpty(t, conn.sent)
	resp := conn.sent[len(conn.sent)-1]
	assert.Equal(t, ccn.Control, resp.Type())
	var r rawResponse
	require.NoError(t, json.Unmarshal(resp.ControlPayload(), &r))
	return r
}

func TestAddListRemoveRoute(t *testing.T) {
	f := newMgmtFixture()

	r := f.command(t, 1, `{"command": "add-route", "prefix": "ccnx:/a/b", "cost": 7}`)
	assert.Equal(t, 200, r.Status)
	var nh NexthopRecord
	require.NoError(t, json.Unmarshal(r.Body, &nh))
	// Connection 0 is the requester
	assert.Equal(t, NexthopRecord{Connection: 1, Cost: 7}, nh)

	r = f.command(t, 1, `{"command": "add-route", "prefix": "ccnx:/a/b", "connection": 3}`)
	assert.Equal(t, 200, r.Status)

	r = f.command(t, 1, `{"command": "list-routes"}`)
	assert.Equal(t, 200, r.Status)
	var routes []RouteRecord
	require.NoError(t, json.Unmarshal(r.Body, &routes))
	require.Len(t, routes, 1)
	assert.Equal(t, "ccnx:/a/b", routes[0].Prefix)
	assert.Equal(t, "all", routes[0].Strategy)
	assert.Equal(t, []NexthopRecord{{Connection: 1, Cost: 7}, {Connection: 3, Cost: 0}}, routes[0].Nexthops)

	r = f.command(t, 1, `{"command": "remove-route", "prefix": "ccnx:/a/b", "connection": 3}`)
	assert.Equal(t, 200, r.Status)
	r = f.command(t, 1, `{"command": "remove-route", "prefix": "ccnx:/a/b", "connection": 3}`)
	assert.Equal(t, 404, r.Status)
	r = f.command(t, 1, `{"command": "remove-route", "prefix": "ccnx:/nothing"}`)
	assert.Equal(t, 404, r.Status)

	nexthops := f.p.Fib().Match(makeInterest(t, "ccnx:/a/b/c"))
	assert.Equal(t, []uint64{1}, nexthops.Slice())
}

func TestListRoutesReportsRtt(t *testing.T) {
	f := newMgmtFixture()
	r := f.command(t, 1, `{"command": "add-route", "prefix": "ccnx:/rtt", "connection": 1, "cost": 2}`)
	require.Equal(t, 200, r.Status)

	interest, err := (&ccn.InterestFields{Name: ccn.MustParseName("ccnx:/rtt/x"), HopLimit: 8}).Encode()
	require.NoError(t, err)
	f.p.ReceiveRaw(interest, 3)
	f.clock.Advance(30 * time.Millisecond)
	object, err := (&ccn.ContentObjectFields{Name: ccn.MustParseName("ccnx:/rtt/x"), Payload: []byte("x")}).Encode()
	require.NoError(t, err)
	f.p.ReceiveRaw(object, 1)
	require.Len(t, f.conns[3].sent, 1)

	r = f.command(t, 1, `{"command": "list-routes"}`)
	var routes []RouteRecord
	require.NoError(t, json.Unmarshal(r.Body, &routes))
	require.Len(t, routes, 1)
	require.Len(t, routes[0].Nexthops, 1)
	nh := routes[0].Nexthops[0]
	assert.Equal(t, uint64(1), nh.Connection)
	assert.Equal(t, 1, nh.RttSamples)
	assert.InDelta(t, 30.0, nh.SmoothedRttMs, 0.001)
}

func TestAddRouteUnknownConnection(t *testing.T) {
	f := newMgmtFixture()
	r := f.command(t, 1, `{"command": "add-route", "prefix": "ccnx:/a", "connection": 42}`)
	assert.Equal(t, 404, r.Status)
	assert.Equal(t, 0, f.p.Fib().Len())
}

func TestRemoteRejected(t *testing.T) {
	f := newMgmtFixture()
	r := f.command(t, 2, `{"command": "add-route", "prefix": "ccnx:/a"}`)
	assert.Equal(t, 403, r.Status)
	assert.Equal(t, 0, f.p.Fib().Len())

	allowRemote = true
	defer func() { allowRemote = false }()
	r = f.command(t, 2, `{"command": "add-route", "prefix": "ccnx:/a"}`)
	assert.Equal(t, 200, r.Status)
	assert.Equal(t, 1, f.p.Fib().Len())
}

func TestInvalidCommands(t *testing.T) {
	f := newMgmtFixture()

	r := f.command(t, 1, `not json`)
	assert.Equal(t, 400, r.Status)
	r = f.command(t, 1, `{"command": "add-route"}`)
	assert.Equal(t, 400, r.Status)
	assert.Contains(t, r.Message, "prefix")
	r = f.command(t, 1, `{"command": "add-route", "prefix": "ccnx:/a", "cost": 70000}`)
	assert.Equal(t, 400, r.Status)
	r = f.command(t, 1, `{"command": "reboot"}`)
	assert.Equal(t, 400, r.Status)

	resp := f.m.Execute(f.p, &Command{Command: "reboot"})
	assert.Equal(t, 501, resp.Status)
	assert.Equal(t, uint64(4), f.p.Counters().ControlReceived)
}

func TestStrategyChoice(t *testing.T) {
	f := newMgmtFixture()

	r := f.command(t, 1, `{"command": "set-strategy", "prefix": "ccnx:/a", "strategy": "random"}`)
	assert.Equal(t, 404, r.Status)
	f.command(t, 1, `{"command": "add-route", "prefix": "ccnx:/a"}`)
	r = f.command(t, 1, `{"command": "set-strategy", "prefix": "ccnx:/a", "strategy": "nonexistent"}`)
	assert.Equal(t, 404, r.Status)
	r = f.command(t, 1, `{"command": "set-strategy", "prefix": "ccnx:/a", "strategy": "random"}`)
	assert.Equal(t, 200, r.Status)

	r = f.command(t, 1, `{"command": "list-strategies"}`)
	assert.Equal(t, 200, r.Status)
	var list StrategyList
	require.NoError(t, json.Unmarshal(r.Body, &list))
	assert.Equal(t, []string{"all", "loadbalancer", "random"}, list.Available)
	assert.Equal(t, "all", list.Default)
	assert.Equal(t, []StrategyChoice{{Prefix: "ccnx:/a", Strategy: "random"}}, list.Choices)
}

func TestContentStoreCommands(t *testing.T) {
	f := newMgmtFixture()

	r := f.command(t, 1, `{"command": "cache-capacity", "capacity": 10}`)
	assert.Equal(t, 200, r.Status)
	var info ContentStoreInfo
	require.NoError(t, json.Unmarshal(r.Body, &info))
	assert.Equal(t, 10, info.Capacity)
	assert.True(t, info.Admit)
	assert.True(t, info.Serve)
	assert.Equal(t, 10, f.p.ContentStore().Capacity())

	f.p.ContentStore().Save(makeObject(t, "ccnx:/cached"), f.p.Now())
	assert.Equal(t, 1, f.p.ContentStore().Len())
	r = f.command(t, 1, `{"command": "cache-clear"}`)
	assert.Equal(t, 200, r.Status)
	assert.Equal(t, 0, f.p.ContentStore().Len())

	r = f.command(t, 1, `{"command": "cache-capacity"}`)
	assert.Equal(t, 400, r.Status)
}

func TestStats(t *testing.T) {
	f := newMgmtFixture()
	f.p.ReceiveRaw([]byte{0xff}, 1)

	r := f.command(t, 1, `{"command": "stats"}`)
	assert.Equal(t, 200, r.Status)
	var status ForwarderStatus
	require.NoError(t, json.Unmarshal(r.Body, &status))
	assert.Equal(t, core.Version, status.Version)
	assert.Equal(t, uint64(1), status.Counters.DroppedParseError)
	assert.Equal(t, uint64(1), status.Counters.ControlReceived)
	assert.Equal(t, 0, status.PitEntries)
	assert.Equal(t, 65536, status.ContentStore.Capacity)
}

func TestConnectionCommandsUnavailable(t *testing.T) {
	f := newMgmtFixture()
	for _, cmd := range []string{
		`{"command": "list-connections"}`,
		`{"command": "create-connection", "uri": "udp://127.0.0.1:9695"}`,
		`{"command": "add-listener", "uri": "udp://127.0.0.1:0"}`,
		`{"command": "list-listeners"}`,
	} {
		r := f.command(t, 1, cmd)
		assert.Equal(t, 503, r.Status, cmd)
	}
}

func makeInterest(t *testing.T, name string) *ccn.Message {
	raw, err := (&ccn.InterestFields{Name: ccn.MustParseName(name), HopLimit: 8}).Encode()
	require.NoError(t, err)
	msg, err := ccn.NewMessage(raw, 1, 0)
	require.NoError(t, err)
	return msg
}

func makeObject(t *testing.T, name string) *ccn.Message {
	raw, err := (&ccn.ContentObjectFields{Name: ccn.MustParseName(name), Payload: []byte("x")}).Encode()
	require.NoError(t, err)
	msg, err := ccn.NewMessage(raw, 1, 0)
	require.NoError(t, err)
	return msg
}
