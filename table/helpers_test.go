package table

import (
	"testing"
	"time"

	"github.com/named-data/ccnfwd/ccn"
	"github.com/named-data/ccnfwd/core"
	"github.com/stretchr/testify/require"
)

func makeInterest(t *testing.T, fields ccn.InterestFields, ingress uint64) *ccn.Message {
	if fields.HopLimit == 0 {
		fields.HopLimit = ccn.DefaultHopLimit
	}
	wire, err := fields.Encode()
	require.NoError(t, err)
	msg, err := ccn.NewMessage(wire, ingress, 0)
	require.NoError(t, err)
	return msg
}

func makeNamedInterest(t *testing.T, uri string, ingress uint64) *ccn.Message {
	return makeInterest(t, ccn.InterestFields{Name: ccn.MustParseName(uri)}, ingress)
}

func makeLivingInterest(t *testing.T, uri string, ingress uint64, lifetime time.Duration) *ccn.Message {
	return makeInterest(t, ccn.InterestFields{Name: ccn.MustParseName(uri), Lifetime: lifetime}, ingress)
}

func makeObject(t *testing.T, fields ccn.ContentObjectFields, ingress uint64) *ccn.Message {
	wire, err := fields.Encode()
	require.NoError(t, err)
	msg, err := ccn.NewMessage(wire, ingress, 0)
	require.NoError(t, err)
	return msg
}

func makeNamedObject(t *testing.T, uri string, payload string) *ccn.Message {
	return makeObject(t, ccn.ContentObjectFields{Name: ccn.MustParseName(uri), Payload: []byte(payload)}, 0)
}

func ticks(d time.Duration) core.Ticks {
	return core.TicksFromDuration(d)
}

// stubStrategy forwards to every nexthop and records the calls it receives.
type stubStrategy struct {
	name      string
	nexthops  NumberSet
	destroyed bool
	objects   int
}

func (s *stubStrategy) Name() string {
	return s.name
}

func (s *stubStrategy) ReceiveObject(egress uint64, object *ccn.Message, rtt time.Duration) {
	s.objects++
}

func (s *stubStrategy) LookupNexthops(interest *ccn.Message) NumberSet {
	return s.nexthops.Clone()
}

func (s *stubStrategy) AddNexthop(route Route) {
	s.nexthops.Add(route.ConnectionID)
}

func (s *stubStrategy) RemoveNexthop(route Route) {
	s.nexthops.Remove(route.ConnectionID)
}

func (s *stubStrategy) Nexthops() NumberSet {
	return s.nexthops.Clone()
}

func (s *stubStrategy) Destroy() {
	s.destroyed = true
}

type stubFactory struct {
	created []*stubStrategy
}

func (f *stubFactory) New(name string, prefix ccn.Name) (Strategy, error) {
	if name == "broken" {
		return nil, ErrNoSuchEntry
	}
	s := &stubStrategy{name: name}
	f.created = append(f.created, s)
	return s, nil
}
