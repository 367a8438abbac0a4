package face_test

import (
	"net"
	"testing"

	"github.com/named-data/ccnfwd/face"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTCP(t *testing.T) {
	uri, err := face.ParseURI("tcp://127.0.0.1:9695")
	require.NoError(t, err)
	assert.Equal(t, "tcp", uri.Scheme())
	assert.Equal(t, "127.0.0.1", uri.Host())
	assert.Equal(t, uint16(9695), uri.Port())
	assert.Equal(t, "tcp", uri.Network())
	assert.Equal(t, "127.0.0.1:9695", uri.Address())
	assert.True(t, uri.IsLocal())
	assert.Equal(t, "tcp://127.0.0.1:9695", uri.String())

	uri, err = face.ParseURI("tcp6://[2001:db8::1]:6363")
	require.NoError(t, err)
	assert.Equal(t, "2001:db8::1", uri.Host())
	assert.False(t, uri.IsLocal())
	assert.Equal(t, "tcp6://[2001:db8::1]:6363", uri.String())
}

func TestParseUDP(t *testing.T) {
	uri, err := face.ParseURI("UDP://192.0.2.1:9695")
	require.NoError(t, err)
	assert.Equal(t, "udp", uri.Scheme())
	assert.False(t, uri.IsLocal())
	assert.Equal(t, "udp://192.0.2.1:9695", uri.String())
}

func TestParseWebSocket(t *testing.T) {
	uri, err := face.ParseURI("ws://localhost:9696/ccnx")
	require.NoError(t, err)
	assert.Equal(t, "ws", uri.Scheme())
	assert.Equal(t, "tcp", uri.Network())
	assert.Equal(t, "/ccnx", uri.Path())
	assert.True(t, uri.IsLocal())
	assert.Equal(t, "ws://localhost:9696/ccnx", uri.String())
}

func TestParseUnix(t *testing.T) {
	uri, err := face.ParseURI("unix:///run/ccnfwd.sock")
	require.NoError(t, err)
	assert.Equal(t, "/run/ccnfwd.sock", uri.Path())
	assert.Equal(t, "/run/ccnfwd.sock", uri.Address())
	assert.True(t, uri.IsLocal())
	assert.Equal(t, "unix:///run/ccnfwd.sock", uri.String())

	_, err = face.ParseURI("unix://")
	assert.ErrorIs(t, err, face.ErrBadURI)
}

func TestParseEther(t *testing.T) {
	uri, err := face.ParseURI("ether://eth0")
	require.NoError(t, err)
	assert.Equal(t, "eth0", uri.Host())
	assert.False(t, uri.IsLocal())
	assert.Equal(t, "ether://eth0", uri.String())
	assert.Equal(t, face.MakeEtherURI("eth0").String(), uri.String())
}

func TestParseFD(t *testing.T) {
	uri, err := face.ParseURI("fd://3")
	require.NoError(t, err)
	assert.True(t, uri.IsLocal())
	assert.Equal(t, face.MakeFDURI(3).String(), uri.String())

	_, err = face.ParseURI("fd://abc")
	assert.ErrorIs(t, err, face.ErrBadURI)
}

func TestParseErrors(t *testing.T) {
	_, err := face.ParseURI("http://example.com:80")
	assert.ErrorIs(t, err, face.ErrUnknownScheme)

	_, err = face.ParseURI("tcp://127.0.0.1")
	assert.ErrorIs(t, err, face.ErrBadURI)

	_, err = face.ParseURI("udp://127.0.0.1:99999")
	assert.ErrorIs(t, err, face.ErrBadURI)
}

func TestMakeAddrURI(t *testing.T) {
	uri := face.MakeAddrURI("udp", &net.UDPAddr{IP: net.ParseIP("10.0.0.1"), Port: 5000})
	assert.Equal(t, "udp://10.0.0.1:5000", uri.String())
	assert.False(t, uri.IsLocal())

	uri = face.MakeAddrURI("tcp", &net.TCPAddr{IP: net.IPv6loopback, Port: 9695})
	assert.Equal(t, "tcp://[::1]:9695", uri.String())
	assert.True(t, uri.IsLocal())

	uri = face.MakeAddrURI("unix", &net.UnixAddr{Name: "/tmp/x.sock", Net: "unix"})
	assert.Equal(t, "unix:///tmp/x.sock", uri.String())
}
