package face

import (
	"bytes"
	"io"
	"net"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadStreamSplitsPackets(t *testing.T) {
	a := encodeInterest(t, "ccnx:/a")
	b := encodeInterest(t, "ccnx:/b/c")
	stream := append(append([]byte{}, a...), b...)

	var frames [][]byte
	err := readStream(iotest.OneByteReader(bytes.NewReader(stream)), make([]byte, recvBufferSize()),
		func(frame []byte) {
			frames = append(frames, append([]byte{}, frame...))
		})
	assert.ErrorIs(t, err, io.EOF)
	require.Len(t, frames, 2)
	assert.Equal(t, a, frames[0])
	assert.Equal(t, b, frames[1])
}

func TestReadStreamBadLength(t *testing.T) {
	bad := encodeInterest(t, "ccnx:/a")
	// Packet length smaller than the fixed header
	bad[2] = 0
	bad[3] = 4
	err := readStream(bytes.NewReader(bad), make([]byte, recvBufferSize()), func([]byte) {})
	assert.ErrorIs(t, err, ErrBadPacketLength)
}

func TestTCPLoopback(t *testing.T) {
	table := NewTable()
	thread := newFakeThread()
	table.SetThread(thread)
	listeners := NewListeners(table)

	l, err := listeners.Add("tcp://127.0.0.1:0")
	require.NoError(t, err)
	assert.Equal(t, []string{"tcp://127.0.0.1:0"}, listeners.List())
	_, err = listeners.Add("tcp://127.0.0.1:0")
	assert.ErrorIs(t, err, ErrListenerExists)

	client, err := net.Dial("tcp", l.URI().Address())
	require.NoError(t, err)
	defer client.Close()

	interest := encodeInterest(t, "ccnx:/loopback")
	_, err = client.Write(interest)
	require.NoError(t, err)
	p := thread.next(t)
	assert.Equal(t, interest, p.raw)

	conn := table.GetConnection(p.ingress)
	require.NotNil(t, conn)
	assert.Equal(t, PersistencyOnDemand, conn.Persistency())
	assert.True(t, conn.IsLocal())
	assert.Equal(t, "tcp", conn.RemoteURI().Scheme())

	reply := encodeInterest(t, "ccnx:/reply")
	assert.True(t, conn.Send(makeMessage(t, reply)))
	buf := make([]byte, len(reply))
	_, err = io.ReadFull(client, buf)
	require.NoError(t, err)
	assert.Equal(t, reply, buf)

	// Peer hangs up
	client.Close()
	assertEventually(t, func() bool { return table.Len() == 0 })

	assert.NoError(t, listeners.Remove("tcp://127.0.0.1:0"))
	assert.ErrorIs(t, listeners.Remove("tcp://127.0.0.1:0"), ErrNoSuchListener)
	assert.NoError(t, listeners.CloseAll())
}

func TestUnixLoopback(t *testing.T) {
	table := NewTable()
	thread := newFakeThread()
	table.SetThread(thread)
	listeners := NewListeners(table)

	sock := t.TempDir() + "/ccnfwd.sock"
	l, err := listeners.Add("unix://" + sock)
	require.NoError(t, err)

	client, err := net.Dial("unix", l.URI().Path())
	require.NoError(t, err)
	defer client.Close()

	interest := encodeInterest(t, "ccnx:/unix")
	_, err = client.Write(interest)
	require.NoError(t, err)
	p := thread.next(t)
	assert.Equal(t, interest, p.raw)

	conn := table.GetConnection(p.ingress)
	require.NotNil(t, conn)
	assert.Equal(t, "fd://1", conn.RemoteURI().String())
	assert.True(t, conn.IsLocal())

	assert.NoError(t, listeners.CloseAll())
	table.CloseAll()
}

func TestDialStream(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	table := NewTable()
	thread := newFakeThread()
	table.SetThread(thread)
	conn, err := Dial(table, "tcp://"+ln.Addr().String())
	require.NoError(t, err)
	assert.Equal(t, PersistencyPersistent, conn.Persistency())
	again, err := Dial(table, "tcp://"+ln.Addr().String())
	require.NoError(t, err)
	assert.Equal(t, conn.ID(), again.ID())

	peer := <-accepted
	defer peer.Close()
	interest := encodeInterest(t, "ccnx:/dialed")
	_, err = peer.Write(interest)
	require.NoError(t, err)
	p := thread.next(t)
	assert.Equal(t, conn.ID(), p.ingress)
	assert.Equal(t, interest, p.raw)

	table.CloseAll()
}
