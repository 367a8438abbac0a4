/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"bytes"
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/named-data/ccnfwd/ccn/tlv"
	"github.com/named-data/ccnfwd/core"
	"github.com/named-data/ccnfwd/face/impl"
)

// EthernetConnection sends CCNx packets in Ethernet frames to a group address on one interface, and
// receives every CCNx frame seen on it.
type EthernetConnection struct {
	connectionBase
	handle   impl.PacketHandle
	localMAC net.HardwareAddr
	groupMAC net.HardwareAddr
}

// NewEthernetConnection opens a link-layer connection on the interface.
func NewEthernetConnection(ifname string) (*EthernetConnection, error) {
	iface, err := net.InterfaceByName(ifname)
	if err != nil {
		return nil, err
	}
	handle, err := impl.OpenPacketHandle(ifname, ccnxEtherType)
	if err != nil {
		return nil, err
	}
	return newEthernetConnection(handle, ifname, iface.HardwareAddr), nil
}

func newEthernetConnection(handle impl.PacketHandle, ifname string, localMAC net.HardwareAddr) *EthernetConnection {
	c := &EthernetConnection{
		handle:   handle,
		localMAC: localMAC,
		groupMAC: ethernetGroupAddress,
	}
	uri := MakeEtherURI(ifname)
	c.init(c, uri, uri, PersistencyPersistent)
	return c
}

func (c *EthernetConnection) String() string {
	return "EthernetConnection, ConnectionID=" + itoa(c.ID()) + ", RemoteURI=" + c.remoteURI.String()
}

func (c *EthernetConnection) start() {
	c.changeState(Up)
	go c.runSend(c.sendFrame)
	go c.runReceive()
}

func (c *EthernetConnection) sendFrame(frame []byte) error {
	eth := layers.Ethernet{
		SrcMAC:       c.localMAC,
		DstMAC:       c.groupMAC,
		EthernetType: layers.EthernetType(ccnxEtherType),
	}
	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{FixLengths: true}, &eth,
		gopacket.Payload(frame)); err != nil {
		return err
	}
	return c.handle.WritePacketData(buf.Bytes())
}

func (c *EthernetConnection) runReceive() {
	source := gopacket.NewPacketSource(c.handle, c.handle.LinkType())
	for packet := range source.Packets() {
		layer := packet.Layer(layers.LayerTypeEthernet)
		if layer == nil {
			continue
		}
		eth := layer.(*layers.Ethernet)
		if eth.EthernetType != layers.EthernetType(ccnxEtherType) || bytes.Equal(eth.SrcMAC, c.localMAC) {
			continue
		}
		if frame, ok := trimDatagram(eth.Payload); ok {
			c.receive(frame)
		} else {
			core.LogDebug(c, "Received invalid frame of size ", len(eth.Payload), " from ", eth.SrcMAC, " - DROP")
		}
	}
	if !c.closed() {
		core.LogWarn(c, "Packet source closed")
		c.Close()
	}
}

// Close closes the packet socket and removes the connection from its table.
func (c *EthernetConnection) Close() error {
	return c.close(func() error {
		c.handle.Close()
		return nil
	})
}

// trimDatagram returns the packet at the start of a datagram or frame, without link padding.
func trimDatagram(data []byte) ([]byte, bool) {
	size, err := tlv.PeekPacketLength(data)
	if err != nil || size < tlv.FixedHeaderLength || size > len(data) || size > maxPacketSize {
		return nil, false
	}
	return data[:size], true
}
