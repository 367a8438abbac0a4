/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ccn

import (
	"crypto/sha256"
	"strconv"
	"sync"
	"time"

	"github.com/named-data/ccnfwd/ccn/tlv"
	"github.com/named-data/ccnfwd/core"
)

// Message is a received packet: an immutable buffer plus the skeleton of its fields. A Message is shared
// by pointer between the PIT, the Content Store and pending sends and must never be modified. Changes
// such as a hop limit decrement produce a new Message over a copy of the buffer.
type Message struct {
	buf         []byte
	skeleton    *tlv.Skeleton
	ingress     uint64
	receiveTime core.Ticks

	nameOnce sync.Once
	name     Name
	nameErr  error

	hashOnce   sync.Once
	objectHash []byte
}

// NewMessage parses raw and wraps it. The message takes ownership of raw: the caller must not modify it
// afterwards.
func NewMessage(raw []byte, ingress uint64, receiveTime core.Ticks) (*Message, error) {
	skeleton, err := tlv.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &Message{
		buf:         raw,
		skeleton:    skeleton,
		ingress:     ingress,
		receiveTime: receiveTime,
	}, nil
}

func (m *Message) String() string {
	return m.Type().String() + "(" + m.Name().String() + ", ingress=" + strconv.FormatUint(m.ingress, 10) + ")"
}

// Type returns the packet type.
func (m *Message) Type() PacketType {
	return PacketType(m.skeleton.PacketType)
}

// Version returns the wire schema version.
func (m *Message) Version() uint8 {
	return m.skeleton.Version
}

// IngressID returns the ID of the connection the message arrived on.
func (m *Message) IngressID() uint64 {
	return m.ingress
}

// ReceiveTime returns the tick at which the message was received.
func (m *Message) ReceiveTime() core.Ticks {
	return m.receiveTime
}

// Bytes returns the wire encoding. The returned slice must not be modified.
func (m *Message) Bytes() []byte {
	return m.buf
}

// Len returns the length of the wire encoding.
func (m *Message) Len() int {
	return len(m.buf)
}

// Skeleton returns the parsed field extents.
func (m *Message) Skeleton() *tlv.Skeleton {
	return m.skeleton
}

// Field returns the bytes of the given field, or nil if the field is absent.
func (m *Message) Field(kind tlv.FieldKind) []byte {
	return m.skeleton.Extent(kind).Slice(m.buf)
}

// HasName returns whether the message carries a name.
func (m *Message) HasName() bool {
	return m.skeleton.Has(tlv.FieldName)
}

// NameBytes returns the value of the Name TLV, which is the key material for name matching.
func (m *Message) NameBytes() []byte {
	return m.Field(tlv.FieldName)
}

// Name returns the decoded name. A message without a name, or with a malformed one, yields an empty name.
func (m *Message) Name() Name {
	m.nameOnce.Do(func() {
		if m.HasName() {
			m.name, m.nameErr = DecodeName(m.NameBytes())
		}
		if m.name == nil {
			m.name = Name{}
		}
	})
	return m.name
}

// HasKeyID returns whether the message carries KeyId key material: the KeyIdRestriction of an Interest,
// or the validation KeyId of a Content Object.
func (m *Message) HasKeyID() bool {
	return m.skeleton.Has(tlv.FieldKeyId)
}

// KeyID returns the KeyId key material.
func (m *Message) KeyID() []byte {
	return m.Field(tlv.FieldKeyId)
}

// HasObjectHash returns whether the message carries object hash key material. Every Content Object has
// one; Interests only when they carry a ContentObjectHashRestriction.
func (m *Message) HasObjectHash() bool {
	if m.Type() == ContentObject {
		return true
	}
	return m.skeleton.Has(tlv.FieldObjectHash)
}

// ObjectHash returns the hash restriction of an Interest, or the SHA-256 of a Content Object message
// computed from the start of the message TLV to the end of the packet.
func (m *Message) ObjectHash() []byte {
	if m.Type() != ContentObject {
		return m.Field(tlv.FieldObjectHash)
	}
	m.hashOnce.Do(func() {
		sum := sha256.Sum256(m.buf[m.skeleton.MessageOffset:m.skeleton.PacketLength])
		m.objectHash = sum[:]
	})
	return m.objectHash
}

// HopLimit returns the hop limit, if present.
func (m *Message) HopLimit() (uint8, bool) {
	v, ok := tlv.ExtentToVarint(m.buf, m.skeleton.Extent(tlv.FieldHopLimit))
	return uint8(v), ok
}

// WithHopLimit returns a copy of the message with a new hop limit. A message without a hop limit field
// is returned unchanged.
func (m *Message) WithHopLimit(hopLimit uint8) *Message {
	e := m.skeleton.Extent(tlv.FieldHopLimit)
	if !e.Present() {
		return m
	}
	buf := make([]byte, len(m.buf))
	copy(buf, m.buf)
	buf[e.Offset] = hopLimit
	return &Message{
		buf:         buf,
		skeleton:    m.skeleton,
		ingress:     m.ingress,
		receiveTime: m.receiveTime,
	}
}

// InterestLifetime returns the lifetime carried by an Interest, if present.
func (m *Message) InterestLifetime() (time.Duration, bool) {
	v, ok := tlv.ExtentToVarint(m.buf, m.skeleton.Extent(tlv.FieldInterestLifetime))
	return time.Duration(v) * time.Millisecond, ok
}

// RecommendedCacheTime returns the absolute time until which the object may be cached, if present.
func (m *Message) RecommendedCacheTime() (core.Ticks, bool) {
	v, ok := tlv.ExtentToVarint(m.buf, m.skeleton.Extent(tlv.FieldCacheTime))
	return core.Ticks(v), ok
}

// ExpiryTime returns the absolute time after which the object must not be served, if present.
func (m *Message) ExpiryTime() (core.Ticks, bool) {
	v, ok := tlv.ExtentToVarint(m.buf, m.skeleton.Extent(tlv.FieldExpiryTime))
	return core.Ticks(v), ok
}

// ControlPayload returns the body of a control message.
func (m *Message) ControlPayload() []byte {
	return m.Field(tlv.FieldControlPayload)
}
