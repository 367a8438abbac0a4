/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package tlv

import "strconv"

// Extent locates a field inside a packet buffer.
type Extent struct {
	Offset int
	Length int
}

// NotFound is the extent of a field absent from the packet.
var NotFound = Extent{}

// Present returns whether the extent refers to a field in the packet. No field can start at offset 0,
// which is always occupied by the fixed header.
func (e Extent) Present() bool {
	return e != NotFound
}

// End returns the offset just past the extent.
func (e Extent) End() int {
	return e.Offset + e.Length
}

// Within returns whether the extent lies inside a buffer of the given size.
func (e Extent) Within(size int) bool {
	return e.Offset >= 0 && e.Length >= 0 && e.End() <= size
}

// Slice returns the bytes of buf covered by the extent, or nil if the extent is absent or out of range.
func (e Extent) Slice(buf []byte) []byte {
	if !e.Present() || !e.Within(len(buf)) {
		return nil
	}
	return buf[e.Offset:e.End()]
}

func (e Extent) String() string {
	return "{" + strconv.Itoa(e.Offset) + "," + strconv.Itoa(e.Length) + "}"
}

// FieldKind names one of the fields a skeleton records.
type FieldKind int

// Field kinds.
const (
	FieldName FieldKind = iota
	FieldKeyId
	FieldObjectHash
	FieldHopLimit
	FieldInterestLifetime
	FieldCacheTime
	FieldExpiryTime
	FieldControlPayload
	FieldFragmentPayload
	FieldCertificate
	FieldPublicKey
	numFieldKinds
)

var fieldKindNames = [numFieldKinds]string{
	"name", "keyid", "objectHash", "hopLimit", "interestLifetime", "cacheTime", "expiryTime",
	"controlPayload", "fragmentPayload", "certificate", "publicKey",
}

func (k FieldKind) String() string {
	if k < 0 || k >= numFieldKinds {
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
	return fieldKindNames[k]
}
