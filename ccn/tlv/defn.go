/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package tlv

// Wire schema versions.
const (
	SchemaV0 uint8 = 0
	SchemaV1 uint8 = 1
)

// FixedHeaderLength is the size of the fixed header in both schemas.
const FixedHeaderLength = 8

// TypeLengthSize is the size of the type and length fields of a TLV.
const TypeLengthSize = 4

// MaxPacketLength is the largest packet length representable in the fixed header.
const MaxPacketLength = 0xFFFF

// Packet types carried in the fixed header.
const (
	PacketTypeInterest       uint8 = 0x00
	PacketTypeContentObject  uint8 = 0x01
	PacketTypeInterestReturn uint8 = 0x02
	PacketTypeFragment       uint8 = 0x03 // schema v0 only
	PacketTypeControl        uint8 = 0xA4
)

// Hop-by-hop header types, schema v1.
const (
	V1HeaderInterestLifetime uint16 = 0x0001
	V1HeaderCacheTime        uint16 = 0x0002
)

// Hop-by-hop header types, schema v0.
const (
	V0HeaderInterestLifetime uint16 = 0x0002
	V0HeaderCacheTime        uint16 = 0x0004
	V0HeaderHopLimit         uint16 = 0x0005
)

// Top-level message types.
const (
	TypeInterest          uint16 = 0x0001
	TypeContentObject     uint16 = 0x0002
	TypeValidationAlg     uint16 = 0x0003
	TypeValidationPayload uint16 = 0x0004
	TypeFragmentPayload   uint16 = 0x0005
	TypeControl           uint16 = 0xBEEF
)

// Message body types.
const (
	TypeName                  uint16 = 0x0000
	TypePayload               uint16 = 0x0001
	TypeKeyIdRestriction      uint16 = 0x0002
	TypeObjectHashRestriction uint16 = 0x0003
	TypePayloadType           uint16 = 0x0005
	TypeExpiryTime            uint16 = 0x0006
)

// Name segment types.
const (
	TypeNameSegment uint16 = 0x0001
	TypePayloadId   uint16 = 0x0002
	TypeAppMin      uint16 = 0x1000
)

// Validation algorithm types.
const (
	TypeCrc32c     uint16 = 0x0002
	TypeHmacSha256 uint16 = 0x0004
	TypeRsaSha256  uint16 = 0x0006
	TypeEcSecp256  uint16 = 0x0007
	TypeKeyId      uint16 = 0x0009
	TypePublicKey  uint16 = 0x000B
	TypeCert       uint16 = 0x000C
)
