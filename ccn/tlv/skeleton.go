/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package tlv

import (
	"encoding/binary"
	"fmt"
)

// Skeleton is the set of field extents extracted from a packet. All extents are relative to the buffer
// that was parsed.
type Skeleton struct {
	Version      uint8
	PacketType   uint8
	HeaderLength int
	PacketLength int
	// Offset of the top-level message TLV. The object hash covers the packet from here to its end.
	MessageOffset int
	// Type of the top-level message TLV
	MessageType uint16

	extents [numFieldKinds]Extent
}

// Extent returns the extent of the given field, or NotFound.
func (s *Skeleton) Extent(kind FieldKind) Extent {
	return s.extents[kind]
}

// Has returns whether the packet carries the given field.
func (s *Skeleton) Has(kind FieldKind) bool {
	return s.extents[kind].Present()
}

func (s *Skeleton) set(kind FieldKind, e Extent) {
	s.extents[kind] = e
}

// Parse extracts the skeleton of a packet. It dispatches on the version byte.
func Parse(raw []byte) (*Skeleton, error) {
	if len(raw) < FixedHeaderLength {
		return nil, ErrBufferTooShort
	}
	s := new(Skeleton)
	var err error
	switch raw[0] {
	case SchemaV1:
		err = parseV1(raw, s)
	case SchemaV0:
		err = parseV0(raw, s)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownVersion, raw[0])
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// PeekPacketLength returns the total packet length declared by a fixed header, which is used by stream
// connections to frame packets.
func PeekPacketLength(header []byte) (int, error) {
	if len(header) < FixedHeaderLength {
		return 0, ErrBufferTooShort
	}
	switch header[0] {
	case SchemaV1:
		return int(binary.BigEndian.Uint16(header[2:4])), nil
	case SchemaV0:
		return int(binary.BigEndian.Uint16(header[6:8])) + int(binary.BigEndian.Uint16(header[2:4])), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownVersion, header[0])
	}
}

// Schema v1 fixed header:
//
//	| version | packetType | packetLength (2) | hopLimit | returnCode | flags | headerLength |
func parseV1(raw []byte, s *Skeleton) error {
	s.Version = SchemaV1
	s.PacketType = raw[1]
	s.PacketLength = int(binary.BigEndian.Uint16(raw[2:4]))
	s.HeaderLength = int(raw[7])
	if err := checkLengths(raw, s); err != nil {
		return err
	}

	expected, err := messageTypeFor(s.PacketType)
	if err != nil {
		return err
	}
	if s.PacketType == PacketTypeInterest || s.PacketType == PacketTypeInterestReturn {
		s.set(FieldHopLimit, Extent{Offset: 4, Length: 1})
	}

	packet := raw[:s.PacketLength]
	for off := FixedHeaderLength; off < s.HeaderLength; {
		t, value, next, err := DecodeTypeLength(packet[:s.HeaderLength], off)
		if err != nil {
			return err
		}
		switch t {
		case V1HeaderInterestLifetime:
			s.set(FieldInterestLifetime, value)
		case V1HeaderCacheTime:
			s.set(FieldCacheTime, value)
		}
		off = next
	}

	return parseMessages(packet, s, expected)
}

// Schema v0 fixed header:
//
//	| version | packetType | payloadLength (2) | reserved (2) | headerLength (2) |
//
// The packet length is headerLength + payloadLength and the hop limit travels as an optional header.
func parseV0(raw []byte, s *Skeleton) error {
	s.Version = SchemaV0
	s.PacketType = raw[1]
	s.HeaderLength = int(binary.BigEndian.Uint16(raw[6:8]))
	s.PacketLength = s.HeaderLength + int(binary.BigEndian.Uint16(raw[2:4]))
	if err := checkLengths(raw, s); err != nil {
		return err
	}

	expected, err := messageTypeFor(s.PacketType)
	if err != nil {
		return err
	}

	packet := raw[:s.PacketLength]
	for off := FixedHeaderLength; off < s.HeaderLength; {
		t, value, next, err := DecodeTypeLength(packet[:s.HeaderLength], off)
		if err != nil {
			return err
		}
		switch t {
		case V0HeaderInterestLifetime:
			s.set(FieldInterestLifetime, value)
		case V0HeaderCacheTime:
			s.set(FieldCacheTime, value)
		case V0HeaderHopLimit:
			if value.Length != 1 {
				return fmt.Errorf("%w: hop limit of length %d", ErrUnexpected, value.Length)
			}
			s.set(FieldHopLimit, value)
		}
		off = next
	}

	return parseMessages(packet, s, expected)
}

func checkLengths(raw []byte, s *Skeleton) error {
	if s.PacketLength > len(raw) {
		return ErrBufferTooShort
	}
	if s.PacketLength < len(raw) {
		return fmt.Errorf("%w: declared %d, have %d", ErrLengthMismatch, s.PacketLength, len(raw))
	}
	if s.HeaderLength < FixedHeaderLength || s.HeaderLength > s.PacketLength {
		return fmt.Errorf("%w: %d", ErrBadHeaderLength, s.HeaderLength)
	}
	return nil
}

func messageTypeFor(packetType uint8) (uint16, error) {
	switch packetType {
	case PacketTypeInterest, PacketTypeInterestReturn:
		return TypeInterest, nil
	case PacketTypeContentObject:
		return TypeContentObject, nil
	case PacketTypeControl:
		return TypeControl, nil
	case PacketTypeFragment:
		return TypeFragmentPayload, nil
	default:
		return 0, fmt.Errorf("%w: 0x%02x", ErrUnknownPacketType, packetType)
	}
}

// parseMessages walks the top-level TLVs after the headers.
func parseMessages(packet []byte, s *Skeleton, expected uint16) error {
	found := false
	for off := s.HeaderLength; off < len(packet); {
		t, value, next, err := DecodeTypeLength(packet, off)
		if err != nil {
			return err
		}
		switch t {
		case expected:
			if found {
				return fmt.Errorf("%w: duplicate message 0x%04x", ErrUnexpected, t)
			}
			found = true
			s.MessageOffset = off
			s.MessageType = t
			if err := parseMessageBody(packet, s, value); err != nil {
				return err
			}
		case TypeValidationAlg:
			if err := parseValidationAlg(packet, s, value); err != nil {
				return err
			}
		case TypeValidationPayload:
		default:
			if !found {
				return fmt.Errorf("%w: 0x%04x before message", ErrUnexpected, t)
			}
		}
		off = next
	}
	if !found {
		return ErrMissingMessage
	}
	return nil
}

func parseMessageBody(packet []byte, s *Skeleton, body Extent) error {
	switch s.MessageType {
	case TypeControl:
		s.set(FieldControlPayload, body)
		return nil
	case TypeFragmentPayload:
		s.set(FieldFragmentPayload, body)
		return nil
	}

	scope := packet[:body.End()]
	for off := body.Offset; off < body.End(); {
		t, value, next, err := DecodeTypeLength(scope, off)
		if err != nil {
			return err
		}
		switch t {
		case TypeName:
			s.set(FieldName, value)
		case TypeKeyIdRestriction:
			if s.MessageType == TypeInterest {
				s.set(FieldKeyId, value)
			}
		case TypeObjectHashRestriction:
			if s.MessageType == TypeInterest {
				s.set(FieldObjectHash, value)
			}
		case TypeExpiryTime:
			if s.MessageType == TypeContentObject {
				s.set(FieldExpiryTime, value)
			}
		}
		off = next
	}
	return nil
}

// parseValidationAlg records the KeyId, public key and certificate carried by the crypto suite TLV.
// For Interests the KeyId field is the restriction, never the signer.
func parseValidationAlg(packet []byte, s *Skeleton, alg Extent) error {
	scope := packet[:alg.End()]
	for off := alg.Offset; off < alg.End(); {
		_, suite, next, err := DecodeTypeLength(scope, off)
		if err != nil {
			return err
		}
		inner := packet[:suite.End()]
		for ioff := suite.Offset; ioff < suite.End(); {
			t, value, inext, err := DecodeTypeLength(inner, ioff)
			if err != nil {
				return err
			}
			switch t {
			case TypeKeyId:
				if s.MessageType == TypeContentObject {
					s.set(FieldKeyId, value)
				}
			case TypePublicKey:
				s.set(FieldPublicKey, value)
			case TypeCert:
				s.set(FieldCertificate, value)
			}
			ioff = inext
		}
		off = next
	}
	return nil
}
