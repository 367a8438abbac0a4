/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ccn

import (
	"encoding/binary"
	"time"

	"github.com/named-data/ccnfwd/ccn/tlv"
	"github.com/named-data/ccnfwd/core"
)

// DefaultHopLimit is the hop limit of Interests built without one.
const DefaultHopLimit = 255

// InterestFields describes an Interest to encode.
type InterestFields struct {
	Name                  Name
	KeyIdRestriction      []byte
	ObjectHashRestriction []byte
	// Zero means no lifetime header
	Lifetime time.Duration
	HopLimit uint8
	Payload  []byte
}

// ContentObjectFields describes a Content Object to encode.
type ContentObjectFields struct {
	Name    Name
	Payload []byte
	// Zero means absent
	ExpiryTime core.Ticks
	// Zero means absent
	RecommendedCacheTime core.Ticks
	// If set, the object carries a validation section with this KeyId.
	KeyId     []byte
	PublicKey []byte
}

// Encode builds a schema v1 Interest.
func (i *InterestFields) Encode() ([]byte, error) {
	var headers []byte
	if i.Lifetime > 0 {
		headers = tlv.AppendNNI(headers, tlv.V1HeaderInterestLifetime, uint64(i.Lifetime/time.Millisecond))
	}

	var body []byte
	body = tlv.AppendTLV(body, tlv.TypeName, i.Name.Encode())
	if len(i.Payload) > 0 {
		body = tlv.AppendTLV(body, tlv.TypePayload, i.Payload)
	}
	if i.KeyIdRestriction != nil {
		body = tlv.AppendTLV(body, tlv.TypeKeyIdRestriction, i.KeyIdRestriction)
	}
	if i.ObjectHashRestriction != nil {
		body = tlv.AppendTLV(body, tlv.TypeObjectHashRestriction, i.ObjectHashRestriction)
	}
	message := tlv.AppendTLV(nil, tlv.TypeInterest, body)
	return encodeV1(tlv.PacketTypeInterest, i.HopLimit, headers, message)
}

// Encode builds a schema v1 Content Object.
func (o *ContentObjectFields) Encode() ([]byte, error) {
	var headers []byte
	if o.RecommendedCacheTime != 0 {
		headers = tlv.AppendNNI(headers, tlv.V1HeaderCacheTime, uint64(o.RecommendedCacheTime))
	}

	var body []byte
	if o.Name != nil {
		body = tlv.AppendTLV(body, tlv.TypeName, o.Name.Encode())
	}
	if o.ExpiryTime != 0 {
		body = tlv.AppendNNI(body, tlv.TypeExpiryTime, uint64(o.ExpiryTime))
	}
	body = tlv.AppendTLV(body, tlv.TypePayload, o.Payload)
	message := tlv.AppendTLV(nil, tlv.TypeContentObject, body)

	if o.KeyId != nil {
		var suite []byte
		suite = tlv.AppendTLV(suite, tlv.TypeKeyId, o.KeyId)
		if o.PublicKey != nil {
			suite = tlv.AppendTLV(suite, tlv.TypePublicKey, o.PublicKey)
		}
		message = tlv.AppendTLV(message, tlv.TypeValidationAlg, tlv.AppendTLV(nil, tlv.TypeRsaSha256, suite))
		message = tlv.AppendTLV(message, tlv.TypeValidationPayload, nil)
	}
	return encodeV1(tlv.PacketTypeContentObject, 0, headers, message)
}

// EncodeControl builds a schema v1 control packet carrying payload.
func EncodeControl(payload []byte) ([]byte, error) {
	return encodeV1(tlv.PacketTypeControl, 0, nil, tlv.AppendTLV(nil, tlv.TypeControl, payload))
}

func encodeV1(packetType uint8, hopLimit uint8, headers []byte, message []byte) ([]byte, error) {
	headerLength := tlv.FixedHeaderLength + len(headers)
	if headerLength > 0xFF {
		return nil, ErrHeaderTooLarge
	}
	packetLength := headerLength + len(message)
	if packetLength > tlv.MaxPacketLength {
		return nil, ErrPacketTooLarge
	}

	wire := make([]byte, tlv.FixedHeaderLength, packetLength)
	wire[0] = tlv.SchemaV1
	wire[1] = packetType
	binary.BigEndian.PutUint16(wire[2:4], uint16(packetLength))
	wire[4] = hopLimit
	wire[7] = uint8(headerLength)
	wire = append(wire, headers...)
	return append(wire, message...), nil
}
