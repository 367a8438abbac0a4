/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package tlv

import (
	"encoding/binary"
	"math"
)

// DecodeTypeLength decodes the TLV type and length at offset off of buf. It returns the type, the
// extent of the value and the offset of the next TLV.
func DecodeTypeLength(buf []byte, off int) (uint16, Extent, int, error) {
	if off+TypeLengthSize > len(buf) {
		if off+2 <= len(buf) {
			return 0, NotFound, 0, ErrMissingLength
		}
		return 0, NotFound, 0, ErrBufferTooShort
	}
	t := binary.BigEndian.Uint16(buf[off:])
	l := int(binary.BigEndian.Uint16(buf[off+2:]))
	value := Extent{Offset: off + TypeLengthSize, Length: l}
	if value.End() > len(buf) {
		return 0, NotFound, 0, ErrBufferTooShort
	}
	return t, value, value.End(), nil
}

// ExtentToVarint decodes the big-endian integer of 1 to 8 bytes covered by the extent. It returns false if
// the extent is empty, longer than 8 bytes or outside the packet.
func ExtentToVarint(packet []byte, e Extent) (uint64, bool) {
	if e.Length < 1 || e.Length > 8 || !e.Within(len(packet)) {
		return 0, false
	}
	var v uint64
	for _, b := range packet[e.Offset:e.End()] {
		v = v<<8 | uint64(b)
	}
	return v, true
}

// EncodeNNI encodes a non-negative integer value into the shortest big-endian TLV value.
func EncodeNNI(v uint64) []byte {
	value := make([]byte, 8)
	binary.BigEndian.PutUint64(value, v)

	if v <= math.MaxUint8 {
		return value[7:]
	} else if v <= math.MaxUint16 {
		return value[6:]
	} else if v <= math.MaxUint32 {
		return value[4:]
	}
	return value
}

// AppendTLV appends a TLV with the given type and value to dst.
func AppendTLV(dst []byte, t uint16, value []byte) []byte {
	if len(value) > math.MaxUint16 {
		panic(ErrValueTooLong)
	}
	dst = binary.BigEndian.AppendUint16(dst, t)
	dst = binary.BigEndian.AppendUint16(dst, uint16(len(value)))
	return append(dst, value...)
}

// AppendNNI appends a TLV carrying a non-negative integer.
func AppendNNI(dst []byte, t uint16, v uint64) []byte {
	return AppendTLV(dst, t, EncodeNNI(v))
}
