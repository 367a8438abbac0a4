/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package tlv

import "encoding/binary"

// DefaultSegmentGuess is the scratch size callers use for NameSegments. Most names are shorter.
const DefaultSegmentGuess = 16

// NameSegments returns the extents of the segment values inside the value of a Name TLV. The extents are
// relative to name. The first pass only counts segments; if they fit in the capacity of guess, the
// second pass fills guess, otherwise it fills a freshly sized slice.
func NameSegments(name []byte, guess []Extent) ([]Extent, error) {
	count := 0
	for off := 0; off < len(name); {
		_, _, next, err := DecodeTypeLength(name, off)
		if err != nil {
			return nil, err
		}
		count++
		off = next
	}

	var segments []Extent
	if count <= cap(guess) {
		segments = guess[:count]
	} else {
		segments = make([]Extent, count)
	}

	off := 0
	for i := 0; i < count; i++ {
		l := int(binary.BigEndian.Uint16(name[off+2:]))
		segments[i] = Extent{Offset: off + TypeLengthSize, Length: l}
		off += TypeLengthSize + l
	}
	return segments, nil
}

// SegmentType returns the TLV type of the segment whose value extent was returned by NameSegments.
func SegmentType(name []byte, segment Extent) uint16 {
	return binary.BigEndian.Uint16(name[segment.Offset-TypeLengthSize:])
}
