/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ccn

import (
	"bytes"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/named-data/ccnfwd/ccn/tlv"
)

// NameScheme is the URI scheme of a CCNx name.
const NameScheme = "ccnx:"

// Segment is one typed segment of a name.
type Segment struct {
	Type  uint16
	Value []byte
}

// String returns the URI form of the segment. Segments that are not plain name segments carry their
// type as a prefix, e.g. "0x1001=abc".
func (s Segment) String() string {
	v := url.PathEscape(string(s.Value))
	if s.Type == tlv.TypeNameSegment {
		return v
	}
	return "0x" + strconv.FormatUint(uint64(s.Type), 16) + "=" + v
}

// Equal returns whether two segments are identical.
func (s Segment) Equal(o Segment) bool {
	return s.Type == o.Type && bytes.Equal(s.Value, o.Value)
}

// Name is an immutable sequence of segments.
type Name []Segment

// ParseName parses a name from its URI form, "ccnx:/a/b" or "/a/b".
func ParseName(uri string) (Name, error) {
	s := strings.TrimPrefix(uri, NameScheme)
	if !strings.HasPrefix(s, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, uri)
	}
	s = strings.Trim(s, "/")
	if s == "" {
		return Name{}, nil
	}

	parts := strings.Split(s, "/")
	name := make(Name, 0, len(parts))
	for _, part := range parts {
		seg := Segment{Type: tlv.TypeNameSegment}
		if strings.HasPrefix(part, "0x") {
			if eq := strings.IndexByte(part, '='); eq > 0 {
				t, err := strconv.ParseUint(part[2:eq], 16, 16)
				if err != nil {
					return nil, fmt.Errorf("%w: bad segment type in %q", ErrInvalidName, part)
				}
				seg.Type = uint16(t)
				part = part[eq+1:]
			}
		}
		v, err := url.PathUnescape(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidName, err.Error())
		}
		seg.Value = []byte(v)
		name = append(name, seg)
	}
	return name, nil
}

// MustParseName parses a name and panics on error. Intended for constants and tests.
func MustParseName(uri string) Name {
	n, err := ParseName(uri)
	if err != nil {
		panic(err)
	}
	return n
}

// DecodeName decodes the value of a Name TLV.
func DecodeName(value []byte) (Name, error) {
	var scratch [tlv.DefaultSegmentGuess]tlv.Extent
	segments, err := tlv.NameSegments(value, scratch[:])
	if err != nil {
		return nil, err
	}
	name := make(Name, len(segments))
	for i, e := range segments {
		name[i] = Segment{Type: tlv.SegmentType(value, e), Value: e.Slice(value)}
	}
	return name, nil
}

// Size returns the number of segments.
func (n Name) Size() int {
	return len(n)
}

// At returns the segment at the given index. Negative indices count from the end.
func (n Name) At(i int) Segment {
	if i < 0 {
		i += len(n)
	}
	return n[i]
}

// Prefix returns the first i segments of the name.
func (n Name) Prefix(i int) Name {
	if i > len(n) {
		i = len(n)
	}
	return n[:i]
}

// Append returns a new name with the segments appended.
func (n Name) Append(segments ...Segment) Name {
	out := make(Name, 0, len(n)+len(segments))
	out = append(out, n...)
	return append(out, segments...)
}

// EncodingLength returns the size of the encoded segments.
func (n Name) EncodingLength() int {
	l := 0
	for _, s := range n {
		l += tlv.TypeLengthSize + len(s.Value)
	}
	return l
}

// Encode returns the value of the Name TLV, i.e. the concatenated segment TLVs.
func (n Name) Encode() []byte {
	return n.AppendTo(make([]byte, 0, n.EncodingLength()))
}

// AppendTo appends the segment TLVs to dst.
func (n Name) AppendTo(dst []byte) []byte {
	for _, s := range n {
		dst = tlv.AppendTLV(dst, s.Type, s.Value)
	}
	return dst
}

// Hash returns the hash of the encoded name.
func (n Name) Hash() uint64 {
	return xxhash.Sum64(n.Encode())
}

// String returns the URI form of the name.
func (n Name) String() string {
	if len(n) == 0 {
		return NameScheme + "/"
	}
	var sb strings.Builder
	sb.WriteString(NameScheme)
	for _, s := range n {
		sb.WriteByte('/')
		sb.WriteString(s.String())
	}
	return sb.String()
}

// Equal returns whether two names are identical.
func (n Name) Equal(o Name) bool {
	if len(n) != len(o) {
		return false
	}
	for i := range n {
		if !n[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Compare orders names segment by segment, comparing segment type, then length, then value.
// A name sorts before any name it is a proper prefix of.
func (n Name) Compare(o Name) int {
	for i := 0; i < len(n) && i < len(o); i++ {
		if c := compareSegment(n[i], o[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(n) < len(o):
		return -1
	case len(n) > len(o):
		return 1
	}
	return 0
}

func compareSegment(a, b Segment) int {
	switch {
	case a.Type < b.Type:
		return -1
	case a.Type > b.Type:
		return 1
	case len(a.Value) < len(b.Value):
		return -1
	case len(a.Value) > len(b.Value):
		return 1
	}
	return bytes.Compare(a.Value, b.Value)
}

// IsPrefixOf returns whether the name is a prefix of (or equal to) other.
func (n Name) IsPrefixOf(other Name) bool {
	if len(n) > len(other) {
		return false
	}
	for i := range n {
		if !n[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// PrefixEnds returns, for an encoded name value, the end offset of every prefix: entry i is the length of
// the encoding of the first i segments. Entry 0 is always 0.
func PrefixEnds(encoded []byte) ([]int, error) {
	var scratch [tlv.DefaultSegmentGuess]tlv.Extent
	segments, err := tlv.NameSegments(encoded, scratch[:])
	if err != nil {
		return nil, err
	}
	ends := make([]int, len(segments)+1)
	for i, e := range segments {
		ends[i+1] = e.End()
	}
	return ends, nil
}

