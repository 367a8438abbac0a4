/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ccn

import (
	"strconv"

	"github.com/named-data/ccnfwd/ccn/tlv"
)

// PacketType is the kind of a packet, from its fixed header.
type PacketType uint8

// Packet types
const (
	Interest       PacketType = PacketType(tlv.PacketTypeInterest)
	ContentObject  PacketType = PacketType(tlv.PacketTypeContentObject)
	InterestReturn PacketType = PacketType(tlv.PacketTypeInterestReturn)
	Fragment       PacketType = PacketType(tlv.PacketTypeFragment)
	Control        PacketType = PacketType(tlv.PacketTypeControl)
)

func (p PacketType) String() string {
	switch p {
	case Interest:
		return "Interest"
	case ContentObject:
		return "ContentObject"
	case InterestReturn:
		return "InterestReturn"
	case Fragment:
		return "Fragment"
	case Control:
		return "Control"
	default:
		return "Unknown(" + strconv.Itoa(int(p)) + ")"
	}
}
