/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package tlv

import "errors"

// TLV errors.
var (
	ErrBufferTooShort    = errors.New("TLV length exceeds buffer size")
	ErrMissingLength     = errors.New("missing TLV length")
	ErrUnknownVersion    = errors.New("unknown packet version")
	ErrUnknownPacketType = errors.New("unknown packet type")
	ErrLengthMismatch    = errors.New("packet length does not match buffer size")
	ErrBadHeaderLength   = errors.New("header length out of range")
	ErrUnexpected        = errors.New("unexpected TLV type")
	ErrMissingMessage    = errors.New("packet carries no message TLV")
	ErrValueTooLong      = errors.New("TLV value too long")
	ErrExtentOutOfBuffer = errors.New("extent lies outside the buffer")
)
