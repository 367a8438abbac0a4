/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ccn

import "errors"

// Errors
var (
	ErrInvalidName    = errors.New("invalid name")
	ErrPacketTooLarge = errors.New("encoded packet exceeds maximum packet length")
	ErrHeaderTooLarge = errors.New("encoded headers exceed maximum header length")
)
