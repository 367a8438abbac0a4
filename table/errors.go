/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import "errors"

// Table errors
var (
	ErrNoSuchEntry = errors.New("no FIB entry for prefix")
)
