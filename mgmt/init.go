/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mgmt

import (
	"github.com/named-data/ccnfwd/core"
)

// allowRemote determines whether management will accept commands from non-local connections.
var allowRemote bool

// Configure configures management.
func Configure() {
	allowRemote = core.GetConfig().Mgmt.AllowRemote
}
