/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package main

import (
	"os"

	"github.com/named-data/ccnfwd/executor"
)

func main() {
	if err := executor.CmdCCNFwd.Execute(); err != nil {
		os.Exit(1)
	}
}
