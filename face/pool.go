/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"sync"

	"github.com/Link512/stealthpool"
	"github.com/named-data/ccnfwd/core"
)

// Receive buffers of stream connections are taken from an off-heap pool. A buffer holds several
// packets so a read can return more than one.
var (
	recvPool     *stealthpool.Pool
	recvPoolOnce sync.Once
)

func recvBufferSize() int {
	return maxPacketSize * 4
}

func getRecvBuffer() []byte {
	recvPoolOnce.Do(func() {
		pool, err := stealthpool.New(poolSize, stealthpool.WithBlockSize(recvBufferSize()))
		if err != nil {
			core.LogError("Faces", "Failed to allocate receive buffer pool: ", err)
			return
		}
		recvPool = pool
	})
	if recvPool != nil {
		if buf, err := recvPool.Get(); err == nil {
			return buf[:recvBufferSize()]
		}
	}
	// Pool exhausted
	return make([]byte, recvBufferSize())
}

func putRecvBuffer(buf []byte) {
	if recvPool != nil {
		// Buffers allocated on the heap are rejected by the pool
		_ = recvPool.Return(buf)
	}
}
