/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package executor

import (
	"fmt"
	"time"

	"github.com/named-data/ccnfwd/core"
	"github.com/named-data/ccnfwd/face"
	"github.com/named-data/ccnfwd/fw"
	"github.com/named-data/ccnfwd/mgmt"
	"github.com/named-data/ccnfwd/table"
	"go.uber.org/multierr"
)

// CCNFwd is the forwarding daemon: one forwarding thread, its connection table and listeners, and the
// management handler. Only one instance should be created per process, since the packages it configures
// keep their settings in package variables.
type CCNFwd struct {
	config *core.Config

	profiler  *Profiler
	table     *face.Table
	listeners *face.Listeners
	thread    *fw.Thread
	manager   *mgmt.Manager
}

// NewCCNFwd creates the daemon and applies config to every package.
func NewCCNFwd(config *core.Config) *CCNFwd {
	core.StartTimestamp = time.Now()
	core.SetConfig(config)

	table.Configure()
	fw.Configure()
	face.Configure()
	mgmt.Configure()

	return &CCNFwd{
		config:   config,
		profiler: NewProfiler(config),
	}
}

func (c *CCNFwd) String() string {
	return "CCNFwd"
}

// Thread returns the forwarding thread. It is nil before Start.
func (c *CCNFwd) Thread() *fw.Thread {
	return c.thread
}

// Connections returns the connection table. It is nil before Start.
func (c *CCNFwd) Connections() *face.Table {
	return c.table
}

// Listeners returns the open listeners. It is nil before Start.
func (c *CCNFwd) Listeners() *face.Listeners {
	return c.listeners
}

// Start starts the forwarding thread, opens the configured listeners and installs the static routes.
// Listeners and routes that fail are logged and skipped. This function is non-blocking.
func (c *CCNFwd) Start() error {
	core.LogInfo(c, "Starting ccnfwd ", core.Version)

	if err := c.profiler.Start(); err != nil {
		return err
	}

	c.table = face.NewTable()
	c.listeners = face.NewListeners(c.table)
	c.thread = fw.NewThread(c.table, c.table.Missives(), core.SystemClock{})
	c.table.SetThread(c.thread)
	c.manager = mgmt.NewManager(c.table, c.listeners)
	c.thread.Processor().SetControlHandler(c.manager)
	go c.thread.Run()

	opened := 0
	for _, uri := range c.config.Faces.Listeners {
		l, err := c.listeners.Add(uri)
		if err != nil {
			core.LogError(c, "Unable to open listener ", uri, ": ", err)
			continue
		}
		core.LogInfo(c, "Listening on ", l.URI())
		opened++
	}
	if opened == 0 && len(c.config.Faces.Listeners) > 0 {
		c.Stop()
		return fmt.Errorf("none of the %d configured listeners could be opened", len(c.config.Faces.Listeners))
	}

	if err := mgmt.InstallStaticRoutes(c.table, c.thread, c.config.Tables.Fib.Routes); err != nil {
		for _, e := range multierr.Errors(err) {
			core.LogWarn(c, "Static route not installed: ", e)
		}
	}
	return nil
}

// Stop closes every listener and connection, then stops the forwarding thread.
func (c *CCNFwd) Stop() {
	core.LogInfo(c, "Forwarder shutting down ...")

	if c.listeners != nil {
		if err := c.listeners.CloseAll(); err != nil {
			core.LogWarn(c, "Unable to close listeners: ", err)
		}
		c.listeners = nil
	}
	if c.table != nil {
		c.table.CloseAll()
		c.table = nil
	}
	if c.thread != nil {
		c.thread.Stop()
		c.thread = nil
		core.LogInfo(c, "Stopped forwarding thread")
	}

	c.profiler.Stop()
}
