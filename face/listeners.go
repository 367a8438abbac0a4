/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"errors"
	"fmt"
	"sync"

	"github.com/named-data/ccnfwd/core"
	"go.uber.org/multierr"
	"golang.org/x/exp/slices"
)

// Listener errors
var (
	ErrListenerExists = errors.New("listener already exists")
	ErrNoSuchListener = errors.New("no such listener")
	ErrCannotListen   = errors.New("scheme cannot be listened on")
)

// Listener accepts connections from peers and adds them to a table.
type Listener interface {
	String() string
	URI() *URI
	// Run blocks until the listener is closed.
	Run()
	Close() error
}

// Listeners are the listeners of a connection table, indexed by the URI they were opened with.
type Listeners struct {
	mutex     sync.Mutex
	table     *Table
	listeners map[string]Listener
}

// NewListeners creates an empty listener set adding connections to table.
func NewListeners(table *Table) *Listeners {
	return &Listeners{
		table:     table,
		listeners: make(map[string]Listener),
	}
}

func (ls *Listeners) String() string {
	return "Listeners"
}

// Add opens a listener on the URI and starts it.
func (ls *Listeners) Add(uri string) (Listener, error) {
	u, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	ls.mutex.Lock()
	defer ls.mutex.Unlock()
	if _, ok := ls.listeners[u.String()]; ok {
		return nil, fmt.Errorf("%w: %s", ErrListenerExists, u)
	}

	var l Listener
	switch u.Scheme() {
	case "tcp", "tcp4", "tcp6":
		l, err = NewTCPListener(u, ls.table)
	case "udp", "udp4", "udp6":
		l, err = NewUDPListener(u, ls.table)
	case "unix":
		l, err = NewUnixStreamListener(u, ls.table)
	case "ws":
		l, err = NewWebSocketListener(u, ls.table)
	default:
		return nil, fmt.Errorf("%w: %s", ErrCannotListen, u.Scheme())
	}
	if err != nil {
		return nil, err
	}

	ls.listeners[u.String()] = l
	go l.Run()
	return l, nil
}

// Remove closes the listener opened with the URI.
func (ls *Listeners) Remove(uri string) error {
	u, err := ParseURI(uri)
	if err != nil {
		return err
	}

	ls.mutex.Lock()
	l, ok := ls.listeners[u.String()]
	delete(ls.listeners, u.String())
	ls.mutex.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchListener, u)
	}
	return l.Close()
}

// List returns the URIs listeners were opened with, sorted.
func (ls *Listeners) List() []string {
	ls.mutex.Lock()
	defer ls.mutex.Unlock()
	uris := make([]string, 0, len(ls.listeners))
	for uri := range ls.listeners {
		uris = append(uris, uri)
	}
	slices.Sort(uris)
	return uris
}

// Get returns the listener opened with the URI, or nil.
func (ls *Listeners) Get(uri string) Listener {
	u, err := ParseURI(uri)
	if err != nil {
		return nil
	}
	ls.mutex.Lock()
	defer ls.mutex.Unlock()
	return ls.listeners[u.String()]
}

// CloseAll closes every listener.
func (ls *Listeners) CloseAll() error {
	ls.mutex.Lock()
	listeners := ls.listeners
	ls.listeners = make(map[string]Listener)
	ls.mutex.Unlock()

	var err error
	for uri, l := range listeners {
		if e := l.Close(); e != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", uri, e))
		}
	}
	return err
}

// Dial opens a persistent connection to the URI and adds it to the table. An existing connection to the
// same remote URI is returned instead.
func Dial(table *Table, uri string) (Connection, error) {
	u, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	if c := table.GetByURI(u); c != nil {
		return c, nil
	}

	var c Connection
	switch u.Scheme() {
	case "tcp", "tcp4", "tcp6", "unix":
		c, err = DialStream(u)
	case "udp", "udp4", "udp6":
		c, err = DialUDP(u)
	case "ws":
		c, err = DialWebSocket(u)
	case "ether":
		c, err = NewEthernetConnection(u.Host())
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownScheme, u.Scheme())
	}
	if err != nil {
		return nil, err
	}
	table.Add(c)
	core.LogInfo(table, "Created connection ", c.ID(), " to ", u)
	return c, nil
}
