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
	"net"
	"net/url"
	"strconv"
	"strings"
)

// URI errors
var (
	ErrUnknownScheme = errors.New("unknown URI scheme")
	ErrBadURI        = errors.New("malformed URI")
)

// URI represents the address of a connection or listener: tcp://host:port, udp://host:port,
// ws://host:port, unix:///path, ether://ifname or fd://n.
type URI struct {
	scheme string
	host   string
	port   uint16
	path   string
}

// ParseURI parses a connection URI. The scheme selects the kind of connection; tcp4, tcp6, udp4 and
// udp6 are accepted as aliases that only differ in the address family used to listen or dial.
func ParseURI(s string) (*URI, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadURI, err.Error())
	}
	ret := &URI{scheme: strings.ToLower(u.Scheme)}
	switch ret.scheme {
	case "tcp", "tcp4", "tcp6", "udp", "udp4", "udp6", "ws":
		host, port, err := net.SplitHostPort(u.Host)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrBadURI, err.Error())
		}
		p, err := strconv.ParseUint(port, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: bad port %s", ErrBadURI, port)
		}
		ret.host = host
		ret.port = uint16(p)
		ret.path = u.Path
	case "unix":
		if u.Path == "" {
			return nil, fmt.Errorf("%w: missing socket path", ErrBadURI)
		}
		ret.path = u.Path
	case "ether":
		if u.Host == "" {
			return nil, fmt.Errorf("%w: missing interface", ErrBadURI)
		}
		ret.host = u.Host
	case "fd":
		if _, err := strconv.ParseUint(u.Host, 10, 64); err != nil {
			return nil, fmt.Errorf("%w: bad descriptor %s", ErrBadURI, u.Host)
		}
		ret.host = u.Host
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownScheme, u.Scheme)
	}
	return ret, nil
}

// MakeAddrURI builds the URI of a network address.
func MakeAddrURI(scheme string, addr net.Addr) *URI {
	switch a := addr.(type) {
	case *net.TCPAddr:
		return &URI{scheme: scheme, host: a.IP.String(), port: uint16(a.Port)}
	case *net.UDPAddr:
		return &URI{scheme: scheme, host: a.IP.String(), port: uint16(a.Port)}
	case *net.UnixAddr:
		return &URI{scheme: "unix", path: a.Name}
	}
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return &URI{scheme: scheme, host: addr.String()}
	}
	p, _ := strconv.ParseUint(port, 10, 16)
	return &URI{scheme: scheme, host: host, port: uint16(p)}
}

// MakeFDURI builds the URI of an accepted Unix stream peer.
func MakeFDURI(fd int) *URI {
	return &URI{scheme: "fd", host: strconv.Itoa(fd)}
}

// MakeEtherURI builds the URI of an Ethernet interface.
func MakeEtherURI(ifname string) *URI {
	return &URI{scheme: "ether", host: ifname}
}

// Scheme returns the scheme of the URI.
func (u *URI) Scheme() string {
	return u.scheme
}

// Host returns the host, interface name or descriptor of the URI.
func (u *URI) Host() string {
	return u.host
}

// Port returns the port of the URI, or 0.
func (u *URI) Port() uint16 {
	return u.port
}

// Path returns the path of the URI.
func (u *URI) Path() string {
	return u.path
}

// Network returns the network name understood by package net.
func (u *URI) Network() string {
	if u.scheme == "ws" {
		return "tcp"
	}
	return u.scheme
}

// Address returns the address understood by package net.
func (u *URI) Address() string {
	switch u.scheme {
	case "unix":
		return u.path
	case "ether", "fd":
		return u.host
	}
	return net.JoinHostPort(u.host, strconv.Itoa(int(u.port)))
}

// IsLocal returns whether the URI designates a peer on this host: a Unix socket, an accepted Unix
// stream peer or a loopback address.
func (u *URI) IsLocal() bool {
	switch u.scheme {
	case "unix", "fd":
		return true
	case "ether":
		return false
	}
	if u.host == "localhost" {
		return true
	}
	ip := net.ParseIP(u.host)
	return ip != nil && ip.IsLoopback()
}

func (u *URI) String() string {
	switch u.scheme {
	case "unix":
		return "unix://" + u.path
	case "ether", "fd":
		return u.scheme + "://" + u.host
	}
	return u.scheme + "://" + net.JoinHostPort(u.host, strconv.Itoa(int(u.port))) + u.path
}
