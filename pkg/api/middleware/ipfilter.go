// LBGDB Metadata
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of LBGDB Metadata.
//
// LBGDB Metadata is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// LBGDB Metadata is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with LBGDB Metadata.  If not, see <http://www.gnu.org/licenses/>.

package middleware

import (
	"net"
	"net/http"
	"net/netip"

	"github.com/rs/zerolog/log"
)

// ParseRemoteIP extracts the address from a RemoteAddr string, with or
// without a port. IPv4-mapped IPv6 addresses are unmapped.
func ParseRemoteIP(remoteAddr string) (netip.Addr, bool) {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

// IPFilter is an allowlist of client addresses and networks.
type IPFilter struct {
	prefixes []netip.Prefix
}

// NewIPFilter builds a filter from IPs and CIDRs. Entries with a port have
// it dropped; invalid entries are logged and skipped. An empty list allows
// every client.
func NewIPFilter(allowed []string) *IPFilter {
	filter := &IPFilter{prefixes: make([]netip.Prefix, 0, len(allowed))}

	for _, entry := range allowed {
		if host, _, err := net.SplitHostPort(entry); err == nil {
			entry = host
		}

		if prefix, err := netip.ParsePrefix(entry); err == nil {
			filter.prefixes = append(filter.prefixes, prefix.Masked())
			continue
		}
		if addr, err := netip.ParseAddr(entry); err == nil {
			addr = addr.Unmap()
			filter.prefixes = append(filter.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}

		log.Warn().Str("ip", entry).Msg("invalid IP or CIDR in allowed_ips, skipping")
	}

	return filter
}

// Empty reports whether the filter allows every client.
func (f *IPFilter) Empty() bool {
	return len(f.prefixes) == 0
}

// IsAllowed reports whether remoteAddr matches an allowed entry, or the
// filter is empty.
func (f *IPFilter) IsAllowed(remoteAddr string) bool {
	if f.Empty() {
		return true
	}

	addr, ok := ParseRemoteIP(remoteAddr)
	if !ok {
		log.Warn().Str("addr", remoteAddr).Msg("failed to parse IP address")
		return false
	}

	for _, prefix := range f.prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// HTTPIPFilterMiddleware rejects requests from addresses the filter does not
// allow with 403.
func HTTPIPFilterMiddleware(filter *IPFilter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !filter.IsAllowed(r.RemoteAddr) {
				log.Debug().
					Str("addr", r.RemoteAddr).
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Msg("request from blocked IP")

				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
