// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net"
	"net/http"
	"strings"
)

const wildcard = "*"

// filterInvalidHosts rejects requests whose Host header is not in
// [allowed]. An empty list or "*" allows every host.
func filterInvalidHosts(handler http.Handler, allowed []string) http.Handler {
	s := make(map[string]struct{}, len(allowed))
	for _, host := range allowed {
		if host == wildcard {
			return handler
		}
		s[strings.ToLower(host)] = struct{}{}
	}
	if len(s) == 0 {
		return handler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.Host)
		if err != nil {
			host = r.Host
		}
		if _, ok := s[strings.ToLower(host)]; !ok {
			http.Error(w, "invalid host specified", http.StatusForbidden)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
