package listener

import (
	"net"
	"net/http"
	"slices"
	"strings"
)

// ClientIP returns the address of the caller.
// X-Forwarded-For is only read when the direct peer is a trusted proxy, and
// the right-most address that is not a trusted proxy wins.
func ClientIP(r *http.Request, trustedProxies []string) string {
	peer := stripPort(r.RemoteAddr)
	if !slices.Contains(trustedProxies, peer) {
		return peer
	}

	forwarded := r.Header.Values("X-Forwarded-For")
	var hops []string
	for _, value := range forwarded {
		for _, hop := range strings.Split(value, ",") {
			if hop = strings.TrimSpace(hop); hop != "" {
				hops = append(hops, stripPort(hop))
			}
		}
	}

	if len(hops) == 0 {
		return peer
	}

	for i := len(hops) - 1; i >= 0; i-- {
		if !slices.Contains(trustedProxies, hops[i]) {
			return hops[i]
		}
	}

	return hops[0]
}

func stripPort(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return strings.Trim(addr, "[]")
	}

	return host
}
