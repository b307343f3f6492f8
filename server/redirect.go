// server/redirect.go
package server

import (
	"net"
	"net/http"
	"strconv"
	"strings"
)

// redirectHandler sends every plain HTTP request to the same host and path
// on HTTPS. Hosts and request targets that could inject headers are
// rejected.
func redirectHandler(httpsPort int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isValidHost(r.Host) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		uri := r.URL.RequestURI()
		if strings.ContainsFunc(uri, isControl) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		host := r.Host
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
			if strings.Contains(host, ":") {
				host = "[" + host + "]"
			}
		}
		if httpsPort != 0 && httpsPort != 443 {
			host += ":" + strconv.Itoa(httpsPort)
		}
		http.Redirect(w, r, "https://"+host+uri, http.StatusMovedPermanently)
	})
}

func isControl(c rune) bool { return c < 0x20 || c == 0x7f }

// isValidHost reports whether a Host header is safe to echo into a
// Location header.
func isValidHost(host string) bool {
	if host == "" || strings.Contains(host, "://") || strings.HasPrefix(host, "/") {
		return false
	}

	name := host
	if h, port, err := net.SplitHostPort(host); err == nil {
		if p, perr := strconv.Atoi(port); perr != nil || p <= 0 || p > 65535 {
			return false
		}
		name = h
	}
	if name == "" || strings.ContainsFunc(name, isControl) || strings.ContainsAny(name, " /\\@") {
		return false
	}

	if strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]") {
		name = name[1 : len(name)-1]
	}
	if strings.Contains(name, ":") {
		ip, _, _ := strings.Cut(name, "%")
		return net.ParseIP(ip) != nil
	}
	return true
}
