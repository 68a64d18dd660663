// internal/requestinfo/requestinfo.go
//
// Per-request metadata: correlation id, user-agent fingerprint, and
// optional IP geolocation.
//
// Context
// -------
// Public tenant sites live or die by search traffic, so the gateway tags
// every request with a parsed User-Agent (crawler detection feeds a
// counter and the access log) and, when a MaxMind database is configured,
// a coarse geo hint.  The structs are inert: no handles, no buffers, safe
// to log or JSON-encode.
package requestinfo

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/avct/uasurfer"
	"github.com/oschwald/geoip2-golang"
)

// UA holds the parsed user-agent properties the gateway cares about.
type UA struct {
	Browser string
	Version string
	OS      string
	Device  string
	IsBot   bool
	Raw     string
}

// Geo holds best-effort IP geolocation hints; empty when the database is
// not configured or has no match.
type Geo struct {
	Country string // ISO code ("ES")
	City    string
}

// Info is stored in the request context by the Enricher middleware.
type Info struct {
	RequestID string
	UA        UA
	Geo       Geo
	At        time.Time
}

// ParseUA converts a raw User-Agent header into a UA struct.
func ParseUA(raw string) UA {
	ua := uasurfer.Parse(raw)

	info := UA{
		Browser: ua.Browser.Name.String(),
		Version: versionString(ua.Browser.Version),
		OS:      ua.OS.Name.String(),
		IsBot:   ua.IsBot(),
		Raw:     raw,
	}

	switch ua.DeviceType {
	case uasurfer.DeviceComputer:
		info.Device = "Desktop"
	case uasurfer.DevicePhone:
		info.Device = "Mobile"
	case uasurfer.DeviceTablet:
		info.Device = "Tablet"
	default:
		info.Device = "Other"
	}
	return info
}

func versionString(v uasurfer.Version) string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// clientIP extracts the original client address, honouring the first hop
// of X-Forwarded-For when a proxy added it.
func clientIP(r *http.Request) net.IP {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := xff
		if i := strings.IndexByte(xff, ','); i != -1 {
			first = xff[:i]
		}
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return net.ParseIP(r.RemoteAddr)
	}
	return net.ParseIP(host)
}

// lookupGeo is nil-safe: a missing reader or unmatched IP yields zeroes.
func lookupGeo(db *geoip2.Reader, ip net.IP) Geo {
	if db == nil || ip == nil {
		return Geo{}
	}
	rec, err := db.City(ip)
	if err != nil || rec == nil {
		return Geo{}
	}
	g := Geo{Country: rec.Country.IsoCode}
	if name, ok := rec.City.Names["en"]; ok {
		g.City = name
	}
	return g
}
