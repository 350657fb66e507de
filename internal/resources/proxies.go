package resources

import (
	"bufio"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Proxy is an outbound HTTP proxy.
type Proxy struct {
	Host     string
	Port     string
	User     string
	Password string
}

// URL returns the proxy URL.
func (p Proxy) URL() *url.URL {
	u := &url.URL{Scheme: "http", Host: net.JoinHostPort(p.Host, p.Port)}
	if p.User != "" {
		u.User = url.UserPassword(p.User, p.Password)
	}
	return u
}

// String returns host:port, without credentials.
func (p Proxy) String() string {
	return net.JoinHostPort(p.Host, p.Port)
}

// ParseProxy parses a host:port[:user:password] line.
func ParseProxy(line string) (Proxy, error) {
	parts := strings.Split(strings.TrimSpace(line), ":")
	switch len(parts) {
	case 2:
		return Proxy{Host: parts[0], Port: parts[1]}, nil
	case 4:
		return Proxy{Host: parts[0], Port: parts[1], User: parts[2], Password: parts[3]}, nil
	default:
		return Proxy{}, errors.Errorf("bad proxy line %q", line)
	}
}

// LoadProxies reads a proxy list, one proxy per line. An empty path yields no proxies.
func LoadProxies(path string) ([]Proxy, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "os.Open")
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	var out []Proxy
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p, err := ParseProxy(line)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "sc.Err")
	}
	return out, nil
}
