// Package sharelink renders client-importable connection strings for each
// endpoint of a provisioned profile. Encoding is deterministic: the same
// profile always yields byte-identical links.
package sharelink

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/creamcroissant/singprov/internal/profile"
)

// Bandwidth hints advertised in hysteria2 links, in Mbps.
const (
	hysteriaUpMbps   = 100
	hysteriaDownMbps = 100
)

// tunnelPublicPort is the externally reachable port of tunnel-published
// endpoints, regardless of the local listen port.
const tunnelPublicPort = 443

const realityFingerprint = "chrome"

// Link pairs an endpoint kind with its rendered share string.
type Link struct {
	Kind profile.Kind
	URL  string
}

// Build renders one link per profile endpoint, in canonical endpoint order.
// A missing required field is a contract violation and fails the whole run.
func Build(p *profile.Profile) ([]Link, error) {
	if p.Identity == "" {
		return nil, &EncodingError{Kind: "", Field: "identity"}
	}

	links := make([]Link, 0, len(p.Endpoints))
	for _, ep := range p.Endpoints {
		rendered, err := Encode(p, ep)
		if err != nil {
			return nil, err
		}
		links = append(links, Link{Kind: ep.Kind, URL: rendered})
	}
	return links, nil
}

// Encode renders a single endpoint into its protocol-specific share format.
func Encode(p *profile.Profile, ep profile.Endpoint) (string, error) {
	switch ep.Kind {
	case profile.KindVlessReality:
		return encodeVlessReality(p, ep)
	case profile.KindHysteria2:
		return encodeHysteria2(p, ep)
	case profile.KindTuic:
		return encodeTuic(p, ep)
	case profile.KindVmessWS:
		return encodeVmessWS(p, ep)
	case profile.KindVlessWS:
		return encodeVlessWS(p, ep)
	default:
		return "", &EncodingError{Kind: ep.Kind, Field: "kind"}
	}
}

func encodeVlessReality(p *profile.Profile, ep profile.Endpoint) (string, error) {
	if p.KeyPair.Public == "" {
		return "", &EncodingError{Kind: ep.Kind, Field: "public key"}
	}
	if p.ShortID == "" {
		return "", &EncodingError{Kind: ep.Kind, Field: "short id"}
	}
	if ep.SNI == "" {
		return "", &EncodingError{Kind: ep.Kind, Field: "sni"}
	}

	u := url.URL{
		Scheme:   "vless",
		User:     url.User(p.Identity),
		Host:     hostPort(p.Domain, ep.Port),
		Fragment: linkName(p.Domain, ep.Kind),
	}
	q := u.Query()
	q.Set("encryption", "none")
	q.Set("flow", "xtls-rprx-vision")
	q.Set("security", "reality")
	q.Set("sni", ep.SNI)
	q.Set("fp", realityFingerprint)
	q.Set("pbk", p.KeyPair.Public)
	q.Set("sid", p.ShortID)
	q.Set("type", "tcp")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func encodeHysteria2(p *profile.Profile, ep profile.Endpoint) (string, error) {
	u := url.URL{
		Scheme:   "hysteria2",
		User:     url.User(p.Identity),
		Host:     hostPort(p.Domain, ep.Port),
		Fragment: linkName(p.Domain, ep.Kind),
	}
	q := u.Query()
	q.Set("sni", ep.SNI)
	q.Set("insecure", "1")
	q.Set("up", strconv.Itoa(hysteriaUpMbps))
	q.Set("down", strconv.Itoa(hysteriaDownMbps))
	if len(ep.ALPN) > 0 {
		q.Set("alpn", joinALPN(ep.ALPN))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func encodeTuic(p *profile.Profile, ep profile.Endpoint) (string, error) {
	if len(ep.ALPN) == 0 {
		return "", &EncodingError{Kind: ep.Kind, Field: "alpn"}
	}

	u := url.URL{
		Scheme: "tuic",
		// TUIC authenticates with uuid:password; this profile reuses the
		// identity for both.
		User:     url.UserPassword(p.Identity, p.Identity),
		Host:     hostPort(p.Domain, ep.Port),
		Fragment: linkName(p.Domain, ep.Kind),
	}
	q := u.Query()
	q.Set("congestion_control", "bbr")
	q.Set("udp_relay_mode", "native")
	q.Set("alpn", joinALPN(ep.ALPN))
	q.Set("sni", ep.SNI)
	q.Set("allow_insecure", "1")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// vmessLink is the V2RayN-style JSON payload. Every field is a string by
// client convention, including numeric-looking ones.
type vmessLink struct {
	V    string `json:"v"`
	Name string `json:"ps"`
	Addr string `json:"add"`
	Port string `json:"port"`
	ID   string `json:"id"`
	Aid  string `json:"aid"`
	Scy  string `json:"scy"`
	Net  string `json:"net"`
	Type string `json:"type"`
	Host string `json:"host"`
	Path string `json:"path"`
	TLS  string `json:"tls"`
	SNI  string `json:"sni"`
}

func encodeVmessWS(p *profile.Profile, ep profile.Endpoint) (string, error) {
	if ep.Path == "" {
		return "", &EncodingError{Kind: ep.Kind, Field: "path"}
	}

	addr := p.Domain
	port := ep.Port
	tls := ""
	if ep.Tunneled {
		if p.Tunnel == nil || p.Tunnel.Domain == "" {
			return "", &EncodingError{Kind: ep.Kind, Field: "tunnel domain"}
		}
		// Published through the tunnel: clients reach the tunnel hostname on
		// the public TLS port, never the local listen port.
		addr = p.Tunnel.Domain
		port = tunnelPublicPort
		tls = "tls"
	}

	payload := vmessLink{
		V:    "2",
		Name: linkName(p.Domain, ep.Kind),
		Addr: addr,
		Port: strconv.Itoa(port),
		ID:   p.Identity,
		Aid:  "0",
		Scy:  "auto",
		Net:  "ws",
		Type: "none",
		Host: ep.SNI,
		Path: ep.Path,
		TLS:  tls,
		SNI:  ep.SNI,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal vmess link: %w", err)
	}
	return "vmess://" + base64.StdEncoding.EncodeToString(raw), nil
}

func encodeVlessWS(p *profile.Profile, ep profile.Endpoint) (string, error) {
	if ep.Path == "" {
		return "", &EncodingError{Kind: ep.Kind, Field: "path"}
	}

	u := url.URL{
		Scheme:   "vless",
		User:     url.User(p.Identity),
		Host:     hostPort(p.Domain, ep.Port),
		Fragment: linkName(p.Domain, ep.Kind),
	}
	q := u.Query()
	q.Set("encryption", "none")
	q.Set("security", "tls")
	q.Set("sni", ep.SNI)
	q.Set("type", "ws")
	q.Set("host", ep.SNI)
	q.Set("path", ep.Path)
	if len(ep.ALPN) > 0 {
		q.Set("alpn", joinALPN(ep.ALPN))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func hostPort(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}

func linkName(domain string, kind profile.Kind) string {
	return fmt.Sprintf("%s-%s", domain, kind)
}

func joinALPN(alpn []string) string {
	return strings.Join(alpn, ",")
}
