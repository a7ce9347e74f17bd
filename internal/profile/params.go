package profile

import (
	"fmt"
	"strings"
)

// RealitySNIAllowList holds plausible Reality handshake targets. The first
// entry is the default; all of them serve both as the advertised SNI and as
// the fallback destination, deliberately decoupled from the operator domain.
var RealitySNIAllowList = []string{
	"www.yahoo.com",
	"addons.mozilla.org",
	"www.speedtest.net",
	"www.fandom.com",
}

// SelfSignedSNI is the server name used by the self-signed QUIC endpoints
// (hysteria2, tuic), which do not present the operator certificate.
const SelfSignedSNI = "www.bing.com"

// VmessDisguiseHost is the WS Host header for the tunneled VMess endpoint.
const VmessDisguiseHost = "www.visa.com.sg"

// Params are the operator-supplied scalar inputs of one provisioning run.
// Collection (prompt, flags, config file) happens outside this package.
type Params struct {
	Domain           string
	VlessRealityPort int
	Hysteria2Port    int
	TuicPort         int
	VmessPort        int
	VlessWSPort      int
	WSPath           string
	Tunnel           *Tunnel
}

// Validate checks every scalar before any endpoint is built. The first
// violation is returned as a ValidationError naming the offending field.
func (p Params) Validate() error {
	if strings.TrimSpace(p.Domain) == "" {
		return &ValidationError{Field: "domain", Reason: "must not be empty"}
	}
	ports := []struct {
		field string
		value int
	}{
		{"vless_reality_port", p.VlessRealityPort},
		{"hysteria2_port", p.Hysteria2Port},
		{"tuic_port", p.TuicPort},
		{"vmess_port", p.VmessPort},
		{"vless_ws_port", p.VlessWSPort},
	}
	for _, port := range ports {
		if port.value < 1 || port.value > 65535 {
			return &ValidationError{
				Field:  port.field,
				Reason: fmt.Sprintf("port %d out of range [1, 65535]", port.value),
			}
		}
	}
	if p.WSPath == "" || !strings.HasPrefix(p.WSPath, "/") {
		return &ValidationError{Field: "ws_path", Reason: "must start with /"}
	}
	if p.Tunnel != nil {
		if p.Tunnel.Domain == "" {
			return &ValidationError{Field: "tunnel.domain", Reason: "must not be empty when a tunnel is requested"}
		}
	}
	return nil
}

// Endpoints expands the parameters into the five protocol endpoints with
// their protocol-fixed defaults merged in, in canonical order.
func (p Params) Endpoints() ([]Endpoint, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	vmess := Endpoint{
		Kind:      KindVmessWS,
		Port:      p.VmessPort,
		Transport: TransportWS,
		Path:      p.WSPath,
		SNI:       VmessDisguiseHost,
	}
	if p.Tunnel != nil {
		vmess.Tunneled = true
		vmess.TLS = true
	}

	return []Endpoint{
		{
			Kind:      KindVlessReality,
			Port:      p.VlessRealityPort,
			Transport: TransportRaw,
			TLS:       true,
			SNI:       RealitySNIAllowList[0],
		},
		{
			Kind:      KindHysteria2,
			Port:      p.Hysteria2Port,
			Transport: TransportRaw,
			TLS:       true,
			SNI:       SelfSignedSNI,
			ALPN:      []string{"h3"},
		},
		{
			Kind:      KindTuic,
			Port:      p.TuicPort,
			Transport: TransportRaw,
			TLS:       true,
			SNI:       SelfSignedSNI,
			ALPN:      []string{"h3"},
		},
		vmess,
		{
			Kind:      KindVlessWS,
			Port:      p.VlessWSPort,
			Transport: TransportWS,
			Path:      p.WSPath,
			TLS:       true,
			SNI:       p.Domain,
			ALPN:      []string{"http/1.1"},
		},
	}, nil
}
