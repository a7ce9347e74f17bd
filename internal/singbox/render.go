package singbox

import (
	"fmt"

	"github.com/creamcroissant/singprov/internal/profile"
)

// Self-signed certificate locations for the QUIC endpoints whose SNI is not
// an owned domain. Issuance itself happens outside this core.
const (
	SelfSignedCertPath = "/etc/sing-box/cert/cert.pem"
	SelfSignedKeyPath  = "/etc/sing-box/cert/private.key"
	acmeDataDirectory  = "/etc/sing-box/acme"
)

const realityHandshakePort = 443

// Render synthesizes the canonical server configuration from a profile.
// Every emitted field traces back to a profile attribute or a protocol-fixed
// default; nothing is invented here.
func Render(p *profile.Profile) (*Document, error) {
	doc := &Document{
		Log: Log{Level: "info", Timestamp: true},
		Outbounds: []Outbound{
			{Type: "direct", Tag: "direct"},
			{Type: "block", Tag: "block"},
		},
		Route: Route{
			Rules: []Rule{
				{Geosite: []string{"cn"}, Outbound: "block"},
				{GeoIP: []string{"cn"}, Outbound: "block"},
			},
			Final: "direct",
		},
	}

	for _, ep := range p.Endpoints {
		inbound, err := renderInbound(p, ep)
		if err != nil {
			return nil, err
		}
		doc.Inbounds = append(doc.Inbounds, inbound)
	}
	return doc, nil
}

func renderInbound(p *profile.Profile, ep profile.Endpoint) (Inbound, error) {
	switch ep.Kind {
	case profile.KindVlessReality:
		if p.ShortID == "" {
			return Inbound{}, fmt.Errorf("render %s inbound: profile has no short id", ep.Kind)
		}
		return Inbound{
			Type:       "vless",
			Tag:        string(ep.Kind),
			Listen:     "::",
			ListenPort: ep.Port,
			Users:      []User{{UUID: p.Identity, Flow: "xtls-rprx-vision"}},
			TLS: &TLS{
				Enabled:    true,
				ServerName: ep.SNI,
				Reality: &Reality{
					Enabled:    true,
					Handshake:  Handshake{Server: ep.SNI, ServerPort: realityHandshakePort},
					PrivateKey: p.KeyPair.Private,
					ShortID:    []string{p.ShortID},
				},
			},
		}, nil

	case profile.KindHysteria2:
		return Inbound{
			Type:                  "hysteria2",
			Tag:                   string(ep.Kind),
			Listen:                "::",
			ListenPort:            ep.Port,
			Users:                 []User{{Password: p.Identity}},
			IgnoreClientBandwidth: true,
			TLS: &TLS{
				Enabled:         true,
				ServerName:      ep.SNI,
				ALPN:            ep.ALPN,
				CertificatePath: SelfSignedCertPath,
				KeyPath:         SelfSignedKeyPath,
			},
		}, nil

	case profile.KindTuic:
		return Inbound{
			Type:              "tuic",
			Tag:               string(ep.Kind),
			Listen:            "::",
			ListenPort:        ep.Port,
			Users:             []User{{UUID: p.Identity, Password: p.Identity}},
			CongestionControl: "bbr",
			TLS: &TLS{
				Enabled:         true,
				ServerName:      ep.SNI,
				ALPN:            ep.ALPN,
				CertificatePath: SelfSignedCertPath,
				KeyPath:         SelfSignedKeyPath,
			},
		}, nil

	case profile.KindVmessWS:
		alterID := 0
		return Inbound{
			Type:       "vmess",
			Tag:        string(ep.Kind),
			Listen:     "::",
			ListenPort: ep.Port,
			Users:      []User{{UUID: p.Identity, AlterID: &alterID}},
			Transport: &Transport{
				Type:                "ws",
				Path:                ep.Path,
				EarlyDataHeaderName: "Sec-WebSocket-Protocol",
			},
		}, nil

	case profile.KindVlessWS:
		return Inbound{
			Type:       "vless",
			Tag:        string(ep.Kind),
			Listen:     "::",
			ListenPort: ep.Port,
			Users:      []User{{UUID: p.Identity}},
			TLS: &TLS{
				Enabled:    true,
				ServerName: ep.SNI,
				ALPN:       ep.ALPN,
				ACME: &ACME{
					Domain:        []string{p.Domain},
					DataDirectory: acmeDataDirectory,
				},
			},
			Transport: &Transport{
				Type: "ws",
				Path: ep.Path,
			},
		}, nil

	default:
		return Inbound{}, fmt.Errorf("render inbound: unknown endpoint kind %q", ep.Kind)
	}
}
