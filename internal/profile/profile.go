package profile

import "github.com/creamcroissant/singprov/internal/identity"

// Kind tags the protocol variant of an endpoint.
type Kind string

const (
	KindVlessReality Kind = "vless-reality"
	KindHysteria2    Kind = "hysteria2"
	KindTuic         Kind = "tuic"
	KindVmessWS      Kind = "vmess-ws"
	KindVlessWS      Kind = "vless-ws"
)

// Kinds is the canonical endpoint order. Share links and the subscription
// bundle follow this order exactly.
var Kinds = []Kind{KindVlessReality, KindHysteria2, KindTuic, KindVmessWS, KindVlessWS}

// Transport is the endpoint transport layer.
type Transport string

const (
	TransportRaw Transport = "raw"
	TransportWS  Transport = "ws"
)

// Endpoint is one protocol listener plus the client-facing parameters needed
// to reach it. Fields not applicable to a variant stay zero.
type Endpoint struct {
	Kind      Kind
	Port      int
	Transport Transport
	Path      string
	TLS       bool
	SNI       string
	ALPN      []string

	// Tunneled marks an endpoint published through the reverse tunnel: the
	// share link then points at the tunnel hostname on 443 instead of the
	// local listen port.
	Tunneled bool
}

// Tunnel identifies the optional reverse-connectivity collaborator.
type Tunnel struct {
	Host   string
	Domain string
	Token  string
}

// Profile is the immutable single source of truth for one provisioning run.
// Every downstream artifact (server config, share links, subscription) must
// be derivable from it alone.
type Profile struct {
	Domain    string
	Identity  string
	KeyPair   identity.KeyPair
	ShortID   string
	Endpoints []Endpoint
	Tunnel    *Tunnel
}

// Endpoint returns the endpoint of the given kind, or false when absent.
func (p *Profile) Endpoint(kind Kind) (Endpoint, bool) {
	for _, ep := range p.Endpoints {
		if ep.Kind == kind {
			return ep, true
		}
	}
	return Endpoint{}, false
}

// New assembles a profile from validated parameters and fresh key material.
func New(params Params, material identity.Material) (*Profile, error) {
	endpoints, err := params.Endpoints()
	if err != nil {
		return nil, err
	}
	p := &Profile{
		Domain:    params.Domain,
		Identity:  material.Identity,
		KeyPair:   material.KeyPair,
		ShortID:   material.ShortID,
		Endpoints: endpoints,
	}
	if params.Tunnel != nil {
		tunnel := *params.Tunnel
		p.Tunnel = &tunnel
	}
	return p, nil
}
