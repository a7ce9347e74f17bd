package singbox

// Typed subset of the sing-box server configuration schema covering the
// sections this tool emits: log, inbounds, outbounds and route.

// Document is the top-level server configuration.
type Document struct {
	Log       Log        `json:"log"`
	Inbounds  []Inbound  `json:"inbounds"`
	Outbounds []Outbound `json:"outbounds"`
	Route     Route      `json:"route"`
}

// Log configures core logging.
type Log struct {
	Disabled  bool   `json:"disabled"`
	Level     string `json:"level"`
	Timestamp bool   `json:"timestamp"`
}

// Inbound is one type-tagged listener entry.
type Inbound struct {
	Type       string     `json:"type"`
	Tag        string     `json:"tag"`
	Listen     string     `json:"listen"`
	ListenPort int        `json:"listen_port"`
	Users      []User     `json:"users,omitempty"`
	TLS        *TLS       `json:"tls,omitempty"`
	Transport  *Transport `json:"transport,omitempty"`

	// TUIC/Hysteria2 specific fields.
	CongestionControl     string `json:"congestion_control,omitempty"`
	IgnoreClientBandwidth bool   `json:"ignore_client_bandwidth,omitempty"`
	UpMbps                int    `json:"up_mbps,omitempty"`
	DownMbps              int    `json:"down_mbps,omitempty"`
}

// User is an inbound credential entry. Protocols use either UUID or
// Password, never both.
type User struct {
	UUID     string `json:"uuid,omitempty"`
	Password string `json:"password,omitempty"`
	Flow     string `json:"flow,omitempty"`
	AlterID  *int   `json:"alterId,omitempty"`
}

// TLS is the nested TLS block of an inbound.
type TLS struct {
	Enabled         bool     `json:"enabled"`
	ServerName      string   `json:"server_name,omitempty"`
	ALPN            []string `json:"alpn,omitempty"`
	Reality         *Reality `json:"reality,omitempty"`
	ACME            *ACME    `json:"acme,omitempty"`
	CertificatePath string   `json:"certificate_path,omitempty"`
	KeyPath         string   `json:"key_path,omitempty"`
}

// Reality is the Reality handshake block.
type Reality struct {
	Enabled    bool      `json:"enabled"`
	Handshake  Handshake `json:"handshake"`
	PrivateKey string    `json:"private_key"`
	ShortID    []string  `json:"short_id"`
}

// Handshake names the fallback destination presented to probing clients.
type Handshake struct {
	Server     string `json:"server"`
	ServerPort int    `json:"server_port"`
}

// ACME requests managed certificate issuance for an owned domain.
type ACME struct {
	Domain        []string `json:"domain"`
	Email         string   `json:"email,omitempty"`
	DataDirectory string   `json:"data_directory,omitempty"`
}

// Transport is the inbound transport block (ws only in this tool).
type Transport struct {
	Type                string            `json:"type"`
	Path                string            `json:"path,omitempty"`
	Headers             map[string]string `json:"headers,omitempty"`
	EarlyDataHeaderName string            `json:"early_data_header_name,omitempty"`
}

// Outbound is one egress entry.
type Outbound struct {
	Type string `json:"type"`
	Tag  string `json:"tag"`
}

// Route holds the routing rule set.
type Route struct {
	Rules []Rule `json:"rules"`
	Final string `json:"final"`
}

// Rule matches geo categories to an outbound.
type Rule struct {
	Geosite  []string `json:"geosite,omitempty"`
	GeoIP    []string `json:"geoip,omitempty"`
	Outbound string   `json:"outbound"`
}
