package singbox

import (
	"encoding/json"
	"sort"
	"strings"
	"testing"

	"github.com/creamcroissant/singprov/internal/identity"
	"github.com/creamcroissant/singprov/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile(t *testing.T, material identity.Material) *profile.Profile {
	t.Helper()
	params := profile.Params{
		Domain:           "example.com",
		VlessRealityPort: 443,
		Hysteria2Port:    8443,
		TuicPort:         2083,
		VmessPort:        8080,
		VlessWSPort:      2096,
		WSPath:           "/vless",
	}
	p, err := profile.New(params, material)
	require.NoError(t, err)
	return p
}

func testMaterial() identity.Material {
	return identity.Material{
		Identity: "8f2c1e4a-7b3d-4a9e-b1c6-2d8e5f0a9b31",
		KeyPair:  identity.KeyPair{Private: "private-half", Public: "public-half"},
		ShortID:  "0123456789abcdef",
	}
}

func TestRenderInboundsInCanonicalOrder(t *testing.T) {
	doc, err := Render(testProfile(t, testMaterial()))
	require.NoError(t, err)
	require.Len(t, doc.Inbounds, 5)

	for i, kind := range profile.Kinds {
		assert.Equal(t, string(kind), doc.Inbounds[i].Tag)
	}
}

func TestRenderSharedIdentityAcrossInbounds(t *testing.T) {
	material := testMaterial()
	doc, err := Render(testProfile(t, material))
	require.NoError(t, err)

	for _, inbound := range doc.Inbounds {
		require.Len(t, inbound.Users, 1, "inbound %s", inbound.Tag)
		user := inbound.Users[0]
		switch inbound.Type {
		case "hysteria2":
			assert.Equal(t, material.Identity, user.Password)
		case "tuic":
			assert.Equal(t, material.Identity, user.UUID)
			assert.Equal(t, material.Identity, user.Password)
		default:
			assert.Equal(t, material.Identity, user.UUID)
		}
	}
}

func TestRenderRealityInbound(t *testing.T) {
	material := testMaterial()
	doc, err := Render(testProfile(t, material))
	require.NoError(t, err)

	reality := doc.Inbounds[0]
	assert.Equal(t, "vless", reality.Type)
	assert.Equal(t, 443, reality.ListenPort)
	require.NotNil(t, reality.TLS)
	require.NotNil(t, reality.TLS.Reality)
	assert.True(t, reality.TLS.Reality.Enabled)
	assert.Equal(t, material.KeyPair.Private, reality.TLS.Reality.PrivateKey)
	assert.Equal(t, []string{material.ShortID}, reality.TLS.Reality.ShortID)
	assert.Equal(t, profile.RealitySNIAllowList[0], reality.TLS.ServerName)
	assert.Equal(t, profile.RealitySNIAllowList[0], reality.TLS.Reality.Handshake.Server,
		"handshake fallback matches the advertised SNI")
}

func TestRenderPrivateKeyNeverPublic(t *testing.T) {
	material := testMaterial()
	doc, err := Render(testProfile(t, material))
	require.NoError(t, err)

	data, err := Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), material.KeyPair.Private)
	assert.NotContains(t, string(data), material.KeyPair.Public,
		"the public key belongs in client links, not the server config")
}

func TestRenderEgressAndRouting(t *testing.T) {
	doc, err := Render(testProfile(t, testMaterial()))
	require.NoError(t, err)

	require.Len(t, doc.Outbounds, 2)
	assert.Equal(t, "direct", doc.Outbounds[0].Tag)
	assert.Equal(t, "block", doc.Outbounds[1].Tag)

	require.Len(t, doc.Route.Rules, 2)
	assert.Equal(t, []string{"cn"}, doc.Route.Rules[0].Geosite)
	assert.Equal(t, "block", doc.Route.Rules[0].Outbound)
	assert.Equal(t, []string{"cn"}, doc.Route.Rules[1].GeoIP)
	assert.Equal(t, "block", doc.Route.Rules[1].Outbound)
	assert.Equal(t, "direct", doc.Route.Final)
}

func TestRenderTransportBlocks(t *testing.T) {
	doc, err := Render(testProfile(t, testMaterial()))
	require.NoError(t, err)

	vmess := doc.Inbounds[3]
	require.NotNil(t, vmess.Transport)
	assert.Equal(t, "ws", vmess.Transport.Type)
	assert.Equal(t, "/vless", vmess.Transport.Path)
	assert.Nil(t, vmess.TLS, "tunnel-fronted vmess terminates TLS outside the core")

	vlessWS := doc.Inbounds[4]
	require.NotNil(t, vlessWS.Transport)
	assert.Equal(t, "ws", vlessWS.Transport.Type)
	require.NotNil(t, vlessWS.TLS)
	require.NotNil(t, vlessWS.TLS.ACME)
	assert.Equal(t, []string{"example.com"}, vlessWS.TLS.ACME.Domain)
}

func TestRenderRejectsMissingShortID(t *testing.T) {
	material := testMaterial()
	material.ShortID = ""

	_, err := Render(testProfile(t, material))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "short id")
}

// Two runs with identical inputs differ only in key material values; the
// document shape (keys, nesting, ordering) is identical.
func TestRenderStructurallyIdenticalAcrossRuns(t *testing.T) {
	other := identity.Material{
		Identity: "11111111-2222-4333-8444-555555555555",
		KeyPair:  identity.KeyPair{Private: "other-private", Public: "other-public"},
		ShortID:  "fedcba9876543210",
	}

	first, err := Render(testProfile(t, testMaterial()))
	require.NoError(t, err)
	second, err := Render(testProfile(t, other))
	require.NoError(t, err)

	assert.Equal(t, shape(t, first), shape(t, second))
}

// shape reduces a document to its JSON key structure.
func shape(t *testing.T, doc *Document) string {
	t.Helper()
	data, err := Marshal(doc)
	require.NoError(t, err)

	var tree any
	require.NoError(t, json.Unmarshal(data, &tree))

	var b strings.Builder
	walkShape(&b, "", tree)
	return b.String()
}

func walkShape(b *strings.Builder, prefix string, node any) {
	switch v := node.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		// map iteration order is random; sort for a stable signature
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(prefix + k + "\n")
			walkShape(b, prefix+k+".", v[k])
		}
	case []any:
		for _, item := range v {
			walkShape(b, prefix+"[].", item)
		}
	}
}
