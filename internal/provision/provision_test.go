package provision

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/creamcroissant/singprov/internal/identity"
	"github.com/creamcroissant/singprov/internal/profile"
	"github.com/creamcroissant/singprov/internal/singbox"
	"github.com/creamcroissant/singprov/internal/subscription"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	config       *singbox.Document
	subscription string
	page         []byte
	writes       int
	removed      bool
}

func (s *memorySink) WriteServerConfig(doc *singbox.Document) error {
	s.config = doc
	s.writes++
	return nil
}

func (s *memorySink) WriteSubscription(bundle string) error {
	s.subscription = bundle
	s.writes++
	return nil
}

func (s *memorySink) WriteLinksPage(page []byte) error {
	s.page = page
	s.writes++
	return nil
}

func (s *memorySink) Remove() error {
	s.removed = true
	return nil
}

func testParams() profile.Params {
	return profile.Params{
		Domain:           "example.com",
		VlessRealityPort: 443,
		Hysteria2Port:    8443,
		TuicPort:         2083,
		VmessPort:        8080,
		VlessWSPort:      2096,
		WSPath:           "/vless",
	}
}

func newTestPipeline(sink Sink) *Pipeline {
	generator := identity.NewGenerator(nil, identity.LocalKeygen{})
	return NewPipeline(generator, sink, nil)
}

func TestRunProducesConsistentArtifacts(t *testing.T) {
	sink := &memorySink{}
	artifacts, err := newTestPipeline(sink).Run(context.Background(), testParams())
	require.NoError(t, err)

	require.NotNil(t, artifacts.Profile)
	require.NotNil(t, sink.config)
	assert.Equal(t, 3, sink.writes)

	// The same identity threads through config and links without drift.
	assert.Equal(t, artifacts.Profile.Identity, sink.config.Inbounds[0].Users[0].UUID)
	for _, link := range artifacts.Links {
		if link.Kind != profile.KindVmessWS {
			assert.Contains(t, link.URL, artifacts.Profile.Identity)
		}
	}

	// The persisted bundle decodes back to the exact link list.
	decoded, err := subscription.Decode(sink.subscription)
	require.NoError(t, err)
	require.Len(t, decoded, 5)
	for i, link := range artifacts.Links {
		assert.Equal(t, link.URL, decoded[i])
	}

	assert.NotEmpty(t, sink.page)
}

func TestRunValidatesBeforeAnyWrite(t *testing.T) {
	params := testParams()
	params.TuicPort = 0

	sink := &memorySink{}
	_, err := newTestPipeline(sink).Run(context.Background(), params)

	var vErr *profile.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "tuic_port", vErr.Field)
	assert.Zero(t, sink.writes, "validation failures must not produce partial artifacts")
}

func TestRunRegeneratesMaterialPerRun(t *testing.T) {
	pipeline := newTestPipeline(&memorySink{})

	first, err := pipeline.Run(context.Background(), testParams())
	require.NoError(t, err)
	second, err := pipeline.Run(context.Background(), testParams())
	require.NoError(t, err)

	assert.NotEqual(t, first.Profile.Identity, second.Profile.Identity)
	assert.NotEqual(t, first.Profile.ShortID, second.Profile.ShortID)
	assert.NotEqual(t, first.Profile.KeyPair.Private, second.Profile.KeyPair.Private)
}

func TestFileSinkWritesAndRemoves(t *testing.T) {
	dir := t.TempDir()
	sink := &FileSink{
		ServerConfigPath: filepath.Join(dir, "config.json"),
		SubscriptionPath: filepath.Join(dir, "sub.txt"),
		LinksPagePath:    filepath.Join(dir, "links.html"),
	}

	pipeline := newTestPipeline(sink)
	artifacts, err := pipeline.Run(context.Background(), testParams())
	require.NoError(t, err)

	sub, err := os.ReadFile(sink.SubscriptionPath)
	require.NoError(t, err)
	assert.Equal(t, artifacts.Bundle, string(sub))

	for _, path := range []string{sink.ServerConfigPath, sink.LinksPagePath} {
		_, err := os.Stat(path)
		require.NoError(t, err)
	}

	require.NoError(t, pipeline.Uninstall())
	for _, path := range []string{sink.ServerConfigPath, sink.SubscriptionPath, sink.LinksPagePath} {
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err), "%s should be gone", path)
	}
}

func TestRunKeygenFailureAborts(t *testing.T) {
	sink := &memorySink{}
	generator := identity.NewGenerator(nil, failingKeygen{})
	pipeline := NewPipeline(generator, sink, nil)

	_, err := pipeline.Run(context.Background(), testParams())
	var kgErr *identity.KeyGenerationError
	require.ErrorAs(t, err, &kgErr)
	assert.Zero(t, sink.writes)
}

type failingKeygen struct{}

func (failingKeygen) GenerateKeyPair(context.Context) (identity.KeyPair, error) {
	return identity.KeyPair{}, &identity.KeyGenerationError{Reason: "unparseable output"}
}
