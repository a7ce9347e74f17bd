// Package provision runs the single-pass pipeline: identity material, then
// profile, then server config, share links and the subscription bundle. All
// validation and encoding happens before the first write, so a failed run
// leaves no partial artifacts behind.
package provision

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/creamcroissant/singprov/internal/identity"
	"github.com/creamcroissant/singprov/internal/profile"
	"github.com/creamcroissant/singprov/internal/sharelink"
	"github.com/creamcroissant/singprov/internal/singbox"
	"github.com/creamcroissant/singprov/internal/subscription"
)

// Sink receives the finished artifacts. The file implementation lives in
// sink.go; tests substitute an in-memory fake.
type Sink interface {
	WriteServerConfig(doc *singbox.Document) error
	WriteSubscription(bundle string) error
	WriteLinksPage(page []byte) error
	Remove() error
}

// Artifacts is everything one successful run produces.
type Artifacts struct {
	Profile *profile.Profile
	Config  *singbox.Document
	Links   []sharelink.Link
	Bundle  string
}

// Pipeline wires the collaborators of a provisioning run.
type Pipeline struct {
	generator *identity.Generator
	sink      Sink
	logger    *slog.Logger
}

// NewPipeline builds a pipeline. Logger may be nil for a silent run.
func NewPipeline(generator *identity.Generator, sink Sink, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{generator: generator, sink: sink, logger: logger}
}

// Run executes the whole pipeline and persists the artifacts. Key material
// is regenerated on every call; nothing from a previous run is reused.
func (p *Pipeline) Run(ctx context.Context, params profile.Params) (*Artifacts, error) {
	// Validate inputs before spending entropy or invoking the key source.
	if err := params.Validate(); err != nil {
		return nil, err
	}

	material, err := p.generator.Generate(ctx)
	if err != nil {
		return nil, err
	}
	p.logger.Info("identity material generated", "short_id", material.ShortID)

	prof, err := profile.New(params, material)
	if err != nil {
		return nil, err
	}

	doc, err := singbox.Render(prof)
	if err != nil {
		return nil, fmt.Errorf("synthesize server profile: %w", err)
	}

	links, err := sharelink.Build(prof)
	if err != nil {
		return nil, err
	}
	bundle := subscription.Encode(links)

	page, err := subscription.RenderPage(links)
	if err != nil {
		return nil, err
	}

	// Everything rendered and consistent; only now touch the filesystem.
	if err := p.sink.WriteServerConfig(doc); err != nil {
		return nil, err
	}
	if err := p.sink.WriteSubscription(bundle); err != nil {
		return nil, err
	}
	if err := p.sink.WriteLinksPage(page); err != nil {
		return nil, err
	}
	p.logger.Info("provisioning complete", "domain", prof.Domain, "endpoints", len(prof.Endpoints))

	return &Artifacts{Profile: prof, Config: doc, Links: links, Bundle: bundle}, nil
}

// Uninstall removes every artifact the pipeline writes.
func (p *Pipeline) Uninstall() error {
	return p.sink.Remove()
}
