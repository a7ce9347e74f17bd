package provision

import (
	"github.com/creamcroissant/singprov/internal/artifact"
	"github.com/creamcroissant/singprov/internal/singbox"
)

// FileSink writes the artifacts to their configured paths atomically.
type FileSink struct {
	ServerConfigPath string
	SubscriptionPath string
	LinksPagePath    string
}

var _ Sink = (*FileSink)(nil)

func (s *FileSink) WriteServerConfig(doc *singbox.Document) error {
	return singbox.WriteFile(s.ServerConfigPath, doc)
}

func (s *FileSink) WriteSubscription(bundle string) error {
	return artifact.WriteAtomic(s.SubscriptionPath, []byte(bundle), 0o644)
}

func (s *FileSink) WriteLinksPage(page []byte) error {
	return artifact.WriteAtomic(s.LinksPagePath, page, 0o644)
}

func (s *FileSink) Remove() error {
	return artifact.Remove(s.ServerConfigPath, s.SubscriptionPath, s.LinksPagePath)
}
