package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/SomeshSampat2/AgentHire/internal/types"
)

// Metadata describes where ingested job text came from.
type Metadata struct {
	URL       string `json:"url,omitempty"`
	Timestamp string `json:"timestamp"`
	Hash      string `json:"hash"`
	Platform  string `json:"platform,omitempty"`
	// Rendered is set when the text came from the headless browser.
	Rendered  bool `json:"rendered,omitempty"`
	Truncated bool `json:"truncated,omitempty"`
}

// NewMetadata stamps content with the current time and its SHA-256.
func NewMetadata(content string, url string) *Metadata {
	return &Metadata{
		URL:       url,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
	}
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// JobSource converts the metadata into the source block attached to a job record.
func (m *Metadata) JobSource() *types.JobSource {
	return &types.JobSource{
		URL:       m.URL,
		Platform:  m.Platform,
		Hash:      m.Hash,
		FetchedAt: m.Timestamp,
		Rendered:  m.Rendered,
		Truncated: m.Truncated,
	}
}
