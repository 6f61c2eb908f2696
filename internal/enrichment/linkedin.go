package enrichment

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/SomeshSampat2/AgentHire/internal/types"
)

const maxLinkedInSummary = 500

// linkedIn scrapes the public profile page. LinkedIn usually refuses anonymous
// clients, so a non-200 answer yields an empty snapshot rather than an error.
func (f *Fetcher) linkedIn(ctx context.Context, url string) (*types.LinkedInSnapshot, error) {
	snapshot := &types.LinkedInSnapshot{
		URL:            url,
		Experience:     []map[string]string{},
		Education:      []map[string]string{},
		Skills:         []string{},
		Endorsements:   map[string]int{},
		Certifications: []string{},
	}

	result, err := f.pages.Get(ctx, url)
	if err != nil {
		if status := httpStatus(err); status != 0 {
			f.logger.Warn("LinkedIn refused profile page", zap.String("url", url), zap.Int("status", status))
			return snapshot, nil
		}
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(result.HTML))
	if err != nil {
		return nil, err
	}
	snapshot.Headline = strings.TrimSpace(doc.Find("h2.text-heading-large").First().Text())
	summary := strings.TrimSpace(doc.Find(`section[data-section="summary"]`).First().Text())
	snapshot.Summary = truncateRunes(summary, maxLinkedInSummary)
	return snapshot, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
