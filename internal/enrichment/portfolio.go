package enrichment

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/SomeshSampat2/AgentHire/internal/types"
)

const (
	maxProjectSections = 5
	maxProjectText     = 200
)

// techKeywords are matched as substrings of the lower-cased page text.
var techKeywords = []string{
	"javascript", "python", "java", "react", "angular", "vue", "node",
	"django", "flask", "spring", "docker", "kubernetes", "aws", "azure",
	"mongodb", "postgresql", "mysql", "redis", "tensorflow", "pytorch",
	"git", "jenkins", "terraform", "html", "css", "typescript", "go",
	"rust", "php", "ruby", "rails", "laravel", "express", "fastapi",
}

var (
	projectClassRe = regexp.MustCompile(`(?i)project|portfolio|work`)
	emailRe        = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	titleCaser     = cases.Title(language.English)
)

// socialHosts maps a link host fragment to its contact_info key.
var socialHosts = []struct{ host, key string }{
	{"linkedin.com", "linkedin"},
	{"github.com", "github"},
	{"twitter.com", "twitter"},
}

// portfolio scrapes a personal site with keyword and markup heuristics.
// A non-200 answer yields a snapshot holding only the URL.
func (f *Fetcher) portfolio(ctx context.Context, url string) (*types.PortfolioSnapshot, error) {
	snapshot := &types.PortfolioSnapshot{
		URL:          url,
		Technologies: []string{},
		Projects:     []types.PortfolioItem{},
		ContactInfo:  types.ContactInfo{SocialLinks: map[string]string{}},
		MetaTags:     map[string]string{},
	}

	result, err := f.pages.Get(ctx, url)
	if err != nil {
		if status := httpStatus(err); status != 0 {
			f.logger.Warn("portfolio returned an error status", zap.String("url", url), zap.Int("status", status))
			return snapshot, nil
		}
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(result.HTML))
	if err != nil {
		return nil, err
	}
	parsePortfolio(doc, snapshot)
	f.logger.Info("portfolio fetched",
		zap.String("url", url),
		zap.Int("technologies", len(snapshot.Technologies)),
		zap.Int("projects", len(snapshot.Projects)),
	)
	return snapshot, nil
}

func parsePortfolio(doc *goquery.Document, s *types.PortfolioSnapshot) {
	s.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		s.Description = desc
	}

	pageText := strings.ToLower(doc.Text())
	for _, tech := range techKeywords {
		if strings.Contains(pageText, tech) {
			s.Technologies = append(s.Technologies, titleCaser.String(tech))
		}
	}

	doc.Find("section, div").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		return projectClassRe.MatchString(class)
	}).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= maxProjectSections {
			return false
		}
		heading := sel.Find("h1, h2, h3, h4").First()
		if heading.Length() > 0 {
			s.Projects = append(s.Projects, types.PortfolioItem{
				Title:       collapseSpace(heading.Text()),
				Description: truncateRunes(collapseSpace(sel.Text()), maxProjectText),
			})
		}
		return true
	})

	if email := emailRe.FindString(pageText); email != "" {
		s.ContactInfo.Email = email
	}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		lower := strings.ToLower(href)
		for _, social := range socialHosts {
			if strings.Contains(lower, social.host) {
				s.ContactInfo.SocialLinks[social.key] = href
				break
			}
		}
	})

	doc.Find("meta").Each(func(_ int, m *goquery.Selection) {
		content, _ := m.Attr("content")
		if prop, ok := m.Attr("property"); ok && prop != "" {
			s.MetaTags[prop] = content
		} else if name, ok := m.Attr("name"); ok && name != "" {
			s.MetaTags[name] = content
		}
	})
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
