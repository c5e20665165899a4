package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/avetisov/jobradar/internal/listing"
	"github.com/avetisov/jobradar/internal/profile"
)

const (
	indeedBaseURL  = "https://www.indeed.com"
	indeedJobsPath = "/jobs"

	// Max listings kept per target role.
	indeedPerRole = 20

	indeedDescriptionLimit = 1000

	indeedDefaultLocation = "United States"
)

// Card and field selectors, first non-empty match wins. Indeed serves
// different markup generations to different clients, so each field
// carries the selectors of every generation seen in the wild.
var (
	indeedCardMatchers = []nodeMatch{
		elementWithClass("div", "job_seen_beacon"),
		elementWithAttr("div", "data-jk", ""),
		elementWithClass("div", "jobsearch-SerpJobCard"),
		elementWithClass("div", "tapItem"),
	}

	indeedTitleStrategies = []extractStrategy{
		{match: elementWithClass("h2", "jobTitle")},
		{match: elementWithClass("a", "jcs-JobTitle")},
		{match: element("h2")},
	}

	indeedCompanyStrategies = []extractStrategy{
		{match: elementWithClass("span", "companyName")},
		{match: elementWithAttr("span", "data-testid", "company-name")},
		{match: elementWithClass("span", "company")},
	}

	indeedLocationStrategies = []extractStrategy{
		{match: elementWithClass("div", "companyLocation")},
		{match: elementWithAttr("div", "data-testid", "job-location")},
	}

	indeedDateStrategies = []extractStrategy{
		{match: elementWithClass("span", "date")},
		{match: elementWithAttr("span", "data-testid", "myJobsStateDate")},
	}

	indeedSnippetStrategies = []extractStrategy{
		{match: elementWithClass("div", "job-snippet")},
		{match: elementWithClass("div", "summary")},
	}
)

// Indeed scrapes the public search results page, one request per target
// role. Blocked access (403/429) downgrades the adapter to search-link
// stubs for the remainder of the run.
type Indeed struct {
	client  *Client
	limiter *rate.Limiter
	logger  *zap.Logger

	// BaseURL is overridable in tests.
	BaseURL string

	live    bool
	blocked bool
}

func NewIndeed(client *Client, interval time.Duration, live bool, logger *zap.Logger) *Indeed {
	return &Indeed{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:  logger.With(zap.String("platform", PlatformIndeed)),
		BaseURL: indeedBaseURL,
		live:    live,
	}
}

func (a *Indeed) Name() string { return PlatformIndeed }

func (a *Indeed) Fetch(ctx context.Context, p *profile.Profile) ([]listing.Listing, Outcome) {
	location := p.PrimaryLocation(indeedDefaultLocation)

	var items []listing.Listing
	var live, fallback, failed int

	for _, role := range p.TargetRoles {
		if !a.live || a.blocked {
			items = append(items, a.fallbackListing(role, location, p.RemotePreference))
			fallback++
			continue
		}

		if err := a.limiter.Wait(ctx); err != nil {
			break
		}

		fetched, err := a.fetchRole(ctx, role, location, p)
		if errors.Is(err, ErrBlocked) {
			a.logger.Warn("platform blocked access, using search links for the rest of the run", zap.Error(err))
			a.blocked = true
			items = append(items, a.fallbackListing(role, location, p.RemotePreference))
			fallback++
			continue
		}
		if err != nil {
			a.logger.Warn("fetching role failed", zap.String("role", role), zap.Error(err))
			failed++
			continue
		}

		items = append(items, fetched...)
		live++
	}

	return items, resolveOutcome(live, fallback, failed)
}

func (a *Indeed) fetchRole(ctx context.Context, role, location string, p *profile.Profile) ([]listing.Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+indeedJobsPath, nil)
	if err != nil {
		return nil, err
	}

	data, err := a.client.Get(req, a.searchParams(role, location, p.RemotePreference))
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}

	var cards []*html.Node
	for _, match := range indeedCardMatchers {
		if cards = findNodes(doc, match); len(cards) > 0 {
			break
		}
	}

	items := make([]listing.Listing, 0, indeedPerRole)
	for _, card := range cards {
		if len(items) == indeedPerRole {
			break
		}

		item, ok := a.parseCard(card, location, p)
		if !ok {
			// Card without title or link, skip it and keep going.
			continue
		}
		items = append(items, item)
	}

	a.logger.Debug("scraped role", zap.String("role", role), zap.Int("count", len(items)))

	return items, nil
}

func (a *Indeed) parseCard(card *html.Node, location string, p *profile.Profile) (listing.Listing, bool) {
	title := extractText(card, indeedTitleStrategies)
	if title == "" {
		return listing.Listing{}, false
	}

	link := a.jobLink(card)
	if link == "" {
		return listing.Listing{}, false
	}

	company := extractText(card, indeedCompanyStrategies)
	if company == "" {
		company = "Unknown"
	}

	jobLocation := extractText(card, indeedLocationStrategies)
	if jobLocation == "" {
		jobLocation = location
	}

	description := truncate(extractText(card, indeedSnippetStrategies), indeedDescriptionLimit)

	return listing.Listing{
		Title:          title,
		Company:        company,
		Location:       jobLocation,
		URL:            link,
		Description:    description,
		Platform:       PlatformIndeed,
		PostedDate:     extractText(card, indeedDateStrategies),
		RequiredSkills: ExtractSkills(description+" "+title, p.Skills),
	}, true
}

// jobLink finds the first anchor pointing at a job page within a card.
func (a *Indeed) jobLink(card *html.Node) string {
	anchor := findNode(card, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "a" {
			return false
		}
		href := attrValue(n, "href")
		return strings.Contains(href, "/viewjob?") ||
			strings.Contains(href, "/job/") ||
			strings.Contains(href, "/pagead/")
	})
	if anchor == nil {
		return ""
	}

	href := attrValue(anchor, "href")
	if strings.HasPrefix(href, "/") {
		return a.BaseURL + href
	}
	return href
}

func (a *Indeed) searchParams(role, location string, remote bool) url.Values {
	q := url.Values{}
	q.Set("q", role)
	q.Set("l", location)
	q.Set("fromage", "7")
	q.Set("sort", "date")
	if remote {
		q.Set("remote", "true")
	}
	return q
}

func (a *Indeed) fallbackListing(role, location string, remote bool) listing.Listing {
	q := url.Values{}
	q.Set("q", role)
	q.Set("l", location)
	if remote {
		q.Set("remote", "true")
	}

	return listing.Listing{
		Title:          titleCase(role) + " - Indeed",
		Company:        "Indeed Search",
		Location:       location,
		URL:            fmt.Sprintf("%s%s?%s", indeedBaseURL, indeedJobsPath, q.Encode()),
		Description:    fmt.Sprintf("%s positions from Indeed", role),
		Platform:       PlatformIndeed,
		RequiredSkills: []string{role},
		Stub:           true,
	}
}
