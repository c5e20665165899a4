package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/avetisov/jobradar/internal/listing"
	"github.com/avetisov/jobradar/internal/logger"
	"github.com/avetisov/jobradar/internal/profile"
)

const (
	remoteOKAPIURL  = "https://remoteok.com/api"
	remoteOKSiteURL = "https://remoteok.com"

	// Max live listings kept per target role.
	remoteOKPerRole = 15

	remoteOKDescriptionLimit = 1000
)

// RemoteOK fetches remote positions from the RemoteOK JSON API, one
// request per target role. When the platform blocks access the adapter
// silently downgrades to search-link stubs for the remainder of the run.
type RemoteOK struct {
	client  *Client
	limiter *rate.Limiter
	logger  *zap.Logger

	// APIURL is overridable in tests.
	APIURL string

	live    bool
	blocked bool
}

// NewRemoteOK constructs the adapter. live reflects constructor-time
// capability detection: when false the adapter only generates search
// links. interval is the minimum spacing between per-role requests.
func NewRemoteOK(client *Client, interval time.Duration, live bool, logger *zap.Logger) *RemoteOK {
	return &RemoteOK{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:  logger.With(zap.String("platform", PlatformRemoteOK)),
		APIURL:  remoteOKAPIURL,
		live:    live,
	}
}

func (r *RemoteOK) Name() string { return PlatformRemoteOK }

// remoteOKItem mirrors one entry of the RemoteOK API array. The id
// comes back as either a number or a string depending on the posting,
// hence the weakly typed decode below.
type remoteOKItem struct {
	ID          string `json:"id"`
	Position    string `json:"position"`
	Company     string `json:"company"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

func (r *RemoteOK) Fetch(ctx context.Context, p *profile.Profile) ([]listing.Listing, Outcome) {
	var items []listing.Listing
	var live, fallback, failed int

	for _, role := range p.TargetRoles {
		if !r.live || r.blocked {
			items = append(items, r.fallbackListing(role))
			fallback++
			continue
		}

		if err := r.limiter.Wait(ctx); err != nil {
			// Run budget exhausted: stop issuing new requests.
			break
		}

		fetched, err := r.fetchRole(ctx, role, p)
		if errors.Is(err, ErrBlocked) {
			r.logger.Warn("platform blocked access, using search links for the rest of the run", zap.Error(err))
			r.blocked = true
			items = append(items, r.fallbackListing(role))
			fallback++
			continue
		}
		if err != nil {
			r.logger.Warn("fetching role failed", zap.String("role", role), zap.Error(err))
			failed++
			continue
		}

		items = append(items, fetched...)
		live++
	}

	return items, resolveOutcome(live, fallback, failed)
}

func (r *RemoteOK) fetchRole(ctx context.Context, role string, p *profile.Profile) ([]listing.Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.APIURL, nil)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("tags", strings.ToLower(role))

	data, err := r.client.Get(req, q)
	if err != nil {
		return nil, err
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		r.logger.Debug("undecodable response", zap.String("body", logger.TruncateForLog(string(data), 200)))
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	// The first array element is sentinel metadata, not a posting.
	if len(raw) > 0 && fmt.Sprint(raw[0]["id"]) == "0" {
		raw = raw[1:]
	}

	var decoded []remoteOKItem
	decoder, _ := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &decoded,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding items: %w", err)
	}

	items := make([]listing.Listing, 0, remoteOKPerRole)
	for _, item := range decoded {
		if len(items) == remoteOKPerRole {
			break
		}
		if item.ID == "" {
			// Malformed record, skip it and keep going.
			continue
		}

		title := item.Position
		if title == "" {
			title = titleCase(role)
		}
		company := item.Company
		if company == "" {
			company = "Unknown"
		}

		description := truncate(StripTags(item.Description), remoteOKDescriptionLimit)

		items = append(items, listing.Listing{
			Title:          title,
			Company:        company,
			Location:       "Remote",
			URL:            remoteOKSiteURL + item.URL,
			Description:    description,
			Platform:       PlatformRemoteOK,
			PostedDate:     item.Date,
			RequiredSkills: ExtractSkills(description+" "+title, p.Skills),
		})
	}

	r.logger.Debug("scraped role", zap.String("role", role), zap.Int("count", len(items)))

	return items, nil
}

func (r *RemoteOK) fallbackListing(role string) listing.Listing {
	return listing.Listing{
		Title:          "Remote " + titleCase(role),
		Company:        "RemoteOK Search",
		Location:       "Remote",
		URL:            fmt.Sprintf("%s/remote-%s-jobs", remoteOKSiteURL, url.PathEscape(role)),
		Description:    fmt.Sprintf("Remote %s positions from RemoteOK", role),
		Platform:       PlatformRemoteOK,
		RequiredSkills: []string{role},
		Stub:           true,
	}
}

// titleCase capitalizes the first letter of every word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
