// Package identity derives a deterministic team/season identity from a
// Transfermarkt team URL and maps it onto the on-disk roster cache.
package identity

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/ryanadelino-stack/compiler-api/internal/lookup"
)

var (
	teamIDPattern = regexp.MustCompile(`(?i)/verein/(\d+)`)
	seasonPattern = regexp.MustCompile(`(?i)/saison_id/(\d+)`)
	unsafeRun     = regexp.MustCompile(`[^a-z0-9-]+`)
	dashRun       = regexp.MustCompile(`-{2,}`)
)

// ErrEmptyURL is returned for a blank team URL.
var ErrEmptyURL = errors.New("team url is required")

// Team identifies one team season, e.g.
// https://www.transfermarkt.com.br/se-palmeiras-sao-paulo/startseite/verein/1023/saison_id/2025
// is {br 1023 2025 se-palmeiras-sao-paulo}.
type Team struct {
	Country string `json:"country"`
	TeamID  int    `json:"teamId"`
	Season  int    `json:"season"`
	Slug    string `json:"slug"`
}

func (t Team) String() string {
	return fmt.Sprintf("%s/%d/%d (%s)", t.Country, t.TeamID, t.Season, t.Slug)
}

// FromTeamURL parses a team URL. The scheme may be omitted.
func FromTeamURL(raw string) (Team, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Team{}, ErrEmptyURL
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Team{}, fmt.Errorf("invalid team url: %w", err)
	}

	teamID, err := extractInt(teamIDPattern, u.Path, "team id (verein)")
	if err != nil {
		return Team{}, err
	}
	season, err := extractInt(seasonPattern, u.Path, "season (saison_id)")
	if err != nil {
		return Team{}, err
	}

	return Team{
		Country: countryFromHost(strings.ToLower(u.Hostname())),
		TeamID:  teamID,
		Season:  season,
		Slug:    slugFromPath(u.Path),
	}, nil
}

func extractInt(re *regexp.Regexp, path, label string) (int, error) {
	m := re.FindStringSubmatch(path)
	if m == nil {
		return 0, fmt.Errorf("cannot extract %s from url path %q", label, path)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q", label, m[1])
	}
	return n, nil
}

func countryFromHost(host string) string {
	switch {
	case strings.HasSuffix(host, ".com.br"):
		return "br"
	case strings.HasSuffix(host, ".de"):
		return "de"
	case strings.HasSuffix(host, ".com"):
		return "com"
	case host == "":
		return "unknown"
	}
	return host
}

// slugFromPath takes the first path segment and makes it file-name safe.
func slugFromPath(path string) string {
	first, _, _ := strings.Cut(strings.TrimPrefix(strings.TrimSpace(path), "/"), "/")
	return Slug(first)
}

// Slug lowercases, strips accents and reduces s to [a-z0-9-].
func Slug(s string) string {
	t := lookup.Fold(s)
	t = unsafeRun.ReplaceAllString(t, "-")
	t = dashRun.ReplaceAllString(t, "-")
	t = strings.Trim(t, "-")
	if t == "" {
		return "team"
	}
	return t
}
