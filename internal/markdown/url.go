package markdown

import (
	"regexp"
	"strings"
)

var schemeRegexp = regexp.MustCompile(`(?i)([a-z0-9+.-]+):`)

// GetScheme returns the scheme of url or an empty string if url does not
// contain one.
func GetScheme(url string) string {
	m := schemeRegexp.FindStringSubmatch(url)
	if m == nil {
		return ""
	}

	return m[1]
}

// URLFilter decides whether a URL may be turned into a link automatically.
type URLFilter func(url string) bool

// NewURLFilter returns a filter that accepts URLs without a scheme and URLs
// whose scheme is listed in schemes. Scheme comparison ignores case.
func NewURLFilter(schemes []string) URLFilter {
	allowed := make(map[string]struct{}, len(schemes))
	for _, s := range schemes {
		allowed[strings.ToLower(s)] = struct{}{}
	}

	return func(url string) bool {
		scheme := GetScheme(url)
		if scheme == "" {
			return true
		}

		_, ok := allowed[strings.ToLower(scheme)]
		return ok
	}
}

// NormalizeProtocol lower-cases the protocol part of url.
func NormalizeProtocol(url string) string {
	idx := strings.Index(url, ":")
	if idx < 0 {
		return url
	}

	return strings.ToLower(url[:idx]) + url[idx:]
}

type DeepLinkType string

const (
	DeepLinkChannel   DeepLinkType = "channel"
	DeepLinkPermalink DeepLinkType = "permalink"
)

type DeepLink struct {
	Type        DeepLinkType
	TeamName    string
	ChannelName string
	PostID      string
}

// MatchDeepLink checks whether url points to a channel or a post permalink
// on the server at serverURL or siteURL. Relative URLs are matched as well.
func MatchDeepLink(url, serverURL, siteURL string) *DeepLink {
	if url == "" || serverURL == "" || siteURL == "" {
		return nil
	}

	root := "(?:" + regexp.QuoteMeta(serverURL) + "|" + regexp.QuoteMeta(siteURL) + ")?"

	if m := regexp.MustCompile(`^` + root + `/([^/]+)/channels/(\S+)`).FindStringSubmatch(url); m != nil {
		return &DeepLink{
			Type:        DeepLinkChannel,
			TeamName:    m[1],
			ChannelName: m[2],
		}
	}

	if m := regexp.MustCompile(`^` + root + `/([^/]+)/pl/(\w+)`).FindStringSubmatch(url); m != nil {
		return &DeepLink{
			Type:     DeepLinkPermalink,
			TeamName: m[1],
			PostID:   m[2],
		}
	}

	return nil
}
