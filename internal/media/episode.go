// Package media holds filename conventions for the content tree: which files
// are videos, how TV episode numbers are encoded and how movie titles are
// recovered from release-style names.
package media

import (
	"path"
	"regexp"
	"strconv"
	"strings"
)

// EpisodeNumber is a parsed season/episode pair. Both fields are nil when the
// name could not be parsed.
type EpisodeNumber struct {
	Season  *int `json:"season"`
	Episode *int `json:"episode"`
}

// OK reports whether both numbers were found.
func (e EpisodeNumber) OK() bool { return e.Season != nil && e.Episode != nil }

// Ordered from most to least specific.
var episodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)season[\s._-]*(\d{1,2})[\s._-]*(?:episode|ep|e)[\s._-]*(\d{1,3})`),
	regexp.MustCompile(`(?i)(?:^|[^a-z])s(\d{1,2})[\s._-]*e(\d{1,3})`),
	regexp.MustCompile(`(?i)(?:^|[^\d])(\d{1,2})x(\d{2,3})(?:[^\d]|$)`),
}

// ParseEpisode extracts season and episode numbers from a filename.
// Directory components are ignored.
func ParseEpisode(name string) EpisodeNumber {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	for _, re := range episodePatterns {
		m := re.FindStringSubmatch(base)
		if m == nil {
			continue
		}
		s, err1 := strconv.Atoi(m[1])
		e, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil {
			continue
		}
		return EpisodeNumber{Season: &s, Episode: &e}
	}
	return EpisodeNumber{}
}

// episodeMarker finds where the episode marker starts in a base filename.
func episodeMarker(base string) int {
	idx := -1
	for _, re := range episodePatterns {
		loc := re.FindStringIndex(base)
		if loc != nil && (idx == -1 || loc[0] < idx) {
			idx = loc[0]
		}
	}
	return idx
}

// ShowNameFromPath derives the show name for an episode key relative to root.
// "tv/Show Name/Season 1/x.mkv" under root "tv" yields "Show Name"; a file
// directly under root falls back to the text before the episode marker.
func ShowNameFromPath(root, key string) string {
	key = strings.Trim(strings.ReplaceAll(key, `\`, "/"), "/")
	root = strings.Trim(strings.ReplaceAll(root, `\`, "/"), "/")
	rel := key
	if root != "" && strings.HasPrefix(key, root+"/") {
		rel = strings.TrimPrefix(key, root+"/")
	}
	if i := strings.Index(rel, "/"); i > 0 {
		return rel[:i]
	}

	base := strings.TrimSuffix(rel, path.Ext(rel))
	if i := episodeMarker(base); i > 0 {
		base = base[:i]
	}
	return normalizeSpaces(base)
}
