package media

import (
	"path"
	"regexp"
	"strconv"
	"strings"
)

var videoExts = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".m4v":  true,
	".webm": true,
	".wmv":  true,
}

// IsVideo reports whether name has a video file extension.
func IsVideo(name string) bool {
	return videoExts[strings.ToLower(path.Ext(name))]
}

var (
	yearRe      = regexp.MustCompile(`(?:^|[^\d])((?:19|20)\d{2})(?:[^\d]|$)`)
	bracketRe   = regexp.MustCompile(`\[[^\]]*\]`)
	separatorRe = regexp.MustCompile(`[._]+`)
	spaceRe     = regexp.MustCompile(`\s+`)
	qualityRe   = regexp.MustCompile(`(?i)\b(2160p|1080p|720p|480p|4k|uhd|bluray|blu-ray|brrip|bdrip|webrip|web-dl|hdtv|dvdrip|x264|x265|h264|h265|hevc|hdr|remux|repack)\b`)
)

func normalizeSpaces(s string) string {
	s = separatorRe.ReplaceAllString(s, " ")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.Trim(strings.TrimSpace(s), "-( ")
}

// yearIndex returns the position and value of the release year, ignoring a
// year that starts the name (as in "2001 A Space Odyssey").
func yearIndex(base string) (int, int) {
	matches := yearRe.FindAllStringSubmatchIndex(base, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		start := matches[i][2]
		if start == 0 {
			continue
		}
		y, _ := strconv.Atoi(base[start:matches[i][3]])
		return start, y
	}
	return -1, 0
}

// YearFromName returns the release year embedded in a filename, or 0.
func YearFromName(name string) int {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	_, y := yearIndex(base)
	return y
}

// CleanTitle turns a release-style filename into a search title:
// "The.Matrix.1999.1080p.BluRay.x264.mkv" → "The Matrix".
func CleanTitle(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	base = bracketRe.ReplaceAllString(base, " ")

	cut := len(base)
	if i, _ := yearIndex(base); i >= 0 && i < cut {
		cut = i
	}
	if loc := qualityRe.FindStringIndex(base); loc != nil && loc[0] > 0 && loc[0] < cut {
		cut = loc[0]
	}
	return normalizeSpaces(base[:cut])
}
