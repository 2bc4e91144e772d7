package videos

import (
	"regexp"
	"strings"
)

var (
	bareYouTubeID = regexp.MustCompile(`^[A-Za-z0-9_-]{6,}$`)
	youTubeURL    = regexp.MustCompile(`(?i)(?:youtube\.com/(?:watch\?v=|embed/|v/)|youtu\.be/)([A-Za-z0-9_-]{6,})`)
)

// ExtractYouTubeID returns the video id in input, which is either a bare id
// or a watch, embed, v or youtu.be URL. It returns "" when there is none.
func ExtractYouTubeID(input string) string {
	plain := strings.TrimSpace(input)
	if plain == "" {
		return ""
	}

	if bareYouTubeID.MatchString(plain) {
		return plain
	}

	if m := youTubeURL.FindStringSubmatch(plain); m != nil {
		return m[1]
	}

	return ""
}
