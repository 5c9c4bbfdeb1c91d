package curator

import (
	"regexp"
	"strings"
)

var (
	numberedMarker  = regexp.MustCompile(`\d+[.\-]\s*`)
	bulletMarker    = regexp.MustCompile(`[-•]\s*`)
	formattedStart  = regexp.MustCompile(`^[\d\-•*]`)
	formattedPrefix = regexp.MustCompile(`^[\d\-•*.\s]+`)
	sentenceSplit   = regexp.MustCompile(`[.;]`)
)

// ParseKeypoints breaks a model-written summary into display bullets. The
// formats are tried in order: numbered items, dash or bullet items,
// formatted lines, plain lines, sentence fragments longer than ten
// characters. Each format needs at least two hits to win; otherwise the
// whole summary is a single bullet.
func ParseKeypoints(summary string) []string {
	if kps := splitOnMarkers(summary, numberedMarker); len(kps) >= 2 {
		return kps
	}
	if kps := splitOnMarkers(summary, bulletMarker); len(kps) >= 2 {
		return kps
	}

	lines := nonEmptyLines(summary)
	if len(lines) >= 2 {
		formatted := make([]string, 0, len(lines))
		for _, l := range lines {
			if !formattedStart.MatchString(l) {
				continue
			}
			if stripped := strings.TrimSpace(formattedPrefix.ReplaceAllString(l, "")); stripped != "" {
				formatted = append(formatted, stripped)
			}
		}
		if len(formatted) >= 2 {
			return formatted
		}
		return lines
	}

	sentences := make([]string, 0, 4)
	for _, s := range sentenceSplit.Split(summary, -1) {
		if s = strings.TrimSpace(s); len(s) > 10 {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) >= 2 {
		return sentences
	}

	return []string{summary}
}

// splitOnMarkers cuts each line at the marker positions and returns the
// trimmed segments between them.
func splitOnMarkers(summary string, marker *regexp.Regexp) []string {
	var out []string
	for _, line := range strings.Split(summary, "\n") {
		locs := marker.FindAllStringIndex(line, -1)
		for i, loc := range locs {
			end := len(line)
			if i+1 < len(locs) {
				end = locs[i+1][0]
			}
			if seg := strings.TrimSpace(line[loc[1]:end]); seg != "" {
				out = append(out, seg)
			}
		}
	}
	return out
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
