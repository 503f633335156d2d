// Package filename builds safe output filenames for crop exports.
package filename

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// invalidCharsRe matches characters not safe for filenames across all major OSes.
// ':' is among them, which matters for ratio labels like "9:16".
var invalidCharsRe = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f\s]`)

var multiDash = regexp.MustCompile(`[-_]{2,}`)

const maxLen = 120

// Sanitize turns s into a filename-safe slug: unsafe characters and
// whitespace become dashes, runs collapse, and leading or trailing dashes
// and dots are stripped.
func Sanitize(s string) string {
	s = invalidCharsRe.ReplaceAllString(strings.TrimSpace(s), "-")
	s = multiDash.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-.")
	if len(s) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = strings.TrimRight(s[:cut], "-.")
	}
	return s
}

// CropOutput names the export of input cropped to the given ratio label,
// next to the input: "/v/clip.mp4" + "9:16" -> "/v/clip-crop-9-16.mp4".
func CropOutput(input, label string) string {
	dir, base := filepath.Split(input)
	ext := filepath.Ext(base)
	stem := Sanitize(strings.TrimSuffix(base, ext))
	if stem == "" {
		stem = "video"
	}
	name := stem + "-crop"
	if l := Sanitize(label); l != "" {
		name += "-" + l
	}
	if ext == "" {
		ext = ".mp4"
	}
	return dir + name + ext
}
