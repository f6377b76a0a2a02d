package download

//
// filename.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// keep letters, digits, underscore, dash and CJK characters
	invalidCharsRe = regexp.MustCompile(`[^-\x{4E00}-\x{9FA5}\w]`)
	dashRunRe      = regexp.MustCompile(`-{2,}`)
)

// sanitize make a title safe for use as a file name component.
func sanitize(title string) string {
	name := whitespaceRe.ReplaceAllString(title, "-")
	name = invalidCharsRe.ReplaceAllString(name, "")

	return dashRunRe.ReplaceAllString(name, "-")
}

// extension guess media file extension from the url path, ignoring the
// query string; "mp3" when the path carries none.
func extension(mediaurl string) string {
	mediaurl, _, _ = strings.Cut(mediaurl, "?")

	// path.Ext returns "." alone for a base ending in a dot
	if ext := strings.TrimPrefix(path.Ext(path.Base(mediaurl)), "."); ext != "" {
		return ext
	}

	return "mp3"
}

// Filename build the target file name for one episode media. The name
// is a pure function of its inputs, so repeated runs for the same week
// resolve to the same file.
func Filename(feedtitle string, weeknumber int, episodetitle, mediaurl string) string {
	return fmt.Sprintf("%s_%d_%s.%s",
		sanitize(feedtitle), weeknumber, sanitize(episodetitle), extension(mediaurl))
}
