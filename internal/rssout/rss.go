// Package rssout render a weekly aggregate back into one combined
// RSS 2.0 document, one item per episode across all feeds.
package rssout

//
// rss.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"gitlab.com/kabes/podweek/internal/model"
)

const itunesNS = "http://www.itunes.com/dtds/podcast-1.0.dtd"

type rssDoc struct {
	XMLName  xml.Name `xml:"rss"`
	Version  string   `xml:"version,attr"`
	ItunesNS string   `xml:"xmlns:itunes,attr"`
	Channel  channel  `xml:"channel"`
}

type channel struct {
	Title         string `xml:"title"`
	Description   string `xml:"description"`
	LastBuildDate string `xml:"lastBuildDate,omitempty"`
	Items         []item `xml:"item"`
}

type item struct {
	Title       string     `xml:"title"`
	Link        string     `xml:"link,omitempty"`
	Description string     `xml:"description,omitempty"`
	PubDate     string     `xml:"pubDate,omitempty"`
	Author      string     `xml:"itunes:author,omitempty"`
	Enclosure   *enclosure `xml:"enclosure,omitempty"`
}

type enclosure struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr"`
}

var mediaTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".opus": "audio/opus",
	".wav":  "audio/wav",
}

func mediaType(mediaurl string) string {
	mediaurl, _, _ = strings.Cut(mediaurl, "?")

	if mtype, ok := mediaTypes[strings.ToLower(path.Ext(mediaurl))]; ok {
		return mtype
	}

	return "application/octet-stream"
}

// Render write aggregate as one RSS 2.0 channel. Failed feeds carry no
// episodes so they contribute no items.
func Render(w io.Writer, aggregate *model.WeeklyAggregate) error {
	doc := rssDoc{
		Version:  "2.0",
		ItunesNS: itunesNS,
		Channel: channel{
			Title: fmt.Sprintf("Podcast week %d", aggregate.WeekNumber),
			Description: fmt.Sprintf("Episodes published in week %d (%s)",
				aggregate.WeekNumber, aggregate.StartOfWeek),
			LastBuildDate: time.Now().Format(time.RFC1123Z),
		},
	}

	for _, result := range aggregate.Results {
		for _, episode := range result.Episodes {
			it := item{
				Title:       result.FeedTitle + ": " + episode.Title,
				Link:        episode.Link,
				Description: episode.ShowNotes,
				Author:      result.FeedTitle,
			}

			if episode.PubDate != nil {
				it.PubDate = episode.PubDate.Format(time.RFC1123Z)
			}

			if episode.MediaURL != "" {
				it.Enclosure = &enclosure{URL: episode.MediaURL, Type: mediaType(episode.MediaURL)}
			}

			doc.Channel.Items = append(doc.Channel.Items, it)
		}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write rss header failed: %w", err)
	}

	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("encode rss failed: %w", err)
	}

	return encoder.Close()
}
