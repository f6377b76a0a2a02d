package download

//
// progress.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	progressMinInterval = 2 * time.Second
	progressMinBytes    = 1 << 20 // 1 MiB
	progressMinPercent  = 10
)

// progressWriter count bytes written and emit throttled progress log
// lines. A line is emitted when at least progressMinInterval passed
// since the previous one and the transfer advanced by a full percent
// step or by progressMinBytes, whichever happens first. Transfers that
// finish quickly stay silent.
type progressWriter struct {
	logger *zerolog.Logger
	name   string
	total  int64 // 0 when unknown

	written     int64
	lastLogged  int64
	lastLogTime time.Time
}

func newProgressWriter(logger *zerolog.Logger, name string, total int64) *progressWriter {
	return &progressWriter{
		logger:      logger,
		name:        name,
		total:       total,
		lastLogTime: time.Now(),
	}
}

func (p *progressWriter) Write(data []byte) (int, error) {
	p.written += int64(len(data))

	if time.Since(p.lastLogTime) < progressMinInterval {
		return len(data), nil
	}

	advanced := p.written - p.lastLogged
	milestone := advanced >= progressMinBytes

	if !milestone && p.total > 0 {
		milestone = advanced*100 >= p.total*progressMinPercent
	}

	if milestone {
		p.log()
		p.lastLogged = p.written
		p.lastLogTime = time.Now()
	}

	return len(data), nil
}

func (p *progressWriter) log() {
	event := p.logger.Debug().Str("file", p.name).Int64("bytes", p.written)

	if p.total > 0 {
		event.Int64("total", p.total).
			Msgf("downloading: %d%%", p.written*100/p.total)
	} else {
		event.Msg("downloading")
	}
}
