package internal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// ScanResult accumulates match accounting for one run.
type ScanResult struct {
	TotalMatches     int64
	AlertableMatches int64
	LastMatchedLine  string
	FileGrew         bool
}

// LogScanner reads newly appended lines from a monitored file and
// classifies them.
type LogScanner struct {
	Matcher *Matcher
	Rule    Rule // optional
}

func NewLogScanner(m *Matcher, r Rule) *LogScanner {
	return &LogScanner{Matcher: m, Rule: r}
}

// Scan processes the file from fromOffset and returns the result plus
// the offset immediately after the last fully consumed line.
//
// A nonzero offset equal to the current size means no new data: the
// scan stops before reading anything and FileGrew stays false. An
// offset beyond the current size means the file was truncated or
// rotated, and the scan restarts from the beginning.
func (s *LogScanner) Scan(ctx context.Context, path string, fromOffset int64) (ScanResult, int64, error) {
	var res ScanResult

	f, err := os.Open(path)
	if err != nil {
		return res, fromOffset, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return res, fromOffset, fmt.Errorf("stat log file: %w", err)
	}
	size := info.Size()

	start := fromOffset
	if fromOffset != 0 {
		switch {
		case fromOffset == size:
			return res, fromOffset, nil
		case fromOffset > size:
			logrus.WithFields(logrus.Fields{"file": path, "offset": fromOffset, "size": size}).
				Debug("File shrank since last run, rescanning from start")
			start = 0
		default:
			if _, err := f.Seek(fromOffset, io.SeekStart); err != nil {
				return res, fromOffset, fmt.Errorf("seek log file: %w", err)
			}
		}
	}
	res.FileGrew = true

	var stats RunStats
	stats.Start()

	br := bufio.NewReaderSize(f, 64*1024)
	offset := start
	for {
		if ctx.Err() != nil {
			return res, offset, ctx.Err()
		}
		b, err := br.ReadBytes('\n')
		if len(b) > 0 && b[len(b)-1] == '\n' {
			// Only fully terminated lines advance the offset; a trailing
			// fragment is left for the next run.
			offset += int64(len(b))
			stats.LinesRead++
			s.processLine(string(b[:len(b)-1]), &res)
		}
		if err != nil {
			if err != io.EOF {
				return res, offset, fmt.Errorf("read log file: %w", err)
			}
			break
		}
	}

	stats.Matches = res.TotalMatches
	logrus.WithFields(logrus.Fields{
		"file":    path,
		"lines":   stats.LinesRead,
		"matches": stats.Matches,
		"elapsed": stats.Elapsed(),
	}).Debug("Scan finished")

	return res, offset, nil
}

func (s *LogScanner) processLine(line string, res *ScanResult) {
	if s.Matcher == nil || !s.Matcher.Classify(line) {
		return
	}
	res.TotalMatches++
	res.LastMatchedLine = line

	if s.Rule == nil {
		res.AlertableMatches = res.TotalMatches
		return
	}
	v, err := s.Rule.Eval(line)
	if err != nil {
		logrus.WithError(err).WithField("line", line).Warn("Eval rule failed, line not counted as alertable")
		return
	}
	if v.Alertable {
		res.AlertableMatches++
		if v.Display != "" {
			res.LastMatchedLine = v.Display
		}
	}
}
