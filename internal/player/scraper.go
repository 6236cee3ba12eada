package player

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
)

const volumePrefix = "Volume:"

// scraper copies player output to the display and reports every complete
// "Volume: N %" message it sees along the way.
type scraper struct {
	display  io.Writer
	onVolume func(percent float64)
}

func (s *scraper) run(r io.Reader) error {
	br := bufio.NewReader(r)
	var (
		out     []byte
		pending []byte
	)
	flush := func() error {
		if len(out) == 0 {
			return nil
		}
		_, err := s.display.Write(out)
		out = out[:0]
		return err
	}

	for {
		b, err := br.ReadByte()
		if err != nil {
			out = append(out, pending...)
			if ferr := flush(); ferr != nil {
				return ferr
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		pending = append(pending, b)
		switch {
		case string(pending) == volumePrefix:
			report, rerr := readUntil(br, '%')
			out = append(out, pending...)
			out = append(out, report...)
			pending = pending[:0]
			if rerr != nil {
				// A report cut short by exit is dropped.
				continue
			}
			if percent, perr := strconv.ParseFloat(strings.TrimSpace(string(report[:len(report)-1])), 64); perr == nil {
				s.onVolume(percent)
			}
		case !strings.HasPrefix(volumePrefix, string(pending)):
			last := pending[len(pending)-1]
			out = append(out, pending[:len(pending)-1]...)
			pending = pending[:0]
			if last == volumePrefix[0] {
				pending = append(pending, last)
			} else {
				out = append(out, last)
			}
		}

		if br.Buffered() == 0 {
			if err := flush(); err != nil {
				return err
			}
		}
	}
}

// readUntil reads through delim, returning everything read including delim.
func readUntil(br *bufio.Reader, delim byte) ([]byte, error) {
	var buf []byte
	for {
		b, err := br.ReadByte()
		if err != nil {
			return buf, err
		}
		buf = append(buf, b)
		if b == delim {
			return buf, nil
		}
	}
}
