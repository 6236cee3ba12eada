package playlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ekimekim/awp/internal/fileutil"
)

// legacyVolume is the volume implied by the two-field line form.
const legacyVolume = 1.0

// Load reads path into a new store.
func Load(path string, opts ...Option) (*Store, error) {
	s := New(opts...)
	if err := s.ReadFile(path); err != nil {
		return nil, err
	}
	return s, nil
}

// ReadFile appends the entries of path and records it as the store's source.
// Reading into an empty, clean store leaves it clean.
func (s *Store) ReadFile(path string) error {
	fresh := !s.dirty && len(s.order) == 0
	s.sourcePath = path
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open playlist: %w", err)
	}
	defer f.Close()
	if err := s.Read(f); err != nil {
		return fmt.Errorf("read playlist %s: %w", path, err)
	}
	if fresh {
		s.dirty = false
	}
	return nil
}

// Read appends entries parsed from r. Each non-blank, non-comment line is
// either "WEIGHT\tPATH" (volume 1) or "WEIGHT\tVOLUME\tPATH". PATH is taken
// verbatim and may itself contain tabs.
func (s *Store) Read(r io.Reader) error {
	br := bufio.NewReader(r)
	lineNo := 0
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if line == "" && err != nil {
			return nil
		}
		lineNo++
		line = strings.TrimSuffix(line, "\n")
		if perr := s.parseLine(lineNo, line); perr != nil {
			return perr
		}
		if err != nil {
			return nil
		}
	}
}

func (s *Store) parseLine(lineNo int, line string) error {
	if line == "" || strings.HasPrefix(strings.TrimLeft(line, " \t"), "#") {
		return nil
	}
	parts := strings.SplitN(line, "\t", 3)
	var weightText, volumeText, path string
	switch len(parts) {
	case 2:
		weightText, path = parts[0], parts[1]
	case 3:
		weightText, volumeText, path = parts[0], parts[1], parts[2]
	default:
		return &LineError{Line: lineNo, Text: line}
	}

	weight, err := parseNumber(weightText)
	if err != nil {
		return &LineError{Line: lineNo, Text: line, Err: fmt.Errorf("weight: %w", err)}
	}
	if weight < 0 {
		return &LineError{Line: lineNo, Text: line, Err: errors.New("weight must not be negative")}
	}
	volume := legacyVolume
	if len(parts) == 3 {
		if volume, err = parseNumber(volumeText); err != nil {
			return &LineError{Line: lineNo, Text: line, Err: fmt.Errorf("volume: %w", err)}
		}
	}
	s.Add(path, weight, volume, true)
	return nil
}

func parseNumber(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) {
		return 0, errors.New("not a number")
	}
	return v, nil
}

// Write emits every entry in canonical three-field form, in store order.
func (s *Store) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, path := range s.order {
		v := s.entries[path]
		if _, err := fmt.Fprintf(bw, "%s\t%s\t%s\n", FormatNumber(v.Weight), FormatNumber(v.Volume), path); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile atomically replaces path (or the source path when path is empty)
// with the store contents and clears the dirty flag.
func (s *Store) WriteFile(path string) error {
	if path == "" {
		path = s.sourcePath
	}
	if path == "" {
		return ErrNoPath
	}
	if err := fileutil.WriteFileAtomic(path, 0o644, s.Write); err != nil {
		return fmt.Errorf("write playlist: %w", err)
	}
	s.dirty = false
	return nil
}
