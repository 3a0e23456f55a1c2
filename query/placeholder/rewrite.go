package placeholder

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type scanState struct {
	src   string
	n     int
	i     int
	out   strings.Builder
	mode  Mode
	fmt   FormatFunc
	slots []string
	names map[string]string
	occ   []string
}

func newScanState(template string, format FormatFunc) *scanState {
	s := &scanState{
		src:   template,
		n:     len(template),
		fmt:   format,
		slots: make([]string, 0),
		names: make(map[string]string),
		occ:   make([]string, 0),
	}
	s.out.Grow(len(template) + 8)
	return s
}

// Rewrite scans template once, left to right, and produces the driver-native
// query plus its slot table. Positional placeholders become slots p0, p1, ...;
// named placeholders become slots named after the parameter, with repeated
// names sharing the first-seen slot. Text inside single or double quotes is
// copied verbatim; a backslash inside quotes escapes the next byte.
//
// A template that uses both styles fails with ErrMixedPlaceholderStyle at the
// first conflicting placeholder. A quote that is never closed fails with
// ErrMalformedTemplate. format defaults to AtName when nil.
func Rewrite(template string, format FormatFunc) (*Command, error) {
	if format == nil {
		format = AtName
	}
	s := newScanState(template, format)

	for s.i < s.n {
		c := s.src[s.i]
		switch c {
		case '?':
			if err := s.positional(); err != nil {
				return nil, err
			}
			continue
		case ':':
			if s.i+1 < s.n && s.src[s.i+1] == ':' {
				// cast operator
				s.out.WriteString("::")
				s.i += 2
				continue
			}
			if s.startsName(s.i + 1) {
				if err := s.named(); err != nil {
					return nil, err
				}
				continue
			}
		case '\'', '"':
			if err := s.quoted(c); err != nil {
				return nil, err
			}
			continue
		}
		s.out.WriteByte(c)
		s.i++
	}

	return s.command(), nil
}

func (s *scanState) command() *Command {
	cmd := &Command{
		Template:    s.src,
		SQL:         s.out.String(),
		Mode:        s.mode,
		Slots:       s.slots,
		Names:       s.names,
		Occurrences: s.occ,
	}
	if s.mode == ModeNone {
		cmd.SQL = s.src
	}
	return cmd
}

func (s *scanState) positional() error {
	if s.mode == ModeNamed {
		return &ParseError{Offset: s.i, Token: "?", Committed: ModeNamed, Err: ErrMixedPlaceholderStyle}
	}
	s.mode = ModePositional
	slot := "p" + strconv.Itoa(len(s.slots))
	s.slots = append(s.slots, slot)
	s.occ = append(s.occ, slot)
	s.out.WriteString(s.fmt(slot, len(s.slots)))
	s.i++
	return nil
}

func (s *scanState) named() error {
	start := s.i
	j := start + 1
	for j < s.n {
		r, w := utf8.DecodeRuneInString(s.src[j:])
		if !isWordRune(r) {
			break
		}
		j += w
	}
	name := s.src[start+1 : j]

	if s.mode == ModePositional {
		return &ParseError{Offset: start, Token: s.src[start:j], Committed: ModePositional, Err: ErrMixedPlaceholderStyle}
	}
	s.mode = ModeNamed

	slot, ok := s.names[name]
	if !ok {
		slot = s.slotFor(name)
		s.names[name] = slot
		s.slots = append(s.slots, slot)
	}
	s.occ = append(s.occ, slot)
	ordinal := 0
	for k, sl := range s.slots {
		if sl == slot {
			ordinal = k + 1
			break
		}
	}
	s.out.WriteString(s.fmt(slot, ordinal))
	s.i = j
	return nil
}

// slotFor derives a slot name for a new parameter. Driver argument names must
// start with a letter, so other names get a "p" prefix, and a derived name that
// collides with an existing slot is suffixed until unique.
func (s *scanState) slotFor(name string) string {
	slot := name
	if r, _ := utf8.DecodeRuneInString(name); !unicode.IsLetter(r) {
		slot = "p" + name
	}
	for s.taken(slot) {
		slot += "_"
	}
	return slot
}

func (s *scanState) taken(slot string) bool {
	for _, sl := range s.slots {
		if sl == slot {
			return true
		}
	}
	return false
}

// quoted copies a quoted region, including both quotes, verbatim.
func (s *scanState) quoted(quote byte) error {
	end, ok := skipQuoted(s.src, s.i)
	if !ok {
		return &ParseError{Offset: s.i, Token: "unterminated " + string(quote) + " literal", Committed: s.mode, Err: ErrMalformedTemplate}
	}
	s.out.WriteString(s.src[s.i:end])
	s.i = end
	return nil
}

// skipQuoted returns the offset just past the quoted region opening at
// src[start]. A backslash escapes the next byte. ok is false when the quote
// is never closed.
func skipQuoted(src string, start int) (end int, ok bool) {
	quote := src[start]
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case quote:
			return i + 1, true
		}
	}
	return len(src), false
}

func (s *scanState) startsName(i int) bool {
	if i >= s.n {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s.src[i:])
	return isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
