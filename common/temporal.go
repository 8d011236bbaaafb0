package common

// Parsers for the textual layouts MySQL uses for DATE, DATETIME, TIMESTAMP
// and TIME values. They work by exact length and byte pattern checks
// followed by fixed-offset field extraction - there is no tokenizing, and
// no input can make them panic. Anything that does not match a layout
// exactly reports no match.

func isDigits(b []byte) bool {
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// parseUint parses a digits-only field. Callers must have validated the
// bytes with isDigits first.
func parseUint(b []byte) uint32 {
	var n uint32
	for _, c := range b {
		n = n*10 + uint32(c-'0')
	}
	return n
}

// parseMicros parses a 1-6 digit fractional-second field. The digits are
// right-padded with zeros to microsecond precision, so ".5" is 500000 and
// ".123" is 123000.
func parseMicros(b []byte) uint32 {
	n := parseUint(b)
	for i := len(b); i < 6; i++ {
		n *= 10
	}
	return n
}

// isFraction reports whether b is a '.' followed by 1-6 digits.
func isFraction(b []byte) bool {
	return len(b) >= 2 && len(b) <= 7 && b[0] == '.' && isDigits(b[1:])
}

// ParseDatetime parses the three textual datetime layouts:
//
//	YYYY-MM-DD
//	YYYY-MM-DD HH:MM:SS
//	YYYY-MM-DD HH:MM:SS.ffffff  (1-6 fractional digits)
//
// Omitted time fields are zero. The numeric fields are extracted as-is; no
// calendar validity is checked. Any other shape reports no match.
func ParseDatetime(b []byte) (Datetime, bool) {
	switch {
	case len(b) == 10:
		// date only
	case len(b) == 19 || (len(b) >= 21 && len(b) <= 26):
		if b[10] != ' ' || b[13] != ':' || b[16] != ':' ||
			!isDigits(b[11:13]) || !isDigits(b[14:16]) || !isDigits(b[17:19]) {
			return Datetime{}, false
		}
		if len(b) > 19 && !isFraction(b[19:]) {
			return Datetime{}, false
		}
	default:
		return Datetime{}, false
	}
	if b[4] != '-' || b[7] != '-' ||
		!isDigits(b[:4]) || !isDigits(b[5:7]) || !isDigits(b[8:10]) {
		return Datetime{}, false
	}
	dt := Datetime{
		Year:  uint16(parseUint(b[:4])),
		Month: uint8(parseUint(b[5:7])),
		Day:   uint8(parseUint(b[8:10])),
	}
	if len(b) >= 19 {
		dt.Hour = uint8(parseUint(b[11:13]))
		dt.Minute = uint8(parseUint(b[14:16]))
		dt.Second = uint8(parseUint(b[17:19]))
	}
	if len(b) > 19 {
		dt.Microsecond = parseMicros(b[20:])
	}
	return dt, true
}

// ParseTime parses the textual TIME layouts:
//
//	HH:MM:SS        HHH:MM:SS
//	HH:MM:SS.ffffff HHH:MM:SS.ffffff
//
// An optional leading '-' marks a negative duration. The hour field is two
// or three digits (MySQL TIME reaches 838 hours), minutes and seconds are
// constrained to [0,59] by the pattern. Hours beyond 23 are carried into
// the day count of the returned Time. Input shorter than 8 bytes never
// matches.
func ParseTime(b []byte) (Time, bool) {
	if len(b) < 8 {
		return Time{}, false
	}
	neg := b[0] == '-'
	if neg {
		b = b[1:]
	}
	var hw int
	switch {
	case len(b) >= 8 && b[2] == ':':
		hw = 2
		if !isDigits(b[:2]) {
			return Time{}, false
		}
	case len(b) >= 9 && b[3] == ':':
		hw = 3
		if b[0] > '8' || !isDigits(b[:3]) {
			return Time{}, false
		}
	default:
		return Time{}, false
	}
	mm := b[hw+1 : hw+3]
	ss := b[hw+4 : hw+6]
	if b[hw+3] != ':' ||
		mm[0] > '5' || !isDigits(mm) ||
		ss[0] > '5' || !isDigits(ss) {
		return Time{}, false
	}
	rest := b[hw+6:]
	var micros uint32
	if len(rest) > 0 {
		if !isFraction(rest) {
			return Time{}, false
		}
		micros = parseMicros(rest[1:])
	}
	hours := parseUint(b[:hw])
	return Time{
		Negative:    neg,
		Days:        hours / 24,
		Hours:       uint8(hours % 24),
		Minutes:     uint8(parseUint(mm)),
		Seconds:     uint8(parseUint(ss)),
		Microsecond: micros,
	}, true
}
