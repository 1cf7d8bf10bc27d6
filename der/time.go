package der

import (
	"github.com/ansel1/merry"
	"time"
)

const (
	utcTimeLayout         = "060102150405Z"
	generalizedTimeLayout = "20060102150405Z"

	// shortest time content accepted by the decoders: YYMMDDHHMM or YYYYMMDDHH
	minTimeLen = 10
)

// UTCTimeRange reports whether t can be encoded as a UTCTime, whose two digit
// years cover 1950 through 2049.
func UTCTimeRange(t time.Time) bool {
	y := t.UTC().Year()
	return y >= 1950 && y <= 2049
}

// AppendUTCTime appends t as a UTCTime, YYMMDDHHMMSSZ.  Times outside
// 1950-2049 fail with ErrBadEncode.
func AppendUTCTime(dst []byte, t time.Time) ([]byte, error) {
	if !UTCTimeRange(t) {
		return dst, merry.Here(ErrBadEncode).Appendf("year %d is outside the UTCTime range 1950-2049", t.UTC().Year())
	}
	return AppendString(dst, TagUTCTime, []byte(t.UTC().Format(utcTimeLayout))), nil
}

// AppendGeneralizedTime appends t as a GeneralizedTime, YYYYMMDDHHMMSSZ.
// Fractional seconds are dropped.  Years outside 1-9999 fail with ErrBadEncode.
func AppendGeneralizedTime(dst []byte, t time.Time) ([]byte, error) {
	if y := t.UTC().Year(); y < 1 || y > 9999 {
		return dst, merry.Here(ErrBadEncode).Appendf("year %d is outside the GeneralizedTime range 1-9999", y)
	}
	return AppendString(dst, TagGeneralizedTime, []byte(t.UTC().Format(generalizedTimeLayout))), nil
}

// AppendTime appends t as a UTCTime if its year is in 1950-2049, and as a
// GeneralizedTime otherwise.
func AppendTime(dst []byte, t time.Time) ([]byte, error) {
	if UTCTimeRange(t) {
		return AppendUTCTime(dst, t)
	}
	return AppendGeneralizedTime(dst, t)
}

// DecodeTime decodes either a UTCTime or a GeneralizedTime.  Other tags fail
// with ErrBadTag.
func DecodeTime(t TLV) (time.Time, error) {
	switch t.Tag() {
	case TagUTCTime:
		return DecodeUTCTime(t)
	case TagGeneralizedTime:
		return DecodeGeneralizedTime(t)
	}
	if len(t) == 0 {
		return time.Time{}, merry.Here(ErrEndOfData).Append("expected time")
	}
	return time.Time{}, merry.Here(ErrBadTag).Appendf("expected UTCTime or GeneralizedTime, got %v", t.Tag())
}

// DecodeUTCTime decodes a UTCTime: YYMMDDHHMM, optional seconds, then an
// optional zone of Z, +HH, +HHMM, -HH, or -HHMM.  Two digit years below 50 are
// in the 2000s, the rest in the 1900s.  The result is in UTC.
func DecodeUTCTime(t TLV) (time.Time, error) {
	v, err := timeContent(t, TagUTCTime)
	if err != nil {
		return time.Time{}, err
	}

	p := timeParser{s: v}
	year := p.digits(2)
	if year >= 50 {
		year += 1900
	} else {
		year += 2000
	}
	month := p.digits(2)
	day := p.digits(2)
	hour := p.digits(2)
	minute := p.digits(2)
	var sec int
	switch {
	case p.peekDigits(2):
		sec = p.digits(2)
	case p.peekDigits(1):
		sec = p.digits(1)
	}
	offset := p.zone()
	if p.err != nil {
		return time.Time{}, p.err
	}
	return makeTime(year, month, day, hour, minute, sec, 0, offset)
}

// DecodeGeneralizedTime decodes a GeneralizedTime: YYYYMMDDHH, optional minutes,
// optional seconds, an optional fraction of a second after '.' or ',', then
// an optional zone of Z, +HH, +HHMM, -HH, or -HHMM.  The fraction is kept to
// millisecond precision.  The result is in UTC.
func DecodeGeneralizedTime(t TLV) (time.Time, error) {
	v, err := timeContent(t, TagGeneralizedTime)
	if err != nil {
		return time.Time{}, err
	}

	p := timeParser{s: v}
	year := p.digits(4)
	month := p.digits(2)
	day := p.digits(2)
	hour := p.digits(2)
	var minute, sec, msec int
	if p.peekDigits(2) {
		minute = p.digits(2)
		if p.peekDigits(2) {
			sec = p.digits(2)
		}
	}
	if p.peek('.') || p.peek(',') {
		p.pos++
		scale := 100
		n := 0
		for p.peekDigits(1) {
			d := p.digits(1)
			if scale > 0 {
				msec += d * scale
				scale /= 10
			}
			n++
		}
		if n == 0 {
			p.fail("missing fraction digits")
		}
	}
	offset := p.zone()
	if p.err != nil {
		return time.Time{}, p.err
	}
	return makeTime(year, month, day, hour, minute, sec, msec, offset)
}

// timeContent checks the tag and returns the content.  The length must use the short form.
func timeContent(t TLV, tag Tag) ([]byte, error) {
	switch {
	case len(t) == 0:
		return nil, merry.Here(ErrEndOfData).Appendf("expected %v", tag)
	case t.Tag() != tag:
		return nil, merry.Here(ErrBadTag).Appendf("expected %v, got %v", tag, t.Tag())
	case len(t) < 2:
		return nil, merry.Here(ErrEndOfData).Append("header truncated")
	case t[1] > 0x7f:
		// long form date strings really can't be valid
		return nil, merry.Here(ErrCorrupt).Appendf("%v length must use the short form", tag)
	}
	v, err := t.content(tag)
	if err != nil {
		return nil, err
	}
	if len(v) < minTimeLen {
		return nil, merry.Here(ErrCorrupt).Appendf("%v content of %d bytes is too short", tag, len(v))
	}
	return v, nil
}

func makeTime(year, month, day, hour, minute, sec, msec int, offset time.Duration) (time.Time, error) {
	if month < 1 || month > 12 || day < 1 || hour > 23 || minute > 59 || sec > 59 {
		return time.Time{}, merry.Here(ErrCorrupt).Appendf("invalid time %04d-%02d-%02d %02d:%02d:%02d", year, month, day, hour, minute, sec)
	}
	wall := time.Date(year, time.Month(month), day, hour, minute, sec, msec*int(time.Millisecond), time.UTC)
	if wall.Day() != day {
		return time.Time{}, merry.Here(ErrCorrupt).Appendf("invalid day %04d-%02d-%02d", year, month, day)
	}
	return wall.Add(-offset), nil
}

type timeParser struct {
	s   []byte
	pos int
	err error
}

func (p *timeParser) fail(msg string) {
	if p.err == nil {
		p.err = merry.Here(ErrCorrupt).Appendf("%s at offset %d of %q", msg, p.pos, p.s)
	}
}

func (p *timeParser) peek(c byte) bool {
	return p.err == nil && p.pos < len(p.s) && p.s[p.pos] == c
}

func (p *timeParser) peekDigits(n int) bool {
	if p.err != nil || p.pos+n > len(p.s) {
		return false
	}
	for _, c := range p.s[p.pos : p.pos+n] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (p *timeParser) digits(n int) int {
	if p.err != nil {
		return 0
	}
	if !p.peekDigits(n) {
		p.fail("expected digit")
		return 0
	}
	v := 0
	for _, c := range p.s[p.pos : p.pos+n] {
		v = v*10 + int(c-'0')
	}
	p.pos += n
	return v
}

// zone parses the rest of the input as a zone suffix, and returns its offset from UTC.
func (p *timeParser) zone() time.Duration {
	if p.err != nil {
		return 0
	}
	rest := p.s[p.pos:]
	switch {
	case len(rest) == 0:
		return 0
	case len(rest) == 1 && rest[0] == 'Z':
		p.pos++
		return 0
	case rest[0] != '+' && rest[0] != '-':
		p.fail("invalid time zone")
		return 0
	}

	sign := rest[0]
	p.pos++
	hours := p.digits(2)
	var minutes int
	if p.pos < len(p.s) {
		minutes = p.digits(2)
	}
	switch {
	case p.err != nil:
		return 0
	case p.pos != len(p.s):
		p.fail("trailing data after time zone")
		return 0
	case hours >= 24 || minutes >= 60:
		p.fail("time zone offset out of range")
		return 0
	}

	d := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
	if sign == '-' {
		d = -d
	}
	return d
}
