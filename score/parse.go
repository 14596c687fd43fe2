package score

import (
	"strconv"
	"strings"

	"github.com/solverforge/solverforge/sferr"
)

// ParseSimple parses the grammar "<int>". Surrounding whitespace is
// tolerated; whitespace inside the literal is rejected.
func ParseSimple(s string) (Simple, error) {
	v, err := parseIntComponent(s)
	if err != nil {
		return Simple{}, err
	}
	return Simple{Value: v}, nil
}

// ParseHardSoft parses "<int>hard/<int>soft".
func ParseHardSoft(s string) (HardSoft, error) {
	parts, err := splitComponents(s, []string{"hard", "soft"})
	if err != nil {
		return HardSoft{}, err
	}
	hard, err := parseIntComponent(parts[0])
	if err != nil {
		return HardSoft{}, err
	}
	soft, err := parseIntComponent(parts[1])
	if err != nil {
		return HardSoft{}, err
	}
	return HardSoft{Hard: hard, Soft: soft}, nil
}

// ParseHardMediumSoft parses "<int>hard/<int>medium/<int>soft".
func ParseHardMediumSoft(s string) (HardMediumSoft, error) {
	parts, err := splitComponents(s, []string{"hard", "medium", "soft"})
	if err != nil {
		return HardMediumSoft{}, err
	}
	hard, err := parseIntComponent(parts[0])
	if err != nil {
		return HardMediumSoft{}, err
	}
	medium, err := parseIntComponent(parts[1])
	if err != nil {
		return HardMediumSoft{}, err
	}
	soft, err := parseIntComponent(parts[2])
	if err != nil {
		return HardMediumSoft{}, err
	}
	return HardMediumSoft{Hard: hard, Medium: medium, Soft: soft}, nil
}

// ParseBendable parses "[<int>,...]hard/[<int>,...]soft".
func ParseBendable(s string) (Bendable, error) {
	parts, err := splitComponents(s, []string{"hard", "soft"})
	if err != nil {
		return Bendable{}, err
	}
	hard, err := parseIntVector(parts[0])
	if err != nil {
		return Bendable{}, err
	}
	soft, err := parseIntVector(parts[1])
	if err != nil {
		return Bendable{}, err
	}
	return Bendable{Hard: hard, Soft: soft}, nil
}

// ParseHardSoftDecimal parses "<fixed-point>hard/<fixed-point>soft". The
// scale is taken from whichever component has more fractional digits, and
// the other component is rescaled to match.
func ParseHardSoftDecimal(s string) (HardSoftDecimal, error) {
	parts, err := splitComponents(s, []string{"hard", "soft"})
	if err != nil {
		return HardSoftDecimal{}, err
	}
	hardMantissa, hardScale, err := parseFixedPoint(parts[0])
	if err != nil {
		return HardSoftDecimal{}, err
	}
	softMantissa, softScale, err := parseFixedPoint(parts[1])
	if err != nil {
		return HardSoftDecimal{}, err
	}
	scale := hardScale
	if softScale > scale {
		scale = softScale
	}
	hardMantissa *= pow10(scale - hardScale)
	softMantissa *= pow10(scale - softScale)
	return HardSoftDecimal{Hard: hardMantissa, Soft: softMantissa, Scale: scale}, nil
}

// splitComponents trims surrounding whitespace, splits on "/", and checks
// each component ends with the expected suffix with no internal whitespace.
func splitComponents(s string, suffixes []string) ([]string, error) {
	trimmed := strings.TrimSpace(s)
	segments := strings.Split(trimmed, "/")
	if len(segments) != len(suffixes) {
		return nil, &sferr.ParseError{Reason: "wrong number of score components"}
	}
	out := make([]string, len(segments))
	for i, seg := range segments {
		if strings.ContainsAny(seg, " \t\n") {
			return nil, &sferr.ParseError{Reason: "unexpected whitespace inside score component"}
		}
		suffix := suffixes[i]
		if !strings.HasSuffix(seg, suffix) {
			return nil, &sferr.ParseError{Reason: "missing \"" + suffix + "\" suffix"}
		}
		out[i] = strings.TrimSuffix(seg, suffix)
	}
	return out, nil
}

func parseIntComponent(s string) (int64, error) {
	trimmed := strings.TrimSpace(s)
	if strings.ContainsAny(trimmed, " \t\n") {
		return 0, &sferr.ParseError{Reason: "unexpected whitespace inside score component"}
	}
	v, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, &sferr.ParseError{Reason: "invalid integer literal: " + err.Error()}
	}
	return v, nil
}

func parseIntVector(s string) ([]int64, error) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, &sferr.ParseError{Reason: "expected bracketed vector literal"}
	}
	inner := s[1 : len(s)-1]
	if inner == "" {
		return []int64{}, nil
	}
	fields := strings.Split(inner, ",")
	out := make([]int64, len(fields))
	for i, f := range fields {
		v, err := parseIntComponent(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// parseFixedPoint parses an optionally-signed decimal literal into an
// integer mantissa and the number of digits after the decimal point.
func parseFixedPoint(s string) (mantissa int64, scale uint8, err error) {
	neg := false
	rest := s
	if strings.HasPrefix(rest, "-") {
		neg = true
		rest = rest[1:]
	} else if strings.HasPrefix(rest, "+") {
		rest = rest[1:]
	}
	dot := strings.IndexByte(rest, '.')
	intPart, fracPart := rest, ""
	if dot >= 0 {
		intPart, fracPart = rest[:dot], rest[dot+1:]
	}
	if intPart == "" {
		intPart = "0"
	}
	digits := intPart + fracPart
	if digits == "" {
		return 0, 0, &sferr.ParseError{Reason: "empty fixed-point literal"}
	}
	v, convErr := strconv.ParseInt(digits, 10, 64)
	if convErr != nil {
		return 0, 0, &sferr.ParseError{Reason: "invalid fixed-point literal: " + convErr.Error()}
	}
	if neg {
		v = -v
	}
	return v, uint8(len(fracPart)), nil
}
