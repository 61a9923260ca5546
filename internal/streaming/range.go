package streaming

import (
	"strconv"
	"strings"
)

// ByteRange holds inclusive byte offsets into an object of known size.
type ByteRange struct {
	Start int64
	End   int64
}

// Length returns the number of bytes the range covers.
func (r ByteRange) Length() int64 {
	return r.End - r.Start + 1
}

// RangeOutcome tags the result of parsing an inbound Range header.
type RangeOutcome int

const (
	// NoRange means the request carried no Range header.
	NoRange RangeOutcome = iota
	// RangeValid means a satisfiable range was parsed.
	RangeValid
	// RangeInvalid means the header was malformed or unsatisfiable; the
	// caller degrades to a full transfer instead of erroring.
	RangeInvalid
)

// ParseRange interprets a Range header against an object of the given size.
// Accepted forms are bytes=start-end, bytes=start- and bytes=-suffix.
// Multi-range requests and anything unparseable or out of bounds come back
// as RangeInvalid.
func ParseRange(header string, size int64) (ByteRange, RangeOutcome) {
	header = strings.TrimSpace(header)
	if header == "" {
		return ByteRange{}, NoRange
	}

	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return ByteRange{}, RangeInvalid
	}
	spec = strings.TrimSpace(spec)
	if strings.Contains(spec, ",") {
		return ByteRange{}, RangeInvalid
	}

	startPart, endPart, found := strings.Cut(spec, "-")
	if !found {
		return ByteRange{}, RangeInvalid
	}
	startPart = strings.TrimSpace(startPart)
	endPart = strings.TrimSpace(endPart)
	if startPart == "" && endPart == "" {
		return ByteRange{}, RangeInvalid
	}

	var start, end int64
	switch {
	case startPart == "":
		// Suffix form: last N bytes.
		suffix, err := strconv.ParseInt(endPart, 10, 64)
		if err != nil {
			return ByteRange{}, RangeInvalid
		}
		start = size - suffix
		end = size - 1
	case endPart == "":
		// Open-ended form: start through EOF.
		var err error
		start, err = strconv.ParseInt(startPart, 10, 64)
		if err != nil {
			return ByteRange{}, RangeInvalid
		}
		end = size - 1
	default:
		var err error
		start, err = strconv.ParseInt(startPart, 10, 64)
		if err != nil {
			return ByteRange{}, RangeInvalid
		}
		end, err = strconv.ParseInt(endPart, 10, 64)
		if err != nil {
			return ByteRange{}, RangeInvalid
		}
	}

	if start < 0 || end >= size || start > end {
		return ByteRange{}, RangeInvalid
	}
	return ByteRange{Start: start, End: end}, RangeValid
}
