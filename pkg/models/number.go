package models

import (
	"encoding/json"
	"strconv"
)

// ChapterNumber is the resolved chapter number of a chapter. The resolver
// prefers an integer, but keeps the raw captured string when integer
// parsing fails, and leaves the value absent when no source matched.
// Over the wire it is a JSON number, a string, or null.
type ChapterNumber struct {
	Int   int64
	Raw   string
	IsInt bool
	Valid bool
}

// NumberFromInt wraps an integer chapter number.
func NumberFromInt(n int64) ChapterNumber {
	return ChapterNumber{Int: n, IsInt: true, Valid: true}
}

// NumberFromString parses s as an integer if possible, otherwise keeps
// the raw string.
func NumberFromString(s string) ChapterNumber {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return NumberFromInt(n)
	}
	return ChapterNumber{Raw: s, Valid: true}
}

// String renders the number for storage and logs. Empty when absent.
func (n ChapterNumber) String() string {
	if !n.Valid {
		return ""
	}
	if n.IsInt {
		return strconv.FormatInt(n.Int, 10)
	}
	return n.Raw
}

func (n ChapterNumber) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	if n.IsInt {
		return []byte(strconv.FormatInt(n.Int, 10)), nil
	}
	return json.Marshal(n.Raw)
}

func (n *ChapterNumber) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = ChapterNumber{}
		return nil
	}
	var i int64
	if err := json.Unmarshal(data, &i); err == nil {
		*n = NumberFromInt(i)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*n = NumberFromString(s)
	return nil
}
