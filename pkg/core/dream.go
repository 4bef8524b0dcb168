// Package core holds the dream journal domain: the entry model, the entry store
// and the pure derivation layer that builds display lists.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the ISO-8601 layout used for persisted timestamps.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Mood is an optional feeling attached to a dream.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodNeutral Mood = "neutral"
	MoodScary   Mood = "scary"
	MoodUnknown Mood = "unknown"
)

// Valid reports whether m is empty or one of the known moods.
func (m Mood) Valid() bool {
	switch m {
	case "", MoodHappy, MoodNeutral, MoodScary, MoodUnknown:
		return true
	}
	return false
}

// Dream is a single journal entry. It is the only persisted entity.
type Dream struct {
	ID         string    `json:"id" yaml:"id"`
	Title      string    `json:"title" yaml:"title"`
	Content    string    `json:"content" yaml:"content"`
	Tags       []string  `json:"tags" yaml:"tags"`
	CreatedAt  Timestamp `json:"createdAt" yaml:"createdAt"`
	UpdatedAt  Timestamp `json:"updatedAt" yaml:"updatedAt"`
	Bookmarked bool      `json:"isBookmarked,omitempty" yaml:"isBookmarked,omitempty"`
	Mood       Mood      `json:"mood,omitempty" yaml:"mood,omitempty"`
	Location   string    `json:"location,omitempty" yaml:"location,omitempty"`
}

// HasTag reports whether the dream carries the given tag value.
func (d Dream) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Draft is the caller-supplied part of a new dream.
type Draft struct {
	Title    string
	Content  string
	Tags     []string
	Mood     Mood
	Location string
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Title      *string
	Content    *string
	Tags       *[]string
	Bookmarked *bool
	Mood       *Mood
	Location   *string
}

// Tag is a reference-data label that can be attached to dreams.
type Tag struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Category describes a family of dreams for browsing.
type Category struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Image       string `json:"image,omitempty" yaml:"image,omitempty"`
}

// Timestamp is a UTC instant persisted as ISO-8601 with millisecond precision.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to milliseconds and converts it to UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t.UTC().Truncate(time.Millisecond)}
}

// String formats the timestamp with TimeLayout.
func (t Timestamp) String() string {
	return t.UTC().Format(TimeLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (t Timestamp) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// MarshalJSON shadows the promoted time.Time encoder so the persisted form keeps TimeLayout.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON decodes a quoted timestamp.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	unquoted, err := strconv.Unquote(s)
	if err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	return t.UnmarshalText([]byte(unquoted))
}

// UnmarshalText accepts any RFC 3339 timestamp, with or without fractional seconds.
func (t *Timestamp) UnmarshalText(b []byte) error {
	parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	*t = NewTimestamp(parsed)
	return nil
}

// normalizeTags drops blank values and duplicates while keeping insertion order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
