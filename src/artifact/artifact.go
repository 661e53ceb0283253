package artifact

import (
	"strings"
	"time"
)

// Suffixes for the two artifact kinds this tool knows about. The content
// archive is the one this tool produces; the database name is derived with
// the same stamp so sibling tooling stays in lockstep.
const (
	ContentSuffix  = "wp-content.zip"
	DatabaseSuffix = "database.zip"
)

// Kind labels used in listings and verify selectors.
const (
	KindContent  = "content"
	KindDatabase = "database"
)

// DateFormat is the date stamp embedded in every artifact name.
const DateFormat = "2006-01-02"

// Names holds the artifact names for a single run. The stamp is computed
// once from the clock at the start of the run and stays fixed even if the
// run crosses midnight.
type Names struct {
	Date string
	Tag  string
}

// New derives the run's names from the local wall clock and an optional tag.
func New(now time.Time, tag string) Names {
	return Names{Date: now.Format(DateFormat), Tag: tag}
}

// Content returns {date}[.{tag}].wp-content.zip.
func (n Names) Content() string {
	return n.join(ContentSuffix)
}

// Database returns {date}[.{tag}].database.zip.
func (n Names) Database() string {
	return n.join(DatabaseSuffix)
}

func (n Names) join(suffix string) string {
	if n.Tag == "" {
		return n.Date + "." + suffix
	}
	return n.Date + "." + n.Tag + "." + suffix
}

// Info is a parsed artifact name, as discovered at a destination.
type Info struct {
	Name string `json:"name"`
	Date string `json:"date"`
	Tag  string `json:"tag,omitempty"`
	Kind string `json:"kind"`
}

// Parse inverts the naming scheme. ok is false for file names this tool did
// not produce, so directory listings can be filtered without guesswork.
func Parse(name string) (Info, bool) {
	var kind, rest string
	switch {
	case strings.HasSuffix(name, "."+ContentSuffix):
		kind = KindContent
		rest = strings.TrimSuffix(name, "."+ContentSuffix)
	case strings.HasSuffix(name, "."+DatabaseSuffix):
		kind = KindDatabase
		rest = strings.TrimSuffix(name, "."+DatabaseSuffix)
	default:
		return Info{}, false
	}

	if len(rest) < len(DateFormat) {
		return Info{}, false
	}
	date := rest[:len(DateFormat)]
	if _, err := time.Parse(DateFormat, date); err != nil {
		return Info{}, false
	}

	tag := ""
	if len(rest) > len(DateFormat) {
		if rest[len(DateFormat)] != '.' {
			return Info{}, false
		}
		tag = rest[len(DateFormat)+1:]
		if tag == "" {
			return Info{}, false
		}
	}
	return Info{Name: name, Date: date, Tag: tag, Kind: kind}, true
}
