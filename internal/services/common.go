package services

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// richText strips scripts and unsafe markup from long-form fields while
// keeping basic formatting.
var richText = bluemonday.UGCPolicy()

// sanitizeRichText removes disallowed markup but stores the remaining text
// unescaped, so "R&D > 5" round-trips unchanged. Unescaping can surface new
// tags from encoded input, so it repeats until the output is stable.
func sanitizeRichText(s string) string {
	for range 4 {
		next := html.UnescapeString(richText.Sanitize(s))
		if next == s {
			return strings.TrimSpace(s)
		}
		s = next
	}
	return strings.TrimSpace(richText.Sanitize(s))
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

func userSummaryColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email")
}

func withRecruiter(db *gorm.DB) *gorm.DB {
	return db.Preload("Recruiter", userSummaryColumns)
}

// blank reports whether an optional string was sent empty.
func blank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) == ""
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
