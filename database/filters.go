package database

import (
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// Filter predicates are built with squirrel from raw query-string values and
// applied through GORM's Where. Building them in one place keeps the
// visibility rules from drifting between the entity listings.

// Access describes the caller's capability as seen by the filter builder.
type Access struct {
	// Elevated callers see private entities by default.
	Elevated bool
	// TrustExplicitVisibility applies a caller-supplied visibility
	// parameter verbatim even without elevated access.
	TrustExplicitVisibility bool
}

// AlbumFilter carries the raw album listing query parameters.
type AlbumFilter struct {
	Search    string
	Tag       string
	Year      string
	IsPublic  string // "true", "false" or empty
	StartDate string
	EndDate   string
}

// ImageFilter carries the raw image listing query parameters.
type ImageFilter struct {
	AlbumID     string
	Tag         string
	Search      string
	Anniversary string // "true" restricts to anniversary images
	Year        string
	Month       string // "YYYY-MM"
	IsPrivate   string // "true", "false" or empty
}

// AnniversaryFilter carries the raw anniversary listing query parameters.
type AnniversaryFilter struct {
	Search    string
	Year      string
	IsPrivate string
}

// ParseDate accepts the date formats clients actually send.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// YearRange returns the half-open interval [Jan 1, Jan 1 of the next year).
func YearRange(year string) (time.Time, time.Time, error) {
	t, err := time.Parse("2006", year)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid year %q", year)
	}
	return t, t.AddDate(1, 0, 0), nil
}

// MonthRange returns the half-open interval [first of month, first of next month).
func MonthRange(month string) (time.Time, time.Time, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q", month)
	}
	return t, t.AddDate(0, 1, 0), nil
}

// searchCond matches a term case-insensitively against title, description
// and the JSON-serialized tags column.
func searchCond(term string) sq.Sqlizer {
	pattern := "%" + strings.ToLower(term) + "%"
	return sq.Or{
		sq.Expr("LOWER(title) LIKE ?", pattern),
		sq.Expr("LOWER(description) LIKE ?", pattern),
		sq.Expr("LOWER(tags) LIKE ?", pattern),
	}
}

// tagCond is an exact membership test against the JSON-serialized tags
// array: the tag must appear as a complete quoted element.
func tagCond(tag string) sq.Sqlizer {
	return sq.Expr("tags LIKE ?", `%"`+tag+`"%`)
}

// rangeCond constrains column to [start, end). A zero bound is open-ended.
func rangeCond(column string, start, end time.Time) sq.Sqlizer {
	var conds sq.And
	if !start.IsZero() {
		conds = append(conds, sq.Expr(column+" >= ?", start))
	}
	if !end.IsZero() {
		conds = append(conds, sq.Expr(column+" < ?", end))
	}
	return conds
}

// visibilityCond implements the shared visibility default. column is the
// boolean column, wantPublic the column value that marks an entity public,
// and raw the caller-supplied parameter ("true"/"false"/empty).
func visibilityCond(column string, wantPublic bool, raw string, access Access) sq.Sqlizer {
	if raw != "" && (access.Elevated || access.TrustExplicitVisibility) {
		return sq.Eq{column: raw == "true"}
	}
	if !access.Elevated {
		return sq.Eq{column: wantPublic}
	}
	return nil
}

func toSQL(conds sq.And) (string, []interface{}, error) {
	if len(conds) == 0 {
		return "", nil, nil
	}
	return conds.ToSql()
}

// AlbumWhere builds the WHERE clause for an album listing. The hasVideo and
// hasImage parameters are intentionally absent: they depend on aggregated
// child counts and are applied post-query by the repository.
func AlbumWhere(f AlbumFilter, access Access) (string, []interface{}, error) {
	var conds sq.And

	if c := visibilityCond("is_public", true, f.IsPublic, access); c != nil {
		conds = append(conds, c)
	}
	if f.Search != "" {
		conds = append(conds, searchCond(f.Search))
	}
	if f.Tag != "" {
		conds = append(conds, tagCond(f.Tag))
	}

	// a date range takes precedence over a bare year
	if f.StartDate != "" || f.EndDate != "" {
		var start, end time.Time
		var err error
		if f.StartDate != "" {
			if start, err = ParseDate(f.StartDate); err != nil {
				return "", nil, err
			}
		}
		if f.EndDate != "" {
			if end, err = ParseDate(f.EndDate); err != nil {
				return "", nil, err
			}
			end = end.AddDate(0, 0, 1) // inclusive calendar day
		}
		conds = append(conds, sq.Or{
			rangeCond("event_date", start, end),
			rangeCond("created_at", start, end),
		})
	} else if f.Year != "" {
		start, end, err := YearRange(f.Year)
		if err != nil {
			return "", nil, err
		}
		conds = append(conds, sq.Or{
			rangeCond("event_date", start, end),
			rangeCond("created_at", start, end),
		})
	}

	return toSQL(conds)
}

// ImageWhere builds the WHERE clause for an image listing.
func ImageWhere(f ImageFilter, access Access) (string, []interface{}, error) {
	var conds sq.And

	if c := visibilityCond("is_private", false, f.IsPrivate, access); c != nil {
		conds = append(conds, c)
	}
	if f.AlbumID != "" {
		conds = append(conds, sq.Eq{"album_id": f.AlbumID})
	}
	if f.Tag != "" {
		conds = append(conds, tagCond(f.Tag))
	}
	if f.Anniversary == "true" {
		conds = append(conds, sq.Eq{"is_anniversary": true})
	}
	if f.Search != "" {
		conds = append(conds, searchCond(f.Search))
	}

	if f.Year != "" {
		start, end, err := YearRange(f.Year)
		if err != nil {
			return "", nil, err
		}
		conds = append(conds, rangeCond("taken_at", start, end))
	}
	if f.Month != "" {
		start, end, err := MonthRange(f.Month)
		if err != nil {
			return "", nil, err
		}
		conds = append(conds, rangeCond("taken_at", start, end))
	}

	return toSQL(conds)
}

// AnniversaryWhere builds the WHERE clause for an anniversary listing. The
// year filter applies to the anniversary date itself, not creation time.
func AnniversaryWhere(f AnniversaryFilter, access Access) (string, []interface{}, error) {
	var conds sq.And

	if c := visibilityCond("is_private", false, f.IsPrivate, access); c != nil {
		conds = append(conds, c)
	}
	if f.Search != "" {
		conds = append(conds, searchCond(f.Search))
	}
	if f.Year != "" {
		start, end, err := YearRange(f.Year)
		if err != nil {
			return "", nil, err
		}
		conds = append(conds, rangeCond("anniversary_date", start, end))
	}

	return toSQL(conds)
}
