package repository

import (
	"strings"
	"unicode"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Pagination bounds for note listing
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// SortColumn is the closed set of sortable note columns
type SortColumn int

const (
	SortUpdatedAt SortColumn = iota
	SortCreatedAt
	SortTitle
)

// ParseSortColumn maps a request value onto the whitelist; unknown values sort by updatedAt
func ParseSortColumn(raw string) SortColumn {
	switch strings.TrimSpace(raw) {
	case "createdAt", "created_at":
		return SortCreatedAt
	case "title":
		return SortTitle
	default:
		return SortUpdatedAt
	}
}

// Column returns the fixed column name backing the sort key
func (s SortColumn) Column() string {
	switch s {
	case SortCreatedAt:
		return "created_at"
	case SortTitle:
		return "title"
	default:
		return "updated_at"
	}
}

func (s SortColumn) String() string {
	switch s {
	case SortCreatedAt:
		return "createdAt"
	case SortTitle:
		return "title"
	default:
		return "updatedAt"
	}
}

// NoteListOptions raw list parameters as received from the caller
type NoteListOptions struct {
	Search   string
	Tag      string
	Archived *bool
	SortBy   string
	SortDir  string
	Limit    int
	Offset   int
}

// NoteListQuery is NoteListOptions after whitelisting and clamping
type NoteListQuery struct {
	Search   string
	Tag      string
	Archived *bool
	Sort     SortColumn
	Desc     bool
	Limit    int
	Offset   int
}

// Normalize applies the sort whitelist and pagination bounds
func (o NoteListOptions) Normalize() NoteListQuery {
	q := NoteListQuery{
		Search:   strings.TrimSpace(o.Search),
		Tag:      o.Tag,
		Archived: o.Archived,
		Sort:     ParseSortColumn(o.SortBy),
		Desc:     !strings.EqualFold(strings.TrimSpace(o.SortDir), "ASC"),
		Limit:    o.Limit,
		Offset:   o.Offset,
	}
	if q.Limit < 1 {
		q.Limit = DefaultListLimit
	}
	if q.Limit > MaxListLimit {
		q.Limit = MaxListLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// Apply adds the filter, order and page clauses to a query already scoped to one user
func (q NoteListQuery) Apply(db *gorm.DB) *gorm.DB {
	if q.Archived != nil {
		db = db.Where("is_archived = ?", *q.Archived)
	}
	if q.Tag != "" {
		db = db.Where(tagContains(q.Tag))
	}
	if q.Search != "" {
		db = db.Where(searchExpression{term: q.Search})
	}
	return db.
		Order(clause.OrderByColumn{Column: clause.Column{Name: q.Sort.Column()}, Desc: q.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: q.Desc}).
		Limit(q.Limit).
		Offset(q.Offset)
}

// tagContains is an exact membership test against the JSON tags array
// (JSON_CONTAINS on MySQL, json_each on SQLite).
func tagContains(tag string) clause.Expression {
	return tagExpression{inner: datatypes.JSONArrayQuery("tags").Contains(tag)}
}

// tagExpression skips rows whose stored tags are not valid JSON on SQLite, where json_each
// fails the whole statement on a malformed value. MySQL JSON columns cannot hold invalid JSON.
type tagExpression struct {
	inner clause.Expression
}

// Build implements clause.Expression
func (e tagExpression) Build(builder clause.Builder) {
	stmt, ok := builder.(*gorm.Statement)
	if !ok || stmt.Dialector.Name() != "sqlite" {
		e.inner.Build(builder)
		return
	}
	builder.WriteString("(CASE WHEN json_valid(")
	builder.WriteQuoted("tags")
	builder.WriteString(") THEN (")
	e.inner.Build(builder)
	builder.WriteString(") ELSE 0 END)")
}

// likeEscape is the ESCAPE character used by every LIKE pattern built here
const likeEscape = '!'

func escapeLike(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case likeEscape, '%', '_':
			b.WriteRune(likeEscape)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// fulltextTerm keeps only word characters and turns each word into a prefix match,
// so boolean-mode operators in user input are never interpreted.
func fulltextTerm(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, w := range words {
		words[i] = w + "*"
	}
	return strings.Join(words, " ")
}

// searchExpression matches title/content by full-text relevance OR case-insensitive substring.
// The relevance leg needs a FULLTEXT index and is only emitted for MySQL.
// SQLite's LOWER() folds ASCII only, so non-ASCII case-insensitive matching is MySQL collation behavior.
type searchExpression struct {
	term string
}

// Build implements clause.Expression
func (e searchExpression) Build(builder clause.Builder) {
	pattern := "%" + escapeLike(strings.ToLower(e.term)) + "%"

	builder.WriteByte('(')
	if stmt, ok := builder.(*gorm.Statement); ok && stmt.Dialector.Name() == "mysql" {
		if ft := fulltextTerm(e.term); ft != "" {
			builder.WriteString("MATCH(")
			builder.WriteQuoted("title")
			builder.WriteString(", ")
			builder.WriteQuoted("content")
			builder.WriteString(") AGAINST(")
			builder.AddVar(builder, ft)
			builder.WriteString(" IN BOOLEAN MODE) OR ")
		}
	}
	for i, col := range []string{"title", "content"} {
		if i > 0 {
			builder.WriteString(" OR ")
		}
		builder.WriteString("LOWER(")
		builder.WriteQuoted(col)
		builder.WriteString(") LIKE ")
		builder.AddVar(builder, pattern)
		builder.WriteString(" ESCAPE '" + string(likeEscape) + "'")
	}
	builder.WriteByte(')')
}
