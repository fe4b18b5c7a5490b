package blogservice

import (
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

const blogsTable = "app.blogs"

var ErrNoFields = errors.New("no fields to update")

// psql binds every value as a $n placeholder.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// blogColumns is the full projection, in the order scanBlog reads it.
var blogColumns = []string{
	"id", "slug", "title", "subtitle", "excerpt", "category", "content_md", "content_html",
	"cover_image_url", "cover_image_alt", "reading_time_minutes", "status", "published_at",
	"created_at", "updated_at", "focus_phrase", "keywords", "meta_title", "meta_description",
	"canonical_url", "og_title", "og_description", "og_image_url", "twitter_title",
	"twitter_description", "twitter_image_url", "faq_json", "schema_json",
}

// outlineColumns is the listing projection, in the order scanOutline reads it.
var outlineColumns = []string{
	"id", "slug", "title", "subtitle", "excerpt", "category", "cover_image_url",
	"cover_image_alt", "reading_time_minutes", "status", "published_at", "created_at",
	"updated_at", "focus_phrase", "meta_description",
}

// assignment binds one column to the value written to it.
type assignment struct {
	column string
	value  any
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func listOutlinesQuery(f ListFilter) (string, []any, error) {
	b := psql.Select(outlineColumns...).From(blogsTable)

	if f.Status != "" {
		b = b.Where(sq.Eq{"status": f.Status})
	}

	if f.Search != "" {
		pattern := containsPattern(f.Search)
		b = b.Where(sq.Or{sq.ILike{"title": pattern}, sq.ILike{"excerpt": pattern}})
	}

	return b.
		OrderBy("published_at DESC NULLS LAST", "created_at DESC").
		Suffix("LIMIT ? OFFSET ?", f.Limit, f.Offset).
		ToSql()
}

func blogBySlugQuery(slug string) (string, []any, error) {
	return psql.Select(blogColumns...).
		From(blogsTable).
		Where(sq.Eq{"slug": slug}).
		Suffix("LIMIT 1").
		ToSql()
}

func insertBlogQuery(values []assignment) (string, []any, error) {
	b := psql.Insert(blogsTable)

	columns := make([]string, 0, len(values))
	args := make([]any, 0, len(values))
	for _, v := range values {
		columns = append(columns, v.column)
		args = append(args, v.value)
	}

	return b.Columns(columns...).
		Values(args...).
		Suffix("RETURNING " + strings.Join(blogColumns, ", ")).
		ToSql()
}

// updateBlogQuery sets only the given columns and always refreshes updated_at.
func updateBlogQuery(id int64, values []assignment) (string, []any, error) {
	if len(values) == 0 {
		return "", nil, ErrNoFields
	}

	b := psql.Update(blogsTable)
	for _, v := range values {
		b = b.Set(v.column, v.value)
	}

	return b.Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(blogColumns, ", ")).
		ToSql()
}
