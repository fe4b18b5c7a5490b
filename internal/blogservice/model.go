package blogservice

import (
	"context"
	"database/sql"

	"github.com/sushihentaime/caskblog/internal/common"
)

func newBlogModel(db Querier) *BlogModel {
	return &BlogModel{db: db}
}

func scanBlog(rows *sql.Rows) (*BlogPost, error) {
	var b BlogPost
	err := rows.Scan(
		&b.ID, &b.Slug, &b.Title, &b.Subtitle, &b.Excerpt, &b.Category, &b.ContentMD, &b.ContentHTML,
		&b.CoverImageURL, &b.CoverImageAlt, &b.ReadingTimeMinutes, &b.Status, &b.PublishedAt,
		&b.CreatedAt, &b.UpdatedAt, &b.FocusPhrase, &b.Keywords, &b.MetaTitle, &b.MetaDescription,
		&b.CanonicalURL, &b.OGTitle, &b.OGDescription, &b.OGImageURL, &b.TwitterTitle,
		&b.TwitterDescription, &b.TwitterImageURL, &b.FAQJSON, &b.SchemaJSON,
	)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func scanOutline(rows *sql.Rows) (*Outline, error) {
	var o Outline
	err := rows.Scan(
		&o.ID, &o.Slug, &o.Title, &o.Subtitle, &o.Excerpt, &o.Category, &o.CoverImageURL,
		&o.CoverImageAlt, &o.ReadingTimeMinutes, &o.Status, &o.PublishedAt, &o.CreatedAt,
		&o.UpdatedAt, &o.FocusPhrase, &o.MetaDescription,
	)
	if err != nil {
		return nil, err
	}

	return &o, nil
}

// queryOne runs a statement expected to produce at most one blog row.
func (m *BlogModel) queryOne(ctx context.Context, query string, args []any) (*BlogPost, error) {
	var blog *BlogPost
	err := m.db.Query(ctx, query, args, func(rows *sql.Rows) error {
		if !rows.Next() {
			return nil
		}

		var err error
		blog, err = scanBlog(rows)
		return err
	})
	if err != nil {
		return nil, err
	}

	if blog == nil {
		return nil, common.ErrRecordNotFound
	}

	return blog, nil
}

// getOutlines returns one page of outlines, newest publication first with unpublished posts last.
func (m *BlogModel) getOutlines(ctx context.Context, f ListFilter) ([]Outline, error) {
	query, args, err := listOutlinesQuery(f)
	if err != nil {
		return nil, err
	}

	outlines := []Outline{}
	err = m.db.Query(ctx, query, args, func(rows *sql.Rows) error {
		for rows.Next() {
			o, err := scanOutline(rows)
			if err != nil {
				return err
			}
			outlines = append(outlines, *o)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return outlines, nil
}

func (m *BlogModel) getBlogBySlug(ctx context.Context, slug string) (*BlogPost, error) {
	query, args, err := blogBySlugQuery(slug)
	if err != nil {
		return nil, err
	}

	return m.queryOne(ctx, query, args)
}

func (m *BlogModel) insert(ctx context.Context, values []assignment) (*BlogPost, error) {
	query, args, err := insertBlogQuery(values)
	if err != nil {
		return nil, err
	}

	return m.queryOne(ctx, query, args)
}

func (m *BlogModel) updateBlog(ctx context.Context, id int64, values []assignment) (*BlogPost, error) {
	query, args, err := updateBlogQuery(id, values)
	if err != nil {
		return nil, err
	}

	return m.queryOne(ctx, query, args)
}
