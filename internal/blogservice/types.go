package blogservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/sushihentaime/caskblog/internal/common"
)

// BlogPost is the full projection of a row in app.blogs.
type BlogPost struct {
	ID                 int64      `json:"id"`
	Slug               string     `json:"slug"`
	Title              string     `json:"title"`
	Subtitle           *string    `json:"subtitle"`
	Excerpt            *string    `json:"excerpt"`
	Category           *string    `json:"category"`
	ContentMD          *string    `json:"content_md"`
	ContentHTML        *string    `json:"content_html"`
	CoverImageURL      *string    `json:"cover_image_url"`
	CoverImageAlt      *string    `json:"cover_image_alt"`
	ReadingTimeMinutes *int       `json:"reading_time_minutes"`
	Status             string     `json:"status"`
	PublishedAt        *time.Time `json:"published_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	FocusPhrase        *string    `json:"focus_phrase"`
	Keywords           *string    `json:"keywords"`
	MetaTitle          *string    `json:"meta_title"`
	MetaDescription    *string    `json:"meta_description"`
	CanonicalURL       *string    `json:"canonical_url"`
	OGTitle            *string    `json:"og_title"`
	OGDescription      *string    `json:"og_description"`
	OGImageURL         *string    `json:"og_image_url"`
	TwitterTitle       *string    `json:"twitter_title"`
	TwitterDescription *string    `json:"twitter_description"`
	TwitterImageURL    *string    `json:"twitter_image_url"`
	FAQJSON            Document   `json:"faq_json"`
	SchemaJSON         Document   `json:"schema_json"`
}

// Outline is the reduced projection used by listings. It carries no body content.
type Outline struct {
	ID                 int64      `json:"id"`
	Slug               string     `json:"slug"`
	Title              string     `json:"title"`
	Subtitle           *string    `json:"subtitle"`
	Excerpt            *string    `json:"excerpt"`
	Category           *string    `json:"category"`
	CoverImageURL      *string    `json:"cover_image_url"`
	CoverImageAlt      *string    `json:"cover_image_alt"`
	ReadingTimeMinutes *int       `json:"reading_time_minutes"`
	Status             string     `json:"status"`
	PublishedAt        *time.Time `json:"published_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	FocusPhrase        *string    `json:"focus_phrase"`
	MetaDescription    *string    `json:"meta_description"`
}

// PostInput is the body accepted by create and update. Keys missing from the
// request stay unset; a present null is set with a nil value. PublishedAt is
// handed to postgres as text, so any timestamptz input form is accepted.
type PostInput struct {
	UploadPassword string `json:"upload_password"`

	Slug               Optional[string]          `json:"slug"`
	Title              Optional[string]          `json:"title"`
	Subtitle           Optional[string]          `json:"subtitle"`
	Excerpt            Optional[string]          `json:"excerpt"`
	Category           Optional[string]          `json:"category"`
	ContentMD          Optional[string]          `json:"content_md"`
	ContentHTML        Optional[string]          `json:"content_html"`
	CoverImageURL      Optional[string]          `json:"cover_image_url"`
	CoverImageAlt      Optional[string]          `json:"cover_image_alt"`
	Status             Optional[string]          `json:"status"`
	ReadingTimeMinutes Optional[int]             `json:"reading_time_minutes"`
	PublishedAt        Optional[string]          `json:"published_at"`
	FocusPhrase        Optional[string]          `json:"focus_phrase"`
	Keywords           Optional[string]          `json:"keywords"`
	MetaTitle          Optional[string]          `json:"meta_title"`
	MetaDescription    Optional[string]          `json:"meta_description"`
	CanonicalURL       Optional[string]          `json:"canonical_url"`
	OGTitle            Optional[string]          `json:"og_title"`
	OGDescription      Optional[string]          `json:"og_description"`
	OGImageURL         Optional[string]          `json:"og_image_url"`
	TwitterTitle       Optional[string]          `json:"twitter_title"`
	TwitterDescription Optional[string]          `json:"twitter_description"`
	TwitterImageURL    Optional[string]          `json:"twitter_image_url"`
	FAQJSON            Optional[json.RawMessage] `json:"faq_json"`
	SchemaJSON         Optional[json.RawMessage] `json:"schema_json"`
}

// ListFilter selects and pages outlines. An empty Status or Search disables that filter.
type ListFilter struct {
	Status string
	Search string
	Limit  int
	Offset int
}

// Querier runs a statement and hands the resulting rows to scan.
type Querier interface {
	Query(ctx context.Context, query string, args []any, scan func(*sql.Rows) error) error
}

type BlogModel struct {
	db Querier
}

type BlogService struct {
	m      *BlogModel
	c      *common.Cache
	mb     common.MessageProducer
	secret *UploadSecret
	logger *slog.Logger
}

// blogEvent is published on the blog exchange after a successful mutation.
type blogEvent struct {
	ID     int64  `json:"id"`
	Slug   string `json:"slug"`
	Title  string `json:"title"`
	Status string `json:"status"`
}
