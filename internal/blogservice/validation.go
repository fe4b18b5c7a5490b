package blogservice

import (
	"encoding/json"
	"strings"

	"github.com/sushihentaime/caskblog/internal/common"
)

const (
	DefaultStatus = "draft"

	DefaultListStatus = "published"
	DefaultListLimit  = 20
	MaxListLimit      = 100
)

func validateRequired(v *common.Validator, o Optional[string], name string) {
	v.Check(o.Value != nil && *o.Value != "", name, "must be provided")
}

// validateNotNull guards NOT NULL columns on update. Any string, empty included, is accepted.
func validateNotNull(v *common.Validator, o Optional[string], name string) {
	v.Check(o.Value != nil, name, "must not be null")
}

// validateSlug only refuses a slash, which would split the /blogs/:slug path segment.
func validateSlug(v *common.Validator, o Optional[string]) {
	validateRequired(v, o, "slug")
	if o.Value != nil {
		v.Check(!strings.Contains(*o.Value, "/"), "slug", "must not contain a slash")
	}
}

func validateReadingTime(v *common.Validator, o Optional[int]) {
	if o.Value != nil {
		v.Check(*o.Value >= 0, "reading_time_minutes", "must not be negative")
	}
}

func validateID(v *common.Validator, id int64) {
	v.Check(id > 0, "id", "must be greater than zero")
}

// assignments lists the columns present in the input with their values. JSON
// documents are canonicalized; malformed ones are recorded on v.
func (in *PostInput) assignments(v *common.Validator) []assignment {
	var out []assignment

	text := func(column string, o Optional[string]) {
		if o.Set {
			out = append(out, assignment{column: column, value: o.arg()})
		}
	}

	document := func(column string, o Optional[json.RawMessage]) {
		if !o.Set {
			return
		}

		var raw json.RawMessage
		if o.Value != nil {
			raw = *o.Value
		}

		doc, err := CanonicalJSON(raw)
		if err != nil {
			v.AddError(column, "must be valid JSON")
			return
		}

		var value any
		if doc != nil {
			value = *doc
		}
		out = append(out, assignment{column: column, value: value})
	}

	text("slug", in.Slug)
	text("title", in.Title)
	text("subtitle", in.Subtitle)
	text("excerpt", in.Excerpt)
	text("category", in.Category)
	text("content_md", in.ContentMD)
	text("content_html", in.ContentHTML)
	text("cover_image_url", in.CoverImageURL)
	text("cover_image_alt", in.CoverImageAlt)
	text("status", in.Status)
	if in.ReadingTimeMinutes.Set {
		out = append(out, assignment{column: "reading_time_minutes", value: in.ReadingTimeMinutes.arg()})
	}
	if in.PublishedAt.Set {
		out = append(out, assignment{column: "published_at", value: in.PublishedAt.arg()})
	}
	text("focus_phrase", in.FocusPhrase)
	text("keywords", in.Keywords)
	text("meta_title", in.MetaTitle)
	text("meta_description", in.MetaDescription)
	text("canonical_url", in.CanonicalURL)
	text("og_title", in.OGTitle)
	text("og_description", in.OGDescription)
	text("og_image_url", in.OGImageURL)
	text("twitter_title", in.TwitterTitle)
	text("twitter_description", in.TwitterDescription)
	text("twitter_image_url", in.TwitterImageURL)
	document("faq_json", in.FAQJSON)
	document("schema_json", in.SchemaJSON)

	return out
}

// createAssignments validates a create request. Status falls back to DefaultStatus.
func (in *PostInput) createAssignments() ([]assignment, error) {
	v := common.NewValidator()
	validateSlug(v, in.Slug)
	validateRequired(v, in.Title, "title")
	validateReadingTime(v, in.ReadingTimeMinutes)

	values := in.assignments(v)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	status := DefaultStatus
	if in.Status.Value != nil && *in.Status.Value != "" {
		status = *in.Status.Value
	}

	out := make([]assignment, 0, len(values)+1)
	for _, a := range values {
		if a.column != "status" {
			out = append(out, a)
		}
	}
	out = append(out, assignment{column: "status", value: status})

	return out, nil
}

// updateAssignments validates an update request. Only present fields are returned.
func (in *PostInput) updateAssignments() ([]assignment, error) {
	v := common.NewValidator()
	if in.Slug.Set {
		validateSlug(v, in.Slug)
	}
	if in.Title.Set {
		validateRequired(v, in.Title, "title")
	}
	if in.Status.Set {
		validateNotNull(v, in.Status, "status")
	}
	validateReadingTime(v, in.ReadingTimeMinutes)

	values := in.assignments(v)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if len(values) == 0 {
		return nil, ErrNoFields
	}

	return values, nil
}

// normalize applies the listing defaults and bounds.
func (f ListFilter) normalize() ListFilter {
	if f.Limit < 1 {
		f.Limit = DefaultListLimit
	}
	f.Limit = min(f.Limit, MaxListLimit)

	if f.Offset < 0 {
		f.Offset = 0
	}

	return f
}
