package blogservice

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/caskblog/internal/common"
)

func decodeInput(t *testing.T, body string) *PostInput {
	t.Helper()

	var in PostInput
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return &in
}

func columnsOf(values []assignment) map[string]any {
	m := make(map[string]any, len(values))
	for _, v := range values {
		m[v.column] = v.value
	}
	return m
}

func TestOptionalUnmarshal(t *testing.T) {
	in := decodeInput(t, `{"title": "Ales", "subtitle": null, "reading_time_minutes": 4, "published_at": "2024-06-01T09:00:00Z"}`)

	assert.True(t, in.Title.Set)
	assert.Equal(t, "Ales", *in.Title.Value)

	assert.True(t, in.Subtitle.Set)
	assert.Nil(t, in.Subtitle.Value)

	assert.False(t, in.Excerpt.Set)

	assert.Equal(t, 4, *in.ReadingTimeMinutes.Value)
	assert.Equal(t, "2024-06-01T09:00:00Z", *in.PublishedAt.Value)

	var bad PostInput
	assert.Error(t, json.Unmarshal([]byte(`{"reading_time_minutes": "four"}`), &bad))
}

func TestCreateAssignments(t *testing.T) {
	testCases := []struct {
		name       string
		body       string
		wantStatus string
		wantErr    map[string]string
	}{
		{
			name:       "status defaults to draft",
			body:       `{"slug": "a-post", "title": "A post"}`,
			wantStatus: DefaultStatus,
		},
		{
			name:       "empty status defaults to draft",
			body:       `{"slug": "a-post", "title": "A post", "status": ""}`,
			wantStatus: DefaultStatus,
		},
		{
			name:       "null status defaults to draft",
			body:       `{"slug": "a-post", "title": "A post", "status": null}`,
			wantStatus: DefaultStatus,
		},
		{
			name:       "provided status kept",
			body:       `{"slug": "a-post", "title": "A post", "status": "published"}`,
			wantStatus: "published",
		},
		{
			name:    "missing slug and title",
			body:    `{}`,
			wantErr: map[string]string{"slug": "must be provided", "title": "must be provided"},
		},
		{
			name:       "slug with dots",
			body:       `{"slug": "fish.and.chips", "title": "A post"}`,
			wantStatus: DefaultStatus,
		},
		{
			name:       "slug with accents and capitals",
			body:       `{"slug": "Café-Guide", "title": "A post"}`,
			wantStatus: DefaultStatus,
		},
		{
			name:    "slug with a slash",
			body:    `{"slug": "ales/bitter", "title": "A post"}`,
			wantErr: map[string]string{"slug": "must not contain a slash"},
		},
		{
			name:    "empty slug",
			body:    `{"slug": "", "title": "A post"}`,
			wantErr: map[string]string{"slug": "must be provided"},
		},
		{
			name:    "malformed faq",
			body:    `{"slug": "a-post", "title": "A post", "faq_json": "{oops"}`,
			wantErr: map[string]string{"faq_json": "must be valid JSON"},
		},
		{
			name:    "negative reading time",
			body:    `{"slug": "a-post", "title": "A post", "reading_time_minutes": -1}`,
			wantErr: map[string]string{"reading_time_minutes": "must not be negative"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			values, err := decodeInput(t, tc.body).createAssignments()
			if tc.wantErr != nil {
				assert.Equal(t, common.ValidationError{Errors: tc.wantErr}, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, columnsOf(values)["status"])
		})
	}
}

func TestCreateAssignmentsPassesPublishedAtThrough(t *testing.T) {
	for _, publishedAt := range []string{"2024-01-01", "2024-06-01T10:00", "2024-06-01T09:00:00Z"} {
		body, err := json.Marshal(map[string]string{"slug": "a-post", "title": "A post", "published_at": publishedAt})
		require.NoError(t, err)

		values, err := decodeInput(t, string(body)).createAssignments()
		require.NoError(t, err)
		assert.Equal(t, publishedAt, columnsOf(values)["published_at"])
	}
}

func TestCreateAssignmentsNormalizesDocuments(t *testing.T) {
	in := decodeInput(t, `{"slug": "a-post", "title": "A post", "faq_json": "[{\"q\": \"Why?\"}]", "schema_json": {"@type": "Article"}}`)

	values, err := in.createAssignments()
	require.NoError(t, err)

	cols := columnsOf(values)
	assert.Equal(t, `[{"q":"Why?"}]`, cols["faq_json"])
	assert.Equal(t, `{"@type":"Article"}`, cols["schema_json"])

	in = decodeInput(t, `{"slug": "a-post", "title": "A post", "faq_json": ""}`)
	values, err = in.createAssignments()
	require.NoError(t, err)
	assert.Nil(t, columnsOf(values)["faq_json"])
}

func TestUpdateAssignments(t *testing.T) {
	t.Run("only present fields", func(t *testing.T) {
		values, err := decodeInput(t, `{"title": "Renamed", "excerpt": null}`).updateAssignments()
		require.NoError(t, err)
		assert.Equal(t, []assignment{
			{column: "title", value: "Renamed"},
			{column: "excerpt", value: nil},
		}, values)
	})

	t.Run("password alone is not a field", func(t *testing.T) {
		_, err := decodeInput(t, `{"upload_password": "secret"}`).updateAssignments()
		assert.ErrorIs(t, err, ErrNoFields)
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := decodeInput(t, `{}`).updateAssignments()
		assert.ErrorIs(t, err, ErrNoFields)
	})

	t.Run("required columns cannot be cleared", func(t *testing.T) {
		_, err := decodeInput(t, `{"slug": null, "title": "", "status": null}`).updateAssignments()
		assert.Equal(t, common.ValidationError{Errors: map[string]string{
			"slug":   "must be provided",
			"title":  "must be provided",
			"status": "must not be null",
		}}, err)
	})

	t.Run("status accepts any string", func(t *testing.T) {
		for _, status := range []string{"", "archived", "Published "} {
			body, err := json.Marshal(map[string]string{"status": status})
			require.NoError(t, err)

			values, err := decodeInput(t, string(body)).updateAssignments()
			require.NoError(t, err)
			assert.Equal(t, []assignment{{column: "status", value: status}}, values)
		}
	})

	t.Run("documents can be cleared", func(t *testing.T) {
		values, err := decodeInput(t, `{"schema_json": null}`).updateAssignments()
		require.NoError(t, err)
		assert.Equal(t, []assignment{{column: "schema_json", value: nil}}, values)
	})
}

func TestListFilterNormalize(t *testing.T) {
	testCases := []struct {
		name string
		in   ListFilter
		want ListFilter
	}{
		{name: "defaults", in: ListFilter{}, want: ListFilter{Limit: DefaultListLimit}},
		{name: "clamped", in: ListFilter{Limit: 500}, want: ListFilter{Limit: MaxListLimit}},
		{name: "at maximum", in: ListFilter{Limit: 100, Offset: 10}, want: ListFilter{Limit: 100, Offset: 10}},
		{name: "negative", in: ListFilter{Limit: -3, Offset: -1}, want: ListFilter{Limit: DefaultListLimit}},
		{name: "filters kept", in: ListFilter{Status: "draft", Search: "fish", Limit: 5}, want: ListFilter{Status: "draft", Search: "fish", Limit: 5}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.normalize())
		})
	}
}
