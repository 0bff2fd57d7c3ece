package model

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func validInput() ArticleInput {
	return ArticleInput{
		Title:    "Hello World",
		Body:     "This is a sufficiently long body.",
		Author:   "Ada",
		Category: "Technology",
	}
}

func TestNewArticle_Valid(t *testing.T) {
	in := ArticleInput{
		Title:    "  Hello World  ",
		Body:     "\tThis is a sufficiently long body.\n",
		Author:   " Ada ",
		Category: " technology ",
	}

	a, err := NewArticle(in, testNow)
	require.NoError(t, err)

	want := &Article{
		Title:     "Hello World",
		Body:      "This is a sufficiently long body.",
		Author:    "Ada",
		Category:  CategoryTechnology,
		Published: false,
		ViewCount: 0,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	if diff := cmp.Diff(want, a); diff != "" {
		t.Fatalf("article mismatch (-want +got):\n%s", diff)
	}
}

func TestNewArticle_DefaultCategory(t *testing.T) {
	in := validInput()
	in.Category = ""

	a, err := NewArticle(in, testNow)
	require.NoError(t, err)
	assert.Equal(t, CategoryOther, a.Category)
}

func TestNewArticle_Boundaries(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *ArticleInput)
		field  string
	}{
		{name: "title min", mutate: func(in *ArticleInput) { in.Title = "abc" }},
		{name: "title max", mutate: func(in *ArticleInput) { in.Title = strings.Repeat("t", 200) }},
		{name: "title too long", mutate: func(in *ArticleInput) { in.Title = strings.Repeat("t", 201) }, field: "title"},
		{name: "title counts runes", mutate: func(in *ArticleInput) { in.Title = "日本語" }},
		{name: "title trimmed too short", mutate: func(in *ArticleInput) { in.Title = "  ab  " }, field: "title"},
		{name: "body min", mutate: func(in *ArticleInput) { in.Body = "0123456789" }},
		{name: "body too short", mutate: func(in *ArticleInput) { in.Body = "012345678" }, field: "body"},
		{name: "author max", mutate: func(in *ArticleInput) { in.Author = strings.Repeat("a", 100) }},
		{name: "author too long", mutate: func(in *ArticleInput) { in.Author = strings.Repeat("a", 101) }, field: "author"},
		{name: "author blank", mutate: func(in *ArticleInput) { in.Author = "   " }, field: "author"},
		{name: "unknown category", mutate: func(in *ArticleInput) { in.Category = "Sports" }, field: "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, err := NewArticle(in, testNow)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.True(t, verr.HasField(tt.field), "expected error on %s, got %v", tt.field, verr.Fields)
			assert.Len(t, verr.Fields, 1)
		})
	}
}

func TestNewArticle_ReportsEveryInvalidField(t *testing.T) {
	_, err := NewArticle(ArticleInput{Title: "Hi", Body: "short", Author: "", Category: "Sports"}, testNow)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, []string{
		"title must be at least 3 characters",
		"body must be at least 10 characters",
		"author is required",
		"Sports is not a valid category",
	}, verr.Messages())
}

func TestNewArticle_ShortTitleAndBody(t *testing.T) {
	_, err := NewArticle(ArticleInput{Title: "Hi", Body: "short body", Author: "Ada"}, testNow)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasField("title"))
	assert.False(t, verr.HasField("body"), "ten characters is a valid body")
}

func TestArticle_Apply(t *testing.T) {
	a, err := NewArticle(validInput(), testNow)
	require.NoError(t, err)

	later := testNow.Add(time.Hour)
	title := "  Updated title "
	published := true
	require.NoError(t, a.Apply(ArticlePatch{Title: &title, Published: &published}, later))

	assert.Equal(t, "Updated title", a.Title)
	assert.True(t, a.Published)
	assert.Equal(t, "Ada", a.Author)
	assert.Equal(t, later, a.UpdatedAt)
	assert.Equal(t, testNow, a.CreatedAt)
}

func TestArticle_ApplyInvalidLeavesArticleUntouched(t *testing.T) {
	a, err := NewArticle(validInput(), testNow)
	require.NoError(t, err)
	before := *a

	body := "tiny"
	views := -1
	err = a.Apply(ArticlePatch{Body: &body, ViewCount: &views}, testNow.Add(time.Minute))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{
		"body must be at least 10 characters",
		"viewCount cannot be negative",
	}, verr.Messages())
	assert.Equal(t, before, *a)
}

func TestArticle_UpdatedAtNeverBeforeCreatedAt(t *testing.T) {
	a, err := NewArticle(validInput(), testNow)
	require.NoError(t, err)

	published := true
	require.NoError(t, a.Apply(ArticlePatch{Published: &published}, testNow.Add(-time.Hour)))
	assert.True(t, a.Published)
	assert.Equal(t, testNow, a.UpdatedAt)
}

func TestArticle_Summary(t *testing.T) {
	short := &Article{Body: "A short body."}
	assert.Equal(t, "A short body.", short.Summary())

	exact := &Article{Body: strings.Repeat("x", SummaryLength)}
	assert.Equal(t, exact.Body, exact.Summary())

	long := &Article{Body: strings.Repeat("é", SummaryLength+1)}
	got := long.Summary()
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, strings.Repeat("é", SummaryLength)+"...", got)
}

func TestArticle_EstimatedReadMinutes(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{words: 1, want: 1},
		{words: 200, want: 1},
		{words: 201, want: 2},
		{words: 450, want: 3},
	}
	for _, tt := range tests {
		a := &Article{Body: strings.TrimSpace(strings.Repeat("word ", tt.words))}
		assert.Equal(t, tt.want, a.EstimatedReadMinutes(), "words=%d", tt.words)
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("cooking")
	require.NoError(t, err)
	assert.Equal(t, CategoryCooking, c)

	_, err = ParseCategory("Sports")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Sports is not a valid category"}, verr.Messages())
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID(NewID()))
	assert.ErrorIs(t, ValidateID("123"), ErrInvalidID)
	assert.ErrorIs(t, ValidateID("zzzzzzzzzzzzzzzzzzzzzzzz"), ErrInvalidID)
	assert.ErrorIs(t, ValidateID("published"), ErrInvalidID)
}
