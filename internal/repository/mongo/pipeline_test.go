package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"inkwell.io/blog/internal/domain"
)

func stageNames(p mongo.Pipeline) []string {
	names := make([]string, 0, len(p))
	for _, stage := range p {
		names = append(names, stage[0].Key)
	}
	return names
}

func stage(t *testing.T, p mongo.Pipeline, name string) bson.D {
	t.Helper()
	for _, s := range p {
		if s[0].Key == name {
			v, ok := s[0].Value.(bson.D)
			require.True(t, ok, "%s stage is not a document", name)
			return v
		}
	}
	t.Fatalf("no %s stage", name)
	return nil
}

func field(d bson.D, key string) any {
	for _, e := range d {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

func TestListPostsPipeline(t *testing.T) {
	tests := []struct {
		name      string
		query     domain.PostQuery
		wantField string
		wantDir   int
		wantSkip  int64
	}{
		{
			name:      "newest first by default",
			query:     domain.PostQuery{Page: 1, Limit: 10, SortBy: domain.SortByCreatedAt},
			wantField: "createdAt",
			wantDir:   -1,
			wantSkip:  0,
		},
		{
			name:      "title ascending on page three",
			query:     domain.PostQuery{Page: 3, Limit: 5, SortBy: domain.SortByTitle, Ascending: true},
			wantField: "title",
			wantDir:   1,
			wantSkip:  10,
		},
		{
			name:      "unknown field falls back to createdAt",
			query:     domain.PostQuery{Page: 1, Limit: 10, SortBy: "password"},
			wantField: "createdAt",
			wantDir:   -1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := listPostsPipeline(tt.query)
			require.Equal(t, []string{"$match", "$facet"}, stageNames(p))
			assert.Equal(t, true, field(stage(t, p, "$match"), "isPublished"))

			facet := stage(t, p, "$facet")
			page, ok := field(facet, "posts").(mongo.Pipeline)
			require.True(t, ok)
			assert.Equal(t, []string{"$sort", "$skip", "$limit", "$lookup", "$unwind", "$project"}, stageNames(page))

			sort := stage(t, page, "$sort")
			assert.Equal(t, tt.wantField, sort[0].Key)
			assert.Equal(t, tt.wantDir, sort[0].Value)
			assert.Equal(t, "_id", sort[1].Key)
			assert.Equal(t, tt.wantSkip, page[1][0].Value)
			assert.Equal(t, int64(tt.query.Limit), page[2][0].Value)
		})
	}
}

func TestPostDetailPipelineCountsLikes(t *testing.T) {
	p := postDetailPipeline("p1")
	assert.Equal(t, []string{"$match", "$limit", "$lookup", "$unwind", "$lookup", "$addFields", "$project"}, stageNames(p))
	assert.Equal(t, "p1", field(stage(t, p, "$match"), "_id"))

	project := stage(t, p, "$project")
	assert.Equal(t, 1, field(project, "likesCount"))
	assert.Nil(t, field(project, "author.password"))
}

func TestWithAuthorKeepsOrphanedPosts(t *testing.T) {
	p := withAuthor()
	unwind := stage(t, p, "$unwind")
	assert.Equal(t, "$author", field(unwind, "path"))
	assert.Equal(t, true, field(unwind, "preserveNullAndEmptyArrays"))
}

func TestAuthorProfilePipeline(t *testing.T) {
	p := authorProfilePipeline("Ada", 10)
	assert.Equal(t, []string{"$match", "$sort", "$limit", "$lookup", "$project"}, stageNames(p))
	assert.Equal(t, "Ada", field(stage(t, p, "$match"), "fullname"))

	lookup := stage(t, p, "$lookup")
	inner, ok := field(lookup, "pipeline").(mongo.Pipeline)
	require.True(t, ok)
	assert.Equal(t, true, field(stage(t, inner, "$match"), "isPublished"))
	assert.Equal(t, int64(10), field(inner[2], "$limit"))
}

func TestLikedPostsPipelineDropsMissingPosts(t *testing.T) {
	p := likedPostsPipeline("u1")
	assert.Equal(t, "u1", field(stage(t, p, "$match"), "likedBy"))
	assert.Equal(t, "$post", field(p[3], "$unwind"))
	assert.Equal(t, -1, field(stage(t, p, "$sort"), "createdAt"))
	assert.Equal(t, 1, field(stage(t, p, "$project"), "likedAt"))
}
