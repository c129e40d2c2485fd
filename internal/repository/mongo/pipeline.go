package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"inkwell.io/blog/internal/domain"
)

var sortFields = map[string]string{
	domain.SortByCreatedAt: "createdAt",
	domain.SortByUpdatedAt: "updatedAt",
	domain.SortByTitle:     "title",
}

// postViewProjection keeps the fields of domain.PostView plus extra.
func postViewProjection(extra ...string) bson.D {
	fields := bson.D{
		{Key: "title", Value: 1},
		{Key: "description", Value: 1},
		{Key: "image", Value: 1},
		{Key: "isPublished", Value: 1},
		{Key: "createdAt", Value: 1},
		{Key: "updatedAt", Value: 1},
		{Key: "author._id", Value: 1},
		{Key: "author.fullname", Value: 1},
		{Key: "author.avatar", Value: 1},
	}
	for _, f := range extra {
		fields = append(fields, bson.E{Key: f, Value: 1})
	}
	return bson.D{{Key: "$project", Value: fields}}
}

// withAuthor replaces the author id by the author document. Posts whose
// author is gone keep no author field.
func withAuthor() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "author"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "author"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$author"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

func postDetailPipeline(postID string) mongo.Pipeline {
	p := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: postID}}}},
		{{Key: "$limit", Value: 1}},
	}
	p = append(p, withAuthor()...)
	p = append(p,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: likesCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "post"},
			{Key: "as", Value: "likes"},
		}}},
		bson.D{{Key: "$addFields", Value: bson.D{{Key: "likesCount", Value: bson.D{{Key: "$size", Value: "$likes"}}}}}},
		postViewProjection("likesCount"),
	)
	return p
}

// listPostsPipeline counts the published posts and cuts one page from
// them in a single aggregation.
func listPostsPipeline(q domain.PostQuery) mongo.Pipeline {
	field, ok := sortFields[q.SortBy]
	if !ok {
		field = sortFields[domain.SortByCreatedAt]
	}
	direction := -1
	if q.Ascending {
		direction = 1
	}

	page := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: field, Value: direction}, {Key: "_id", Value: 1}}}},
		{{Key: "$skip", Value: int64(q.Offset())}},
		{{Key: "$limit", Value: int64(q.Limit)}},
	}
	page = append(page, withAuthor()...)
	page = append(page, postViewProjection())

	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "isPublished", Value: true}}}},
		{{Key: "$facet", Value: bson.D{
			{Key: "total", Value: bson.A{bson.D{{Key: "$count", Value: "n"}}}},
			{Key: "posts", Value: page},
		}}},
	}
}

// authorProfilePipeline runs on users. The author's recent published posts
// are joined in and carry the author summary.
func authorProfilePipeline(fullname string, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "fullname", Value: fullname}}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: 1}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: postsCollection},
			{Key: "let", Value: bson.D{
				{Key: "uid", Value: "$_id"},
				{Key: "name", Value: "$fullname"},
				{Key: "avatar", Value: "$avatar"},
			}},
			{Key: "pipeline", Value: mongo.Pipeline{
				{{Key: "$match", Value: bson.D{
					{Key: "isPublished", Value: true},
					{Key: "$expr", Value: bson.D{{Key: "$eq", Value: bson.A{"$author", "$$uid"}}}},
				}}},
				{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}}},
				{{Key: "$limit", Value: int64(limit)}},
				{{Key: "$addFields", Value: bson.D{{Key: "author", Value: bson.D{
					{Key: "_id", Value: "$$uid"},
					{Key: "fullname", Value: "$$name"},
					{Key: "avatar", Value: "$$avatar"},
				}}}}},
				postViewProjection(),
			}},
			{Key: "as", Value: "recentPosts"},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "fullname", Value: 1},
			{Key: "avatar", Value: 1},
			{Key: "createdAt", Value: 1},
			{Key: "recentPosts", Value: 1},
		}}},
	}
}

// likedPostsPipeline runs on likes. Likes whose post is gone are dropped.
func likedPostsPipeline(userID string) mongo.Pipeline {
	p := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "likedBy", Value: userID}}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "post", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: postsCollection},
			{Key: "localField", Value: "post"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "post"},
		}}},
		{{Key: "$unwind", Value: "$post"}},
		{{Key: "$replaceRoot", Value: bson.D{{Key: "newRoot", Value: bson.D{
			{Key: "$mergeObjects", Value: bson.A{"$post", bson.D{{Key: "likedAt", Value: "$createdAt"}}}},
		}}}}},
	}
	p = append(p, withAuthor()...)
	p = append(p, postViewProjection("likedAt"))
	return p
}
