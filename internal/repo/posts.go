package repo

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/bufbuild/connect-go"
	"github.com/tierklinik-dobersberg/markdown-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var graphLookupStep = bson.D{
	{
		Key: "$graphLookup",
		Value: bson.M{
			"from":             PostCollection,
			"startWith":        "$_id",
			"connectFromField": "_id",
			"connectToField":   "parentId",
			"as":               "replies",
		},
	},
}

func (r *Repository) CreatePost(ctx context.Context, model models.Post) (string, error) {
	// verify that the channel actually exists
	if _, err := r.GetChannelByName(ctx, model.ChannelID); err != nil {
		return "", err
	}

	if model.ID.IsZero() {
		model.ID = primitive.NewObjectID()
	}

	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now()
	}

	if _, err := r.posts.InsertOne(ctx, model); err != nil {
		return "", fmt.Errorf("failed to save post: %w", err)
	}

	return model.ID.Hex(), nil
}

func (r *Repository) GetPost(ctx context.Context, id string) (models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Post{}, connect.NewError(connect.CodeInvalidArgument, err)
	}

	res := r.posts.FindOne(ctx, bson.M{"_id": oid})
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Post{}, connect.NewError(connect.CodeNotFound, fmt.Errorf("post not found"))
		}

		return models.Post{}, fmt.Errorf("failed to find post: %w", err)
	}

	var p models.Post
	if err := res.Decode(&p); err != nil {
		return models.Post{}, fmt.Errorf("failed to decode post: %w", err)
	}

	return p, nil
}

// UpdatePostMessage replaces the message of a post and marks it as edited.
func (r *Repository) UpdatePostMessage(ctx context.Context, id string, message string) (models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Post{}, connect.NewError(connect.CodeInvalidArgument, err)
	}

	res := r.posts.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{
			"message": message,
			"editAt":  time.Now(),
		},
	}, options.FindOneAndUpdate().SetReturnDocument(options.After))

	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Post{}, connect.NewError(connect.CodeNotFound, fmt.Errorf("post not found"))
		}

		return models.Post{}, fmt.Errorf("failed to update post: %w", err)
	}

	var p models.Post
	if err := res.Decode(&p); err != nil {
		return models.Post{}, fmt.Errorf("failed to decode post: %w", err)
	}

	return p, nil
}

// ListPosts returns all top-level posts of a channel, oldest first.
func (r *Repository) ListPosts(ctx context.Context, channel string) ([]models.Post, error) {
	filter := bson.M{
		"channel": channel,
		"parentId": bson.M{
			"$exists": false,
		},
	}

	res, err := r.posts.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find posts: %w", err)
	}

	var result []models.Post
	if err := res.All(ctx, &result); err != nil {
		return result, fmt.Errorf("failed to decode posts: %w", err)
	}

	return result, nil
}

// GetThread loads the post with the given id and all replies below it.
func (r *Repository) GetThread(ctx context.Context, id string) (*models.PostThread, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	pipeline := mongo.Pipeline{
		{{
			Key: "$match",
			Value: bson.M{
				"_id": oid,
			},
		}},
		graphLookupStep,
	}

	res, err := r.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var result []threadResult
	if err := res.All(ctx, &result); err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("post not found"))
	}

	return result[0].buildThread()
}

type threadResult struct {
	models.Post `bson:",inline"`
	Replies     []models.Post `bson:"replies"`
}

func (tr threadResult) buildThread() (*models.PostThread, error) {
	threads := make(map[string]*models.PostThread, len(tr.Replies))

	result := &models.PostThread{
		Post: tr.Post,
	}

	slices.SortFunc(tr.Replies, func(a, b models.Post) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	// first, create a thread object for each reply
	for _, p := range tr.Replies {
		threads[p.ID.Hex()] = &models.PostThread{
			Post: p,
		}
	}

	// next, attach every reply to its parent
	for _, p := range tr.Replies {
		thread := threads[p.ID.Hex()]

		if p.ParentID == tr.Post.ID {
			result.Replies = append(result.Replies, thread)
			continue
		}

		parent, ok := threads[p.ParentID.Hex()]
		if !ok {
			return nil, fmt.Errorf("failed to get parent thread for id %q (parent: %q)", p.ID.Hex(), p.ParentID.Hex())
		}

		parent.Replies = append(parent.Replies, thread)
	}

	return result, nil
}
