package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/bufbuild/connect-go"
	"github.com/tierklinik-dobersberg/markdown-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *Repository) CreateChannel(ctx context.Context, model *models.Channel) (id string, err error) {
	if model.InternalID.IsZero() {
		model.InternalID = primitive.NewObjectID()
	}

	if _, err := r.channels.InsertOne(ctx, model); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", connect.NewError(connect.CodeAlreadyExists, fmt.Errorf("channel name already exists"))
		}

		return "", fmt.Errorf("failed to save channel: %w", err)
	}

	return model.InternalID.Hex(), nil
}

func (r *Repository) GetChannelByName(ctx context.Context, name string) (models.Channel, error) {
	res := r.channels.FindOne(ctx, bson.M{"name": name})
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Channel{}, connect.NewError(connect.CodeNotFound, fmt.Errorf("failed to find channel"))
		}

		return models.Channel{}, fmt.Errorf("failed to find channel: %w", err)
	}

	var channel models.Channel
	if err := res.Decode(&channel); err != nil {
		return models.Channel{}, fmt.Errorf("failed to decode channel: %w", err)
	}

	return channel, nil
}

func (r *Repository) DeleteChannel(ctx context.Context, name string, recursePosts bool) error {
	res, err := r.channels.DeleteOne(ctx, bson.M{"name": name})
	if err != nil {
		return fmt.Errorf("failed to delete channel: %w", err)
	}

	if res.DeletedCount == 0 {
		return connect.NewError(connect.CodeNotFound, fmt.Errorf("channel not found"))
	}

	if recursePosts {
		_, err := r.posts.DeleteMany(ctx, bson.M{
			"channel": name,
		})
		if err != nil {
			return fmt.Errorf("failed to delete posts: %w", err)
		}
	}

	return nil
}

func (r *Repository) ListChannels(ctx context.Context) ([]models.Channel, error) {
	res, err := r.channels.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find channels: %w", err)
	}

	var result []models.Channel
	if err := res.All(ctx, &result); err != nil {
		return result, fmt.Errorf("failed to decode channels: %w", err)
	}

	return result, nil
}

// ChannelMentions returns a map from channel name to display name as used
// when rendering ~channel links.
func (r *Repository) ChannelMentions(ctx context.Context) (map[string]string, error) {
	channels, err := r.ListChannels(ctx)
	if err != nil {
		return nil, err
	}

	m := make(map[string]string, len(channels))
	for _, c := range channels {
		m[c.Name] = c.DisplayName
	}

	return m, nil
}
