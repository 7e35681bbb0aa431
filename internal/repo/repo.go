package repo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	ChannelCollection = "channels"
	PostCollection    = "posts"

	// DefaultDatabase is used if the connection string does not name a
	// database.
	DefaultDatabase = "markdown-service:v1"
)

const connectTimeout = 10 * time.Second

type Repository struct {
	cli      *mongo.Client
	channels *mongo.Collection
	posts    *mongo.Collection
}

// collectionIndexes lists the indexes created for each collection on
// startup.
var collectionIndexes = []struct {
	collection string
	indexes    []mongo.IndexModel
}{
	{
		collection: ChannelCollection,
		indexes: []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	},
	{
		collection: PostCollection,
		indexes: []mongo.IndexModel{
			// ListPosts
			{Keys: bson.D{{Key: "channel", Value: 1}, {Key: "createdAt", Value: 1}}},
			// replies and thread lookups
			{Keys: bson.D{{Key: "parentId", Value: 1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}}},
		},
	},
}

// databaseName returns the database named in the connection string or
// DefaultDatabase.
func databaseName(databaseURL string) (string, error) {
	cs, err := connstring.ParseAndValidate(databaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid database connection string: %w", err)
	}

	if cs.Database == "" {
		return DefaultDatabase, nil
	}

	return cs.Database, nil
}

func NewRepository(ctx context.Context, databaseURL string) (*Repository, error) {
	dbName, err := databaseName(databaseURL)
	if err != nil {
		return nil, err
	}

	clientOpts := options.Client().
		ApplyURI(databaseURL).
		SetAppName("markdown-service").
		SetConnectTimeout(connectTimeout)

	cli, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := cli.Ping(ctx, nil); err != nil {
		_ = cli.Disconnect(ctx)

		return nil, fmt.Errorf("failed to ping mongodb at database %q: %w", dbName, err)
	}

	db := cli.Database(dbName)

	r := &Repository{
		cli:      cli,
		channels: db.Collection(ChannelCollection),
		posts:    db.Collection(PostCollection),
	}

	if err := r.prepare(ctx, db); err != nil {
		return r, fmt.Errorf("failed to prepare collections: %w", err)
	}

	return r, nil
}

func (repo *Repository) prepare(ctx context.Context, db *mongo.Database) error {
	for _, c := range collectionIndexes {
		if _, err := db.Collection(c.collection).Indexes().CreateMany(ctx, c.indexes); err != nil {
			return fmt.Errorf("%s: failed to create indexes: %w", c.collection, err)
		}
	}

	return nil
}

func (repo *Repository) Close(ctx context.Context) error {
	return repo.cli.Disconnect(ctx)
}
