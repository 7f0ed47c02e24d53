// Package gridfs stores property photos in MongoDB GridFS.
package gridfs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/imamik/rentwise/internal/creator"
)

// ErrNotFound is returned when no photo is stored under a key.
var ErrNotFound = creator.ErrPhotoNotFound

// PhotoStore keeps photos as GridFS files named by their key.
type PhotoStore struct {
	client  *mongo.Client
	bucket  *gridfs.Bucket
	baseURL string
}

// Connect dials MongoDB and opens the "photos" GridFS bucket in database.
// baseURL is the HTTP prefix photos are served from.
func Connect(ctx context.Context, uri, database, baseURL string) (*PhotoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	store, err := New(client.Database(database), baseURL)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	store.client = client
	return store, nil
}

// New opens the photo bucket on an existing database handle.
func New(db *mongo.Database, baseURL string) (*PhotoStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("photos"))
	if err != nil {
		return nil, fmt.Errorf("failed to open gridfs bucket: %w", err)
	}
	return &PhotoStore{bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Backend names the store for metrics and logs.
func (p *PhotoStore) Backend() string { return "gridfs" }

// Put stores data under key and returns the URL it is served from.
func (p *PhotoStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "contentType", Value: contentType}})
	stream, err := p.bucket.OpenUploadStream(key, opts)
	if err != nil {
		return "", fmt.Errorf("failed to open upload stream for %s: %w", key, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = stream.SetWriteDeadline(deadline)
	}

	if _, err := io.Copy(stream, bytes.NewReader(data)); err != nil {
		_ = stream.Abort()
		return "", fmt.Errorf("failed to write photo %s: %w", key, err)
	}
	if err := stream.Close(); err != nil {
		return "", fmt.Errorf("failed to finish photo %s: %w", key, err)
	}
	return p.URL(key), nil
}

// Get returns the newest revision stored under key.
func (p *PhotoStore) Get(ctx context.Context, key string) ([]byte, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = p.bucket.SetReadDeadline(deadline)
	}
	stream, err := p.bucket.OpenDownloadStreamByName(key)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to open photo %s: %w", key, err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read photo %s: %w", key, err)
	}
	return data, nil
}

// Delete removes every revision stored under key.
func (p *PhotoStore) Delete(ctx context.Context, key string) error {
	if deadline, ok := ctx.Deadline(); ok {
		_ = p.bucket.SetReadDeadline(deadline)
		_ = p.bucket.SetWriteDeadline(deadline)
	}

	cursor, err := p.bucket.Find(bson.M{"filename": key})
	if err != nil {
		return fmt.Errorf("failed to find photo %s: %w", key, err)
	}
	defer cursor.Close(ctx)

	var files []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &files); err != nil {
		return fmt.Errorf("failed to decode photo ids: %w", err)
	}
	for _, f := range files {
		if err := p.bucket.Delete(f.ID); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
			return fmt.Errorf("failed to delete photo %s: %w", key, err)
		}
	}
	return nil
}

// URL returns the HTTP URL a photo is served from.
func (p *PhotoStore) URL(key string) string {
	return p.baseURL + "/photos/" + key
}

// Close disconnects the client opened by Connect.
func (p *PhotoStore) Close(ctx context.Context) error {
	if p.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.client.Disconnect(ctx)
}
