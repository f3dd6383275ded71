package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Source produces card templates at startup.
type Source interface {
	Load(ctx context.Context) ([]Card, error)
	Name() string
}

func Load(ctx context.Context, src Source, rng *rand.Rand) (*Catalog, error) {
	start := time.Now()
	cards, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog from %s: %w", src.Name(), err)
	}
	c, err := New(cards, rng)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog from %s: %w", src.Name(), err)
	}
	slog.Info("Card catalog loaded",
		slog.String("type", "sys"),
		slog.String("source", src.Name()),
		slog.Int("cards", c.Len()),
		slog.Duration("took", time.Since(start)),
	)
	return c, nil
}

func decodeJSON(r io.Reader) ([]Card, error) {
	var cards []Card
	if err := json.NewDecoder(r).Decode(&cards); err != nil {
		return nil, fmt.Errorf("failed to decode cards: %w", err)
	}
	return cards, nil
}

type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Load(_ context.Context) ([]Card, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeJSON(f)
}

// ObjectGetter fetches a single object from a bucket.
type ObjectGetter interface {
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
}

// ObjectSource reads the catalog JSON from object storage.
type ObjectSource struct {
	Store ObjectGetter
	Key   string
}

func (s ObjectSource) Name() string { return "object:" + s.Key }

func (s ObjectSource) Load(ctx context.Context) ([]Card, error) {
	body, err := s.Store.GetObject(ctx, s.Key)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return decodeJSON(body)
}

// MongoSource reads one document per card from a MongoDB collection.
type MongoSource struct {
	Client     *mongo.Client
	Database   string
	Collection string
}

func (s MongoSource) Name() string { return "mongo:" + s.Database + "." + s.Collection }

func (s MongoSource) Load(ctx context.Context) ([]Card, error) {
	col := s.Client.Database(s.Database).Collection(s.Collection)
	cur, err := col.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var cards []Card
	for cur.Next(ctx) {
		var card Card
		if err := cur.Decode(&card); err != nil {
			slog.Warn("Skipping undecodable card document",
				slog.String("type", "sys"),
				slog.Any("error", err),
			)
			continue
		}
		cards = append(cards, card)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}
