package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect dials MongoDB and pings the primary. The caller owns Disconnect.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is empty")
	}
	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("docstore.Connect: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := cli.Ping(pctx, nil); err != nil {
		if derr := cli.Disconnect(ctx); derr != nil {
			slog.Warn("Disconnecting mongo after failed ping", "err", derr)
		}
		return nil, fmt.Errorf("docstore.Connect: ping: %w", err)
	}
	slog.Info("Connected to MongoDB")
	return cli, nil
}

func Disconnect(cli *mongo.Client) {
	if cli == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cli.Disconnect(ctx); err != nil {
		slog.Warn("Disconnecting mongo", "err", err)
		return
	}
	slog.Info("MongoDB connection closed")
}
