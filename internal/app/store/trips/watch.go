// internal/app/store/trips/watch.go
package tripstore

import (
	"context"

	"github.com/automaatje/automaatje/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Change is one write to the trips collection seen on the change stream.
// Trip is nil for deletes and for updates whose document is already gone.
type Change struct {
	TripID  primitive.ObjectID
	Op      string
	Trip    *models.Trip
	Deleted bool
}

type changeEvent struct {
	OperationType string `bson:"operationType"`
	DocumentKey   struct {
		ID primitive.ObjectID `bson:"_id"`
	} `bson:"documentKey"`
	FullDocument *models.Trip `bson:"fullDocument"`
}

// Watch follows the trips change stream until ctx ends or the stream fails,
// calling onChange for every insert, update, replace and delete. resumeAfter
// continues from a token returned by an earlier call; nil starts at now.
// It returns the last resume token seen so a caller can reconnect without
// missing events.
//
// Change streams need a replica set or sharded cluster.
func (s *Store) Watch(ctx context.Context, resumeAfter bson.Raw, onChange func(Change)) (bson.Raw, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"operationType": bson.M{"$in": bson.A{"insert", "update", "replace", "delete"}},
		}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	if len(resumeAfter) > 0 {
		opts.SetResumeAfter(resumeAfter)
	}

	cs, err := s.c.Watch(ctx, pipeline, opts)
	if err != nil {
		return resumeAfter, err
	}
	defer cs.Close(context.Background())

	token := resumeAfter
	for cs.Next(ctx) {
		var ev changeEvent
		if err := cs.Decode(&ev); err != nil {
			return token, err
		}
		token = append(bson.Raw(nil), cs.ResumeToken()...)
		onChange(Change{
			TripID:  ev.DocumentKey.ID,
			Op:      ev.OperationType,
			Trip:    ev.FullDocument,
			Deleted: ev.OperationType == "delete",
		})
	}
	if err := cs.Err(); err != nil && ctx.Err() == nil {
		return token, err
	}
	return token, ctx.Err()
}
