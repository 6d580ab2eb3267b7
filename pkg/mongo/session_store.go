package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// sessionDocument is the stored shape of a session. The record is kept as
// its JSON encoding so every store shares one format.
type sessionDocument struct {
	ID        string     `bson:"_id"`
	Record    string     `bson:"record"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
	UpdatedAt time.Time  `bson:"updated_at"`
}

// SessionStore implements session.Store on a MongoDB collection.
// EnsureIndexes installs a TTL index on expires_at so the server purges
// expired documents; until then reads filter them out.
type SessionStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

var _ session.Store = (*SessionStore)(nil)

func NewSessionStore(coll *mongo.Collection) *SessionStore {
	return &SessionStore{coll: coll, now: time.Now}
}

// EnsureIndexes creates the TTL index on expires_at. It is idempotent.
func (s *SessionStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetName("expires_at_ttl").SetExpireAfterSeconds(0),
	})
	if err != nil {
		return errors.Join(ErrIndexCreation, err)
	}
	return nil
}

// Get loads a session. Missing and expired documents map to session.ErrNotFound.
func (s *SessionStore) Get(ctx context.Context, id string) (session.Record, error) {
	var doc sessionDocument
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return session.Record{}, session.ErrNotFound
	}
	if err != nil {
		return session.Record{}, err
	}

	if doc.ExpiresAt != nil && !doc.ExpiresAt.After(s.now()) {
		return session.Record{}, session.ErrNotFound
	}
	return session.UnmarshalRecord([]byte(doc.Record))
}

// Set replaces or inserts a session document.
func (s *SessionStore) Set(ctx context.Context, id string, rec session.Record) error {
	payload, err := session.MarshalRecord(rec)
	if err != nil {
		return err
	}

	doc := sessionDocument{
		ID:        id,
		Record:    string(payload),
		UpdatedAt: s.now().UTC(),
	}
	if exp, ok := rec.ExpiresAt(); ok {
		exp = exp.UTC()
		doc.ExpiresAt = &exp
	}

	_, err = s.coll.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

// Destroy deletes a session document.
func (s *SessionStore) Destroy(ctx context.Context, id string) error {
	_, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	return err
}

// All returns every live session.
func (s *SessionStore) All(ctx context.Context) (map[string]session.Record, error) {
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "expires_at", Value: bson.D{{Key: "$exists", Value: false}}}},
		bson.D{{Key: "expires_at", Value: bson.D{{Key: "$gt", Value: s.now().UTC()}}}},
	}}}

	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	all := make(map[string]session.Record)
	for cursor.Next(ctx) {
		var doc sessionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		rec, err := session.UnmarshalRecord([]byte(doc.Record))
		if err != nil {
			return nil, err
		}
		all[doc.ID] = rec
	}
	return all, cursor.Err()
}
