// Package mongo connects to MongoDB with the official v2 driver and provides
// a session.Store backed by a collection.
//
//	client, err := mongo.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Disconnect(ctx)
//
//	store := mongo.NewSessionStore(client.Database(cfg.Database).Collection(cfg.Collection))
//	if err := store.EnsureIndexes(ctx); err != nil {
//	    return err
//	}
//
// Each session is one document keyed by its identifier. A TTL index on
// expires_at lets the server drop expired sessions; reads also ignore them,
// since the TTL monitor runs only about once a minute.
package mongo
