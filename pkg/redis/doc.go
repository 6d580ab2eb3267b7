// Package redis connects to Redis and provides a session.Store backed by it.
//
// Connect retries the initial ping according to Config, Healthcheck returns
// a probe for readiness endpoints and SessionStore persists session records
// as JSON strings whose TTL follows the session cookie expiry.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	manager := session.New(
//	    session.WithSecret(secret),
//	    session.WithStore(redis.NewSessionStoreWithConfig(client, cfg)),
//	)
//
// Records are stored under "session:<id>" unless Config.KeyPrefix says otherwise.
package redis
