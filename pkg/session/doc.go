// Package session issues and verifies the signed session cookie that
// identifies a signed-in user.
//
// A token is "<id>-<expiry>-<digest>", where the digest is the SHA1 hex of
// "<id>-<secret>-<expiry>-<key>". The per-user secret ties the token to the
// user's current credentials and the key ties it to the deployment.
//
//	codec := session.NewCodec(cfg.Session.Secret, lookupUser,
//		session.WithCache(cache.NewMemory[session.Principal](), time.Minute),
//	)
//
//	token := codec.Encode(&principal)
//	p, err := codec.Decode(ctx, token)
//	switch {
//	case errors.Is(err, session.ErrExpired):
//	case errors.Is(err, session.ErrDigestMismatch):
//	}
package session
