package session

import (
	"encoding/json"
	"errors"

	"github.com/dmitrymomot/awesome/pkg/cache"
)

// Principal is the signed-in identity attached to a request.
type Principal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
	Admin bool   `json:"admin"`

	// Secret is a per-user value mixed into the token digest, usually the
	// stored password hash. Changing it invalidates every issued token.
	Secret string `json:"-"`
}

// cachedPrincipal keeps Secret when a Principal goes through a byte cache.
type cachedPrincipal struct {
	Principal
	Secret string `json:"secret"`
}

type principalMarshaler struct{}

// CacheMarshaler returns a Marshaler that preserves Secret, for use with
// cache.NewRedis.
func CacheMarshaler() cache.Marshaler[Principal] {
	return principalMarshaler{}
}

func (principalMarshaler) Marshal(p Principal) ([]byte, error) {
	data, err := json.Marshal(cachedPrincipal{Principal: p, Secret: p.Secret})
	if err != nil {
		return nil, errors.Join(cache.ErrMarshal, err)
	}
	return data, nil
}

func (principalMarshaler) Unmarshal(data []byte) (Principal, error) {
	var cp cachedPrincipal
	if err := json.Unmarshal(data, &cp); err != nil {
		return Principal{}, errors.Join(cache.ErrUnmarshal, err)
	}
	p := cp.Principal
	p.Secret = cp.Secret
	return p, nil
}
