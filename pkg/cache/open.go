package cache

import (
	"context"
	"strings"

	cderrors "github.com/matzehuels/cdspice/pkg/errors"
)

// Open returns the cache backend named by rawURL. Supported schemes are
// redis, rediss, mongodb, mongodb+srv and file. An empty URL returns a
// [NullCache]. File URLs may be absolute (file:///var/cache/cdspice) or
// relative (file://cache).
func Open(ctx context.Context, rawURL string) (Cache, error) {
	if err := cderrors.ValidateCacheURL(rawURL); err != nil {
		return nil, err
	}
	if rawURL == "" {
		return NewNullCache(), nil
	}

	var (
		c   Cache
		err error
	)
	scheme, _, _ := strings.Cut(rawURL, "://")
	switch scheme {
	case "redis", "rediss":
		c, err = NewRedisCache(ctx, rawURL)
	case "mongodb", "mongodb+srv":
		c, err = NewMongoCache(ctx, rawURL)
	default:
		c, err = NewFileCache(strings.TrimPrefix(rawURL, "file://"))
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
