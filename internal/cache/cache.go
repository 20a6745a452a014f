// Package cache stores completed answers keyed by a digest of the request.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
	"time"

	"github.com/alexanderramin/ulpiano/internal/textnorm"
	"golang.org/x/text/unicode/norm"
)

// Cache is a string-to-string store safe for concurrent use.
type Cache interface {
	Get(key string) (string, bool)
	Put(key, value string)
	Len() int
	Purge()
}

// Record is one stored answer.
type Record struct {
	Key        string
	Value      string
	InsertedAt time.Time
}

// Policy names a cache implementation.
type Policy string

const (
	PolicyLRU  Policy = "lru"
	PolicyMap  Policy = "map"
	PolicyNone Policy = "none"
)

const (
	DefaultCapacity   = 50
	DefaultMaxEntries = 500
)

// Config selects and sizes a cache. TTL <= 0 disables expiry.
type Config struct {
	Policy     Policy        `yaml:"policy" validate:"omitempty,oneof=lru map none"`
	Capacity   int           `yaml:"capacity" validate:"gte=0"`
	MaxEntries int           `yaml:"max_entries" validate:"gte=0"`
	TTL        time.Duration `yaml:"ttl" validate:"gte=0"`
}

// New builds the cache described by cfg.
func New(cfg Config) (Cache, error) {
	switch Policy(strings.ToLower(string(cfg.Policy))) {
	case "", PolicyLRU:
		capacity := cfg.Capacity
		if capacity <= 0 {
			capacity = DefaultCapacity
		}
		return NewLRU(capacity, cfg.TTL), nil
	case PolicyMap:
		maxEntries := cfg.MaxEntries
		if maxEntries <= 0 {
			maxEntries = DefaultMaxEntries
		}
		return NewMap(maxEntries, cfg.TTL), nil
	case PolicyNone:
		return Nop{}, nil
	}
	return nil, fmt.Errorf("unknown cache policy %q", cfg.Policy)
}

// Key derives a cache key from request parts. Each part is normalized and
// length-prefixed before hashing, so ("ab", "c") and ("a", "bc") differ
// while "Posesión" and "posesion" collide.
func Key(parts ...string) string {
	var k keyHash
	for _, p := range parts {
		k.add(textnorm.Normalize(p))
	}
	return k.sum()
}

// TextKey is Key with a trailing free-text part, such as a case statement.
// The text is only case-folded and whitespace-collapsed, so "3.500" and
// "3 500" stay distinct.
func TextKey(text string, parts ...string) string {
	var k keyHash
	for _, p := range parts {
		k.add(textnorm.Normalize(p))
	}
	k.add(strings.Join(strings.Fields(strings.ToLower(norm.NFC.String(text))), " "))
	return k.sum()
}

type keyHash struct {
	h hash.Hash
}

func (k *keyHash) add(part string) {
	if k.h == nil {
		k.h = sha256.New()
	}
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(part)))
	k.h.Write(n[:])
	k.h.Write([]byte(part))
}

func (k *keyHash) sum() string {
	if k.h == nil {
		k.h = sha256.New()
	}
	return hex.EncodeToString(k.h.Sum(nil))
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(string) (string, bool) { return "", false }
func (Nop) Put(string, string)        {}
func (Nop) Len() int                  { return 0 }
func (Nop) Purge()                    {}
