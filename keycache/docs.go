// Package keycache provides the cache-key hash and the time-bounded cache
// wrapper used around external text/image generation calls.
//
// The hash is a plain 32-bit rolling hash intended for cache-key shortening
// only. It is not a cryptographic hash and collisions are acceptable.
package keycache //import "go.openbid.build/keycache"
