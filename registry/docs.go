// Package registry is the folder registry: idempotent find-or-create of the
// toolkit's folder hierarchy (root folder, project folders, subfolders) with
// the root folder id cached in the per-document properties store.
//
// A cached root id that no longer resolves (the folder was deleted) is
// transparently recreated and the cache overwritten.
package registry //import "go.openbid.build/registry"
