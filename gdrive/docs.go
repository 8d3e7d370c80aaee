// Package gdrive wraps the Google Drive API (drive/v3) with the file and
// folder operations the toolkit needs: exact-name lookups, folder creation,
// template copies, moves, viewer/editor grants, and the authenticated
// PDF/CSV export fetch.
//
// The Store interface is the surface consumed by the rest of the toolkit;
// *Client is the Drive-backed implementation.
package gdrive //import "go.openbid.build/gdrive"
