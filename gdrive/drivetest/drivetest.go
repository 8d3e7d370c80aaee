// Package drivetest provides an in-memory gdrive.Store for tests.
package drivetest

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.openbid.build/gdrive"
)

// Share records a single permission grant.
type Share struct {
	Email string
	Role  string // "reader" or "writer"
}

type node struct {
	id       string
	name     string
	parentID string
	folder   bool
	trashed  bool
	data     []byte
	mimeType string
}

// FakeStore is an in-memory implementation of gdrive.Store.
type FakeStore struct {
	mu     sync.Mutex
	nextID int
	nodes  map[string]*node
	shares map[string][]Share

	// CreatedFolders counts CreateFolder calls, useful for idempotence checks.
	CreatedFolders int
	// CopiedFiles counts CopyFile calls.
	CopiedFiles int
}

// NewFakeStore returns an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		nodes:  map[string]*node{},
		shares: map[string][]Share{},
	}
}

// newID mints ids long enough to satisfy the Drive-link id extraction used
// across the codebase.
func (s *FakeStore) newID() string {
	s.nextID++
	return fmt.Sprintf("1fake%029d", s.nextID)
}

// FileURL returns the canonical fake URL for a file id.
func FileURL(id string) string {
	return "https://docs.google.com/spreadsheets/d/" + id
}

// AddFile seeds a file into the store, returning its reference.
func (s *FakeStore) AddFile(folderID, name string) *gdrive.File {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.newID()
	s.nodes[id] = &node{id: id, name: name, parentID: folderID}
	return &gdrive.File{ID: id, Name: name, URL: FileURL(id)}
}

// RemoveFolder deletes a folder outright, simulating an out-of-band deletion.
func (s *FakeStore) RemoveFolder(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nodes, id)
}

// SharesFor returns the grants recorded against the file or folder.
func (s *FakeStore) SharesFor(id string) []Share {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Share(nil), s.shares[id]...)
}

// FileData returns the content uploaded for the file id.
func (s *FakeStore) FileData(id string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.nodes[id]; ok {
		return n.data
	}
	return nil
}

// ParentOf returns the parent folder id of the node.
func (s *FakeStore) ParentOf(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.nodes[id]; ok {
		return n.parentID
	}
	return ""
}

// Trashed reports whether the node has been moved to the trash.
func (s *FakeStore) Trashed(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.nodes[id]; ok {
		return n.trashed
	}
	return false
}

func (s *FakeStore) FindFolders(ctx context.Context, parentID, name string) ([]*gdrive.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*gdrive.Folder
	for _, n := range s.nodes {
		if n.folder && !n.trashed && n.parentID == parentID && n.name == name {
			out = append(out, &gdrive.Folder{ID: n.id, Name: n.name})
		}
	}
	return out, nil
}

func (s *FakeStore) CreateFolder(ctx context.Context, parentID, name string) (*gdrive.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CreatedFolders++
	id := s.newID()
	s.nodes[id] = &node{id: id, name: name, parentID: parentID, folder: true}
	return &gdrive.Folder{ID: id, Name: name}, nil
}

func (s *FakeStore) GetFolder(ctx context.Context, id string) (*gdrive.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[id]
	if !ok || !n.folder || n.trashed {
		return nil, status.Errorf(codes.NotFound, "folder %s not found", id)
	}
	return &gdrive.Folder{ID: n.id, Name: n.name}, nil
}

func (s *FakeStore) FilesByName(ctx context.Context, folderID, name string) ([]*gdrive.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*gdrive.File
	for _, n := range s.nodes {
		if !n.folder && !n.trashed && n.parentID == folderID && n.name == name {
			out = append(out, &gdrive.File{ID: n.id, Name: n.name, URL: FileURL(n.id)})
		}
	}
	return out, nil
}

func (s *FakeStore) CopyFile(ctx context.Context, fileID, title, folderID string) (*gdrive.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src, ok := s.nodes[fileID]
	if !ok {
		return nil, status.Errorf(codes.NotFound, "file %s not found", fileID)
	}
	s.CopiedFiles++
	id := s.newID()
	parent := folderID
	if parent == "" {
		parent = src.parentID
	}
	s.nodes[id] = &node{id: id, name: title, parentID: parent, data: src.data, mimeType: src.mimeType}
	return &gdrive.File{ID: id, Name: title, URL: FileURL(id)}, nil
}

func (s *FakeStore) MoveFile(ctx context.Context, fileID, folderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[fileID]
	if !ok {
		return status.Errorf(codes.NotFound, "file %s not found", fileID)
	}
	n.parentID = folderID
	return nil
}

func (s *FakeStore) CreateFile(ctx context.Context, name, mimeType string, data []byte, folderID string) (*gdrive.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.newID()
	s.nodes[id] = &node{id: id, name: name, parentID: folderID, data: data, mimeType: mimeType}
	return &gdrive.File{ID: id, Name: name, URL: FileURL(id)}, nil
}

func (s *FakeStore) ShareViewer(ctx context.Context, fileID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shares[fileID] = append(s.shares[fileID], Share{Email: email, Role: "reader"})
	return nil
}

func (s *FakeStore) ShareEditor(ctx context.Context, fileID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shares[fileID] = append(s.shares[fileID], Share{Email: email, Role: "writer"})
	return nil
}

func (s *FakeStore) Trash(ctx context.Context, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[fileID]
	if !ok {
		return status.Errorf(codes.NotFound, "file %s not found", fileID)
	}
	n.trashed = true
	return nil
}

var _ gdrive.Store = (*FakeStore)(nil)
