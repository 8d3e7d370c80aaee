package registry

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.openbid.build/gdrive"
	"go.openbid.build/props"
)

// RootFolderSuffix is appended to the master spreadsheet name to form the
// root folder name.
const RootFolderSuffix = "OpenBID Toolkit Files"

// Registry finds or creates the toolkit folder hierarchy for one master
// spreadsheet.
type Registry struct {
	store    gdrive.Store
	props    props.Store
	docID    string
	rootName string
}

// New returns a Registry for the master spreadsheet identified by docID.
// rootName is the full name of the root folder, typically
// "<spreadsheet name> OpenBID Toolkit Files".
func New(store gdrive.Store, propStore props.Store, docID, rootName string) *Registry {
	return &Registry{
		store:    store,
		props:    propStore,
		docID:    docID,
		rootName: rootName,
	}
}

// FindOrCreate returns the folder with the exact name under parent, creating
// it when absent. A nil parent means the drive root. When duplicates exist
// the first match wins; no tie-break is applied.
func (r *Registry) FindOrCreate(ctx context.Context, parent *gdrive.Folder, name string) (*gdrive.Folder, error) {
	parentID := ""
	if parent != nil {
		parentID = parent.ID
	}
	folders, err := r.store.FindFolders(ctx, parentID, name)
	if err != nil {
		return nil, err
	}
	if len(folders) > 0 {
		return folders[0], nil
	}
	return r.store.CreateFolder(ctx, parentID, name)
}

// Root returns the toolkit root folder, using the cached folder id when it
// still resolves. A stale cached id (the folder was deleted) is healed by
// recreating the folder and overwriting the cache.
func (r *Registry) Root(ctx context.Context) (*gdrive.Folder, error) {
	id, err := r.props.Get(ctx, r.docID, props.KeyRootFolderID)
	if err != nil && status.Code(err) != codes.NotFound {
		return nil, err
	}
	if id != "" {
		folder, err := r.store.GetFolder(ctx, id)
		if err == nil {
			return folder, nil
		}
		if status.Code(err) != codes.NotFound {
			return nil, err
		}
		// Fall through: the cached folder is gone, recreate below.
	}
	folder, err := r.FindOrCreate(ctx, nil, r.rootName)
	if err != nil {
		return nil, err
	}
	if err := r.props.Set(ctx, r.docID, props.KeyRootFolderID, folder.ID); err != nil {
		return nil, err
	}
	return folder, nil
}

// ProjectFolder returns the folder for the named project under the root.
func (r *Registry) ProjectFolder(ctx context.Context, projectName string) (*gdrive.Folder, error) {
	root, err := r.Root(ctx)
	if err != nil {
		return nil, err
	}
	return r.FindOrCreate(ctx, root, projectName)
}

// Subfolder returns the named subfolder of the project folder.
func (r *Registry) Subfolder(ctx context.Context, projectName, name string) (*gdrive.Folder, error) {
	project, err := r.ProjectFolder(ctx, projectName)
	if err != nil {
		return nil, err
	}
	return r.FindOrCreate(ctx, project, name)
}
