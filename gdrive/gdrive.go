package gdrive

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const folderMimeType = "application/vnd.google-apps.folder"

// Folder is a Drive folder reference.
type Folder struct {
	ID   string
	Name string
}

// File is a Drive file reference.
type File struct {
	ID   string
	Name string
	URL  string
}

// Store is the file/folder surface consumed by the toolkit components.
// *Client implements it against the Drive API; tests implement it in memory.
type Store interface {
	// FindFolders lists non-trashed folders with the exact name under the
	// parent. An empty parentID means the drive root.
	FindFolders(ctx context.Context, parentID, name string) ([]*Folder, error)
	// CreateFolder creates a folder under the parent. An empty parentID
	// means the drive root.
	CreateFolder(ctx context.Context, parentID, name string) (*Folder, error)
	// GetFolder resolves a folder by id. A deleted or unknown id returns a
	// NotFound error.
	GetFolder(ctx context.Context, id string) (*Folder, error)
	// FilesByName lists non-trashed, non-folder files with the exact name
	// inside the folder.
	FilesByName(ctx context.Context, folderID, name string) ([]*File, error)
	// CopyFile copies the file into the folder under the given title. An
	// empty folderID keeps the copy next to the source.
	CopyFile(ctx context.Context, fileID, title, folderID string) (*File, error)
	// MoveFile reparents the file into the folder.
	MoveFile(ctx context.Context, fileID, folderID string) error
	// CreateFile uploads data as a new file inside the folder.
	CreateFile(ctx context.Context, name, mimeType string, data []byte, folderID string) (*File, error)
	// ShareViewer grants the email read-only access to the file or folder.
	ShareViewer(ctx context.Context, fileID, email string) error
	// ShareEditor grants the email write access to the file or folder.
	ShareEditor(ctx context.Context, fileID, email string) error
	// Trash moves the file to the trash.
	Trash(ctx context.Context, fileID string) error
}

// Client manages access to Drive files and folders.
type Client struct {
	svc        *drive.Service
	httpClient *http.Client
}

// ClientOptions used when creating a new drive Client.
type ClientOptions struct {
	clientOptions []option.ClientOption
	httpClient    *http.Client
}

// ClientOption is a functional option for the NewClient method.
type ClientOption func(*ClientOptions)

// WithClientOptions passes additional Google API client options.
func WithClientOptions(opts ...option.ClientOption) ClientOption {
	return func(o *ClientOptions) {
		o.clientOptions = append(o.clientOptions, opts...)
	}
}

// WithHTTPClient overrides the HTTP client used for the authenticated export
// fetches. The client must inject credentials with Drive scope.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(o *ClientOptions) {
		o.httpClient = c
	}
}

// NewClient creates a new instance of the Client object using application
// default credentials unless overridden via options.
func NewClient(ctx context.Context, opts ...ClientOption) (*Client, error) {
	options := &ClientOptions{}
	for _, opt := range opts {
		opt(options)
	}
	svc, err := drive.NewService(ctx, options.clientOptions...)
	if err != nil {
		return nil, err
	}
	httpClient := options.httpClient
	if httpClient == nil {
		httpClient, err = exportHTTPClient(ctx)
		if err != nil {
			return nil, err
		}
	}
	return &Client{svc: svc, httpClient: httpClient}, nil
}

func (c *Client) FindFolders(ctx context.Context, parentID, name string) ([]*Folder, error) {
	if parentID == "" {
		parentID = "root"
	}
	q := fmt.Sprintf("mimeType='%s' and trashed=false and '%s' in parents and name=%s",
		folderMimeType, parentID, quoteQueryString(name))
	list, err := c.svc.Files.List().Q(q).Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	folders := make([]*Folder, 0, len(list.Files))
	for _, f := range list.Files {
		folders = append(folders, &Folder{ID: f.Id, Name: f.Name})
	}
	return folders, nil
}

func (c *Client) CreateFolder(ctx context.Context, parentID, name string) (*Folder, error) {
	if parentID == "" {
		parentID = "root"
	}
	f, err := c.svc.Files.Create(&drive.File{
		Name:     name,
		MimeType: folderMimeType,
		Parents:  []string{parentID},
	}).Fields("id, name").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return &Folder{ID: f.Id, Name: f.Name}, nil
}

func (c *Client) GetFolder(ctx context.Context, id string) (*Folder, error) {
	f, err := c.svc.Files.Get(id).Fields("id, name, trashed").Context(ctx).Do()
	if err != nil {
		if apiErr, ok := err.(*googleapi.Error); ok && apiErr.Code == http.StatusNotFound {
			return nil, status.Errorf(codes.NotFound, "folder %s not found", id)
		}
		return nil, err
	}
	if f.Trashed {
		return nil, status.Errorf(codes.NotFound, "folder %s is trashed", id)
	}
	return &Folder{ID: f.Id, Name: f.Name}, nil
}

func (c *Client) FilesByName(ctx context.Context, folderID, name string) ([]*File, error) {
	q := fmt.Sprintf("mimeType!='%s' and trashed=false and '%s' in parents and name=%s",
		folderMimeType, folderID, quoteQueryString(name))
	list, err := c.svc.Files.List().Q(q).Fields("files(id, name, webViewLink)").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	files := make([]*File, 0, len(list.Files))
	for _, f := range list.Files {
		files = append(files, &File{ID: f.Id, Name: f.Name, URL: f.WebViewLink})
	}
	return files, nil
}

func (c *Client) CopyFile(ctx context.Context, fileID, title, folderID string) (*File, error) {
	meta := &drive.File{Name: title}
	if folderID != "" {
		meta.Parents = []string{folderID}
	}
	f, err := c.svc.Files.Copy(fileID, meta).Fields("id, name, webViewLink").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return &File{ID: f.Id, Name: f.Name, URL: f.WebViewLink}, nil
}

func (c *Client) MoveFile(ctx context.Context, fileID, folderID string) error {
	f, err := c.svc.Files.Get(fileID).Fields("parents").Context(ctx).Do()
	if err != nil {
		return err
	}
	call := c.svc.Files.Update(fileID, nil).AddParents(folderID)
	for _, parent := range f.Parents {
		call = call.RemoveParents(parent)
	}
	_, err = call.Context(ctx).Do()
	return err
}

func (c *Client) CreateFile(ctx context.Context, name, mimeType string, data []byte, folderID string) (*File, error) {
	f, err := c.svc.Files.Create(&drive.File{
		Name:     name,
		MimeType: mimeType,
		Parents:  []string{folderID},
	}).Media(bytes.NewReader(data)).Fields("id, name, webViewLink").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return &File{ID: f.Id, Name: f.Name, URL: f.WebViewLink}, nil
}

func (c *Client) ShareViewer(ctx context.Context, fileID, email string) error {
	return c.share(ctx, fileID, email, "reader")
}

func (c *Client) ShareEditor(ctx context.Context, fileID, email string) error {
	return c.share(ctx, fileID, email, "writer")
}

func (c *Client) share(ctx context.Context, fileID, email, role string) error {
	_, err := c.svc.Permissions.Create(fileID, &drive.Permission{
		Type:         "user",
		Role:         role,
		EmailAddress: email,
	}).SendNotificationEmail(false).Context(ctx).Do()
	return err
}

func (c *Client) Trash(ctx context.Context, fileID string) error {
	_, err := c.svc.Files.Update(fileID, &drive.File{Trashed: true}).Context(ctx).Do()
	return err
}

// quoteQueryString escapes a value for use inside a Drive query expression.
func quoteQueryString(s string) string {
	escaped := ""
	for _, r := range s {
		if r == '\'' || r == '\\' {
			escaped += `\`
		}
		escaped += string(r)
	}
	return "'" + escaped + "'"
}
