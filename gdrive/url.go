package gdrive

import (
	"regexp"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const drivePrefix = "https://drive.google.com/"

// fileIDPattern matches a Drive file id embedded anywhere in a URL.
var fileIDPattern = regexp.MustCompile(`[-\w]{25,}`)

// IsDriveLink reports whether the URL points into Google Drive.
func IsDriveLink(url string) bool {
	return strings.HasPrefix(url, drivePrefix)
}

// FolderURL returns the canonical Drive URL of a folder id.
func FolderURL(id string) string {
	return drivePrefix + "drive/folders/" + id
}

// FileIDFromURL extracts the Drive file id embedded in the URL. An empty or
// unextractable URL returns an InvalidArgument error.
func FileIDFromURL(url string) (string, error) {
	if url == "" {
		return "", status.Error(codes.InvalidArgument, "empty file link")
	}
	id := fileIDPattern.FindString(url)
	if id == "" {
		return "", status.Errorf(codes.InvalidArgument, "no file id found in link %q", url)
	}
	return id, nil
}
