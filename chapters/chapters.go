package chapters

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.openbid.build/gsheets"
)

// ShotIDsRangeName names the column of shot identifiers chapter links are
// matched against.
const ShotIDsRangeName = "shotIDs"

// LinkColumn receives the chapter hyperlink of a matched shot row.
const LinkColumn int64 = 5

var (
	videoIDPattern = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*).*`)
	chapterLine    = regexp.MustCompile(`^((?:\d+:)?\d+:\d+)\s+(.+)$`)
)

// Chapter is one timestamped marker from a video description.
type Chapter struct {
	Name     string
	Seconds  int64
	VideoURL string
}

// LinkURL returns the video URL seeking to the chapter start.
func (c Chapter) LinkURL() string {
	return fmt.Sprintf("%s?t=%d", c.VideoURL, c.Seconds)
}

// VideoIDFromURL extracts the 11-character video id from a YouTube URL.
func VideoIDFromURL(url string) (string, error) {
	m := videoIDPattern.FindStringSubmatch(url)
	if m == nil || len(m[2]) != 11 {
		return "", status.Errorf(codes.InvalidArgument, "%q is not a valid YouTube video URL", url)
	}
	return m[2], nil
}

// TimeStringToSeconds converts a "(h:)mm:ss" timestamp to seconds.
func TimeStringToSeconds(ts string) (int64, error) {
	var seconds int64
	for _, part := range strings.Split(ts, ":") {
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return 0, status.Errorf(codes.InvalidArgument, "invalid timestamp %q", ts)
		}
		seconds = seconds*60 + n
	}
	return seconds, nil
}

// Parse extracts the chapter markers from a video description. Lines without
// a leading timestamp are ignored; a leading "- " is stripped from names.
func Parse(description, videoID string) []Chapter {
	var out []Chapter
	for _, line := range strings.Split(description, "\n") {
		m := chapterLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[2])
		name = strings.TrimPrefix(name, "- ")
		seconds, err := TimeStringToSeconds(m[1])
		if err != nil {
			continue
		}
		out = append(out, Chapter{
			Name:     name,
			Seconds:  seconds,
			VideoURL: "https://youtu.be/" + videoID,
		})
	}
	return out
}

// Client fetches video metadata from the YouTube Data API.
type Client struct {
	svc *youtube.Service
}

// NewClient returns a YouTube metadata client.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc}, nil
}

// Description returns the description of the video, or a NotFound error when
// the video does not exist or is not accessible.
func (c *Client) Description(ctx context.Context, videoID string) (string, error) {
	resp, err := c.svc.Videos.List([]string{"snippet"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if len(resp.Items) == 0 {
		return "", status.Errorf(codes.NotFound, "video %s not found or not accessible", videoID)
	}
	return resp.Items[0].Snippet.Description, nil
}

// Sheet is the workbook surface chapter links are inserted into.
type Sheet interface {
	NamedRange(ctx context.Context, name string) (gsheets.Range, error)
	Values(ctx context.Context, r gsheets.Range) ([][]string, error)
	SetFormula(ctx context.Context, r gsheets.Range, formula string) error
}

// InsertLinks writes a hyperlink formula next to every shot whose id matches
// a chapter name. It returns the number of links inserted.
func InsertLinks(ctx context.Context, sheet Sheet, chs []Chapter) (int, error) {
	r, err := sheet.NamedRange(ctx, ShotIDsRangeName)
	if err != nil {
		return 0, err
	}
	values, err := sheet.Values(ctx, r)
	if err != nil {
		return 0, err
	}
	inserted := 0
	for i, row := range values {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		for _, ch := range chs {
			if row[0] != ch.Name {
				continue
			}
			cell := gsheets.Range{Sheet: r.Sheet, Row: r.Row + int64(i), Column: LinkColumn}
			if err := sheet.SetFormula(ctx, cell, gsheets.HyperlinkFormula(ch.LinkURL(), ch.Name)); err != nil {
				return inserted, err
			}
			inserted++
			break
		}
	}
	return inserted, nil
}
