// Package capture holds the ask screen's submission lifecycle: build
// up a clip or typed question, validate it, send it, and keep it around
// when sending fails so the user can try again.
package capture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/askloop/askloop/internal/model"
	"github.com/askloop/askloop/internal/objectkey"
)

// MaxClipDuration caps a recording; the camera stops on its own when
// it elapses.
const MaxClipDuration = 15 * time.Second

const maxTitleLength = 40

var (
	ErrNoContent     = errors.New("record a clip or type a question first")
	ErrTitleRequired = errors.New("please enter a title before sending")
	ErrTitleTooLong  = fmt.Errorf("title must be at most %d characters", maxTitleLength)
)

// Uploader sends a finished submission. *api.Client satisfies this.
type Uploader interface {
	Upload(ctx context.Context, sub model.Submission, filename string) (*model.FeedItem, error)
}

// Capture is one in-progress submission. It is created empty, filled by
// the record/type and title steps, and destroyed by Discard or a
// successful Send.
type Capture struct {
	uploader Uploader

	sub      model.Submission
	filename string
	hasClip  bool
}

func New(uploader Uploader) *Capture {
	return &Capture{uploader: uploader}
}

// AttachVideo sets a recorded clip as the payload.
func (c *Capture) AttachVideo(payload []byte, filename, contentType string) {
	c.sub.Kind = model.KindVideo
	c.sub.Payload = payload
	c.sub.ContentType = contentType
	c.filename = filename
	c.hasClip = len(payload) > 0
}

// AttachText sets a typed question as the payload.
func (c *Capture) AttachText(text string) {
	c.sub.Kind = model.KindText
	c.sub.Payload = []byte(text)
	c.sub.ContentType = "text/plain"
	c.filename = ""
	c.hasClip = len(text) > 0
}

// SetTitle records the title the user typed.
func (c *Capture) SetTitle(title string) {
	c.sub.Title = title
}

// SetResponder tags the submission with the responder chosen in the
// directory search. Without it the upload goes out as anonymous.
func (c *Capture) SetResponder(username string) {
	c.sub.Responder = username
}

// Responder returns the tagged responder, or the anonymous default.
func (c *Capture) Responder() string {
	if c.sub.Responder == "" {
		return objectkey.DefaultResponder
	}
	return c.sub.Responder
}

// HasContent reports whether there is anything to send.
func (c *Capture) HasContent() bool {
	return c.hasClip
}

// Validate runs the pre-send checks without touching the network.
func (c *Capture) Validate() error {
	if !c.hasClip {
		return ErrNoContent
	}
	if c.sub.Title == "" {
		return ErrTitleRequired
	}
	if len([]rune(c.sub.Title)) > maxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

// Send validates and uploads the submission. Validation failures
// short-circuit before the uploader is invoked. On upload failure the
// submission is kept intact for a manual resend; on success it is
// cleared and the created feed item returned for immediate display.
func (c *Capture) Send(ctx context.Context) (*model.FeedItem, error) {
	err := c.Validate()
	if err != nil {
		return nil, err
	}

	item, err := c.uploader.Upload(ctx, c.sub, c.filename)
	if err != nil {
		return nil, err
	}

	c.Discard()
	return item, nil
}

// Discard drops the in-progress submission.
func (c *Capture) Discard() {
	c.sub = model.Submission{}
	c.filename = ""
	c.hasClip = false
}
