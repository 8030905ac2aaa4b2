package capture

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askloop/askloop/internal/model"
)

type fakeUploader struct {
	calls []model.Submission
	err   error
}

func (f *fakeUploader) Upload(ctx context.Context, sub model.Submission, filename string) (*model.FeedItem, error) {
	f.calls = append(f.calls, sub)
	if f.err != nil {
		return nil, f.err
	}
	return &model.FeedItem{URI: "https://x/public/key.mp4", User: sub.Responder, Title: sub.Title}, nil
}

func TestSend(t *testing.T) {
	up := &fakeUploader{}
	c := New(up)

	c.AttachVideo([]byte("clip bytes"), "clip.mp4", "video/mp4")
	c.SetTitle("morning anxiety")
	c.SetResponder("drsmith")

	item, err := c.Send(context.Background())
	require.NoError(t, err)

	require.Len(t, up.calls, 1)
	assert.Equal(t, "drsmith", up.calls[0].Responder)
	assert.Equal(t, "morning anxiety", item.Title)

	// A successful send destroys the submission.
	assert.False(t, c.HasContent())
}

func TestSend_EmptyTitleNeverInvokesUploader(t *testing.T) {
	up := &fakeUploader{}
	c := New(up)
	c.AttachVideo([]byte("clip bytes"), "clip.mp4", "video/mp4")

	_, err := c.Send(context.Background())
	assert.ErrorIs(t, err, ErrTitleRequired)
	assert.Empty(t, up.calls)
}

func TestSend_NoContent(t *testing.T) {
	up := &fakeUploader{}
	c := New(up)
	c.SetTitle("hello")

	_, err := c.Send(context.Background())
	assert.ErrorIs(t, err, ErrNoContent)
	assert.Empty(t, up.calls)
}

func TestSend_TitleTooLong(t *testing.T) {
	up := &fakeUploader{}
	c := New(up)
	c.AttachText("what do I do")
	c.SetTitle(strings.Repeat("x", 41))

	_, err := c.Send(context.Background())
	assert.ErrorIs(t, err, ErrTitleTooLong)
	assert.Empty(t, up.calls)
}

func TestSend_UploadFailureKeepsSubmission(t *testing.T) {
	up := &fakeUploader{err: errors.New("network down")}
	c := New(up)
	c.AttachVideo([]byte("clip bytes"), "clip.mp4", "video/mp4")
	c.SetTitle("hello")

	_, err := c.Send(context.Background())
	require.Error(t, err)

	// The submission survives so the user can resend manually.
	assert.True(t, c.HasContent())
	require.NoError(t, c.Validate())

	// And the resend goes through once the network is back.
	up.err = nil
	_, err = c.Send(context.Background())
	require.NoError(t, err)
	assert.Len(t, up.calls, 2)
}

func TestAttachText(t *testing.T) {
	c := New(&fakeUploader{})
	c.AttachText("why do I wake up at 3am")

	assert.True(t, c.HasContent())
	assert.Equal(t, "anonymous", c.Responder())
}

func TestDiscard(t *testing.T) {
	c := New(&fakeUploader{})
	c.AttachVideo([]byte("x"), "clip.mov", "video/quicktime")
	c.SetTitle("hello")

	c.Discard()

	assert.False(t, c.HasContent())
	assert.ErrorIs(t, c.Validate(), ErrNoContent)
}
