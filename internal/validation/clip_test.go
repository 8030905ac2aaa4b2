package validation

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// minimal mp4: size box + ftyp brand, enough for content sniffing
func mp4Payload() []byte {
	return append([]byte{0x00, 0x00, 0x00, 0x18}, []byte("ftypmp42aaaaaaaaaaaa")...)
}

func TestValidateClip_Video(t *testing.T) {
	err := ValidateClip("clip.mp4", mp4Payload(), VideoConstraints)
	assert.NoError(t, err)
}

func TestValidateClip_Text(t *testing.T) {
	err := ValidateClip("question.txt", []byte("why am I tired"), TextConstraints)
	assert.NoError(t, err)
}

func TestValidateClip_EitherConstraintMatches(t *testing.T) {
	err := ValidateClip("question.txt", []byte("hello"), VideoConstraints, TextConstraints)
	assert.NoError(t, err)
}

func TestValidateClip_RejectsMismatchedExtension(t *testing.T) {
	err := ValidateClip("clip.avi", mp4Payload(), VideoConstraints)
	assert.Error(t, err)
}

func TestValidateClip_RejectsHTML(t *testing.T) {
	err := ValidateClip("page.mp4", []byte("<!DOCTYPE html><html></html>"), VideoConstraints, TextConstraints)
	assert.Error(t, err)
}

func TestValidateClip_RejectsOversize(t *testing.T) {
	big := bytes.Repeat([]byte("a"), int(TextConstraints.MaxSize)+1)

	err := ValidateClip("question.txt", big, TextConstraints)
	assert.Error(t, err)
}

func TestValidateClip_NoConstraints(t *testing.T) {
	err := ValidateClip("clip.mp4", mp4Payload())
	assert.Error(t, err)
}
