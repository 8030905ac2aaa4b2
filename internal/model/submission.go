package model

// SubmissionKind values match the clip kinds persisted to the index.
const (
	KindVideo = "video"
	KindText  = "text"
)

// Submission is an in-flight question: payload plus the fields the user
// filled in before sending. It exists client-side only until the upload
// succeeds.
type Submission struct {
	Title       string
	Kind        string
	Payload     []byte
	ContentType string
	Responder   string // empty means anonymous
}
