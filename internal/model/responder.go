package model

import (
	"strings"
	"time"
)

// Responder is a directory profile a question can be addressed to.
// Keywords are free-form tags used by the directory search.
type Responder struct {
	ID          string    `db:"id" json:"id"`
	Username    string    `db:"username" json:"username"`
	ProfilePic  string    `db:"profile_pic" json:"profilePic"`
	Keywords    []string  `db:"-" json:"keywords"`
	RawKeywords string    `db:"keywords" json:"-"` // comma-joined for the db column
	CreatedAt   time.Time `db:"created_at" json:"-"`
}

// SplitKeywords populates Keywords from the stored comma-joined column.
func (r *Responder) SplitKeywords() {
	r.Keywords = nil
	for _, kw := range strings.Split(r.RawKeywords, ",") {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			r.Keywords = append(r.Keywords, kw)
		}
	}
}

// JoinKeywords fills the db column from Keywords.
func (r *Responder) JoinKeywords() {
	r.RawKeywords = strings.Join(r.Keywords, ",")
}
