package model

import "time"

// Session pairs the opaque auth token with the user it belongs to. It is
// persisted as a single record so the two halves can never drift apart.
type Session struct {
	Token   string    `json:"token" bson:"token"`
	User    *User     `json:"user" bson:"user"`
	SavedAt time.Time `json:"saved_at" bson:"saved_at"`
}

// Complete reports whether both the token and the user are present.
func (s *Session) Complete() bool {
	return s != nil && s.Token != "" && s.User != nil
}
