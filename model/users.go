package model

// User is the cached copy of the account the API reports for the current token.
// The password is never sent back by the API and is not held here.
type User struct {
	UserID   string `json:"id" bson:"user_id"`
	Username string `json:"username" bson:"username"`
	Email    string `json:"email" bson:"email"`
}
