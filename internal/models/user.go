package models

// User is the directory view of an account held in Postgres. The notification
// service only needs enough of the profile to address an email.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}
