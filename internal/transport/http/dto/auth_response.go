package dto

import "github.com/brooksgarrett/todo-api/internal/domain"

// UserView is the only public shape of a user: id and email, never the hash
// or the token list.
type UserView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func NewUserView(u domain.User) UserView {
	return UserView{ID: u.ID, Email: u.Email}
}
