package app

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmailExists       = errors.New("email already registered")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrUserNotFound      = errors.New("user not found")
	ErrPostNotFound      = errors.New("post not found")
	ErrVoteNotFound      = errors.New("vote does not exist")
	ErrVoteConflict      = errors.New("user has already voted on this post")
	ErrForbidden         = errors.New("not authorized to perform requested action")
)
