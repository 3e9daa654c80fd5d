package service

import "errors"

var (
	ErrInternal          = errors.New("internal server error")
	ErrPostNotFound      = errors.New("post not found")
	ErrCommentNotFound   = errors.New("comment not found")
	ErrForbidden         = errors.New("no access")
	ErrNothingToUpdate   = errors.New("nothing to update")
	ErrEmptyContent      = errors.New("content is empty")
	ErrFailedToFetchUser = errors.New("failed to fetch user")
	ErrInvalidUserUpdate = errors.New("invalid user update")
)
