package database

import (
	"errors"
)

var (
	ErrFeedNotFound    = errors.New("feed source not found")
	ErrDuplicateFeed   = errors.New("feed with this URL already exists")
	ErrArticleNotFound = errors.New("article not found")
)
