package domain

import "errors"

var (
	// ErrUserNotFound indicates no user document exists for a user ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrKeyMismatch indicates the provided user key does not match the
	// stored one.
	ErrKeyMismatch = errors.New("user key does not match")

	// ErrWishlistNotFound indicates the wishlist does not exist.
	ErrWishlistNotFound = errors.New("wishlist does not exist")

	// ErrWishNotFound indicates no wish matches the (id, wishlist) pair.
	ErrWishNotFound = errors.New("wish not found")

	// ErrEmbedNotFound indicates the embed cache has no entry for a link.
	ErrEmbedNotFound = errors.New("embed not cached")
)
