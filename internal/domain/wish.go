package domain

// Wish is one saved item on a wishlist. The embed fields are a
// denormalized snapshot of the product metadata at add time; the
// reconciler overwrites them when the resolved embed drifts.
type Wish struct {
	ID         string
	UserID     string
	WishlistID string
	Embed
}

// Channel identifies the broadcast group of one wishlist viewed by one
// user. It is derived per message and never persisted.
type Channel struct {
	UserID     string
	WishlistID string
}

const channelSeparator = "|"

func (c Channel) String() string {
	return c.UserID + channelSeparator + c.WishlistID
}
