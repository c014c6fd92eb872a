package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/robog-two/wishlily-db/internal/domain"
)

// Actions carried by inbound frames.
const (
	ActionRegister = "register"
	ActionReload   = "reload"
	ActionUpgrade  = "upgrade"
)

// ErrUnknownAction marks a well-formed frame whose action is not part
// of the protocol. Such frames are a silent no-op, not an error frame.
var ErrUnknownAction = errors.New("unknown action")

// Inbound is a decoded client frame: Register, Reload, or Upgrade.
type Inbound interface{ isInbound() }

// Register joins the sending connection to a channel for future
// broadcasts.
type Register struct {
	UserID     string
	WishlistID string
}

// Reload asks every viewer of a channel to re-fetch wishlist contents.
type Reload struct {
	UserID     string
	WishlistID string
}

// Upgrade triggers reconciliation of one wish's embed.
type Upgrade struct {
	UserID     string
	WishlistID string
	WishID     string
}

func (Register) isInbound() {}
func (Reload) isInbound()   {}
func (Upgrade) isInbound()  {}

func (m Register) Channel() domain.Channel {
	return domain.Channel{UserID: m.UserID, WishlistID: m.WishlistID}
}

func (m Reload) Channel() domain.Channel {
	return domain.Channel{UserID: m.UserID, WishlistID: m.WishlistID}
}

func (m Upgrade) Channel() domain.Channel {
	return domain.Channel{UserID: m.UserID, WishlistID: m.WishlistID}
}

type frame struct {
	Action     string `json:"action"`
	UserID     string `json:"userId"`
	WishlistID string `json:"wishlistId"`
	WishID     string `json:"wishId"`
}

// Decode parses a single text frame into its protocol variant. A frame
// that is not valid JSON yields a wrapped error; a valid frame with an
// unlisted action yields ErrUnknownAction.
func Decode(data []byte) (Inbound, error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}

	switch f.Action {
	case ActionRegister:
		return Register{UserID: f.UserID, WishlistID: f.WishlistID}, nil
	case ActionReload:
		return Reload{UserID: f.UserID, WishlistID: f.WishlistID}, nil
	case ActionUpgrade:
		return Upgrade{UserID: f.UserID, WishlistID: f.WishlistID, WishID: f.WishID}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, f.Action)
	}
}

// ReloadEvent tells viewers to re-fetch wishlist contents from the
// CRUD API.
type ReloadEvent struct {
	Action string `json:"action"`
}

// NewReloadEvent builds the outbound reload hint.
func NewReloadEvent() ReloadEvent {
	return ReloadEvent{Action: ActionReload}
}

// WishEmbed is the display payload of one wish inside a replace-embed
// event.
type WishEmbed struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Link  string `json:"link,omitempty"`
	Price string `json:"price,omitempty"`
	Cover string `json:"cover,omitempty"`
}

// ReplaceEmbedEvent announces that one wish's display fields changed.
type ReplaceEmbedEvent struct {
	Action string    `json:"action"`
	Embed  WishEmbed `json:"embed"`
}

// NewReplaceEmbedEvent builds the outbound replace-embed event for a
// wish and its freshly resolved embed.
func NewReplaceEmbedEvent(wishID string, embed domain.Embed) ReplaceEmbedEvent {
	return ReplaceEmbedEvent{
		Action: "replace-embed",
		Embed: WishEmbed{
			ID:    wishID,
			Title: embed.Title,
			Link:  embed.Link,
			Price: embed.Price,
			Cover: embed.Cover,
		},
	}
}
