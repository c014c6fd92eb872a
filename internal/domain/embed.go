package domain

// Embed is the resolved display metadata for a product link. An empty
// string means the field is absent; JSON and BSON marshalling drop
// absent fields so clients see the same shape the resolver produced.
type Embed struct {
	Link  string `json:"link,omitempty" bson:"link,omitempty"`
	Title string `json:"title,omitempty" bson:"title,omitempty"`
	Price string `json:"price,omitempty" bson:"price,omitempty"`
	Cover string `json:"cover,omitempty" bson:"cover,omitempty"`
}

// Equal reports whether all tracked display fields match.
func (e Embed) Equal(other Embed) bool {
	return e == other
}

// Display returns the embed with the requested link substituted for a
// missing link and title, so viewers always have something to render.
func (e Embed) Display(requested string) Embed {
	if e.Link == "" {
		e.Link = requested
	}
	if e.Title == "" {
		e.Title = requested
	}
	return e
}

// EmbedResult is the raw resolver response before normalization.
type EmbedResult struct {
	Success  bool
	IsSearch bool
	Embed
}

// Normalized clears link and title when the resolver failed or matched
// a generic search page instead of a specific product. Downstream code
// then falls back to the raw input link for both.
func (r EmbedResult) Normalized() Embed {
	e := r.Embed
	if !r.Success || r.IsSearch {
		e.Link = ""
		e.Title = ""
	}
	return e
}
