package domain

import "time"

// Manuscript is a generated blog post. It is never mutated after creation.
type Manuscript struct {
	// ID is assigned by the document store on insert.
	ID string `json:"id"`

	// Content is the generated text, trimmed.
	Content string `json:"content"`

	// Keyword is the user keyword or instructions the post was generated for.
	Keyword string `json:"keyword,omitempty"`

	// Category is the routing category whose dataset was used.
	Category RoutingCategory `json:"category"`

	// CreatedAt is the generation time.
	CreatedAt time.Time `json:"created_at"`
}
