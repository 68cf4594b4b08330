package domain

import (
	"time"
)

// MediaType distinguishes the kinds of media attached to a step.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Media is a single image or video attached to a procedure step.
// It is owned exclusively by its Step and has no identity of its own.
type Media struct {
	Type    MediaType `json:"type"`
	URL     string    `json:"url"`
	Caption *string   `json:"caption"`
}

// Step is one numbered step of a procedure guide.
//
// Step IDs come from a single global counter in the store, not a
// per-procedure one, and they are NOT stable across updates: every
// update of the parent procedure re-issues fresh IDs for all of its
// steps. StepNumber is purely positional (1-based) and is recomputed
// on every write.
type Step struct {
	ID          int     `json:"id"`
	StepNumber  int     `json:"step_number"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Tips        *string `json:"tips"`
	Warnings    *string `json:"warnings"`
	Media       []Media `json:"media"`
}

// Procedure is a reference entry in the procedure library, with its
// ordered step-by-step guide embedded.
type Procedure struct {
	ID                int       `json:"id"`
	Name              string    `json:"name"`
	Category          *string   `json:"category"`
	Description       *string   `json:"description"`
	Indications       *string   `json:"indications"`
	Contraindications *string   `json:"contraindications"`
	ThumbnailURL      *string   `json:"thumbnail_url"`
	Steps             []Step    `json:"steps"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
