package resume

import (
	"time"

	"github.com/goliatone/go-resumegen/pkg/formdata"
	"github.com/goliatone/go-resumegen/pkg/schema"
)

// UntitledName is the display name used when the owner has no name.
const UntitledName = "Untitled Resume"

// Metadata describes a snapshot for listings.
type Metadata struct {
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	LastModified time.Time `json:"lastModified"`
	Template     string    `json:"template,omitempty"`
	Theme        string    `json:"theme"`
	HasContent   bool      `json:"hasContent"`
	CreatedAt    time.Time `json:"createdAt,omitzero"`
	UpdatedAt    time.Time `json:"updatedAt,omitzero"`
	Version      string    `json:"version,omitempty"`
}

// Snapshot is the serialisable state of a resume. Nil fields are absent.
type Snapshot struct {
	Data     formdata.Data    `json:"data,omitempty"`
	Template *schema.Template `json:"template,omitempty"`
	Theme    string           `json:"theme,omitempty"`
	Metadata *Metadata        `json:"metadata,omitempty"`
}

// Metadata derives listing metadata from the current state.
func (r *Resume) Metadata() Metadata {
	name := UntitledName
	if owner := r.OwnerName(); owner != "" {
		name = owner + " Resume"
	}
	meta := Metadata{
		Name:         name,
		Email:        ownerField(r.data, "email"),
		LastModified: r.now().UTC(),
		Theme:        r.theme,
		HasContent:   r.HasContent(),
	}
	if r.template != nil {
		meta.Template = r.template.ID
	}
	return meta
}

// Export captures data, template, theme and metadata.
func (r *Resume) Export() Snapshot {
	meta := r.Metadata()
	return Snapshot{
		Data:     r.Data(),
		Template: r.Template(),
		Theme:    r.theme,
		Metadata: &meta,
	}
}

// Import applies each of data, template and theme only when present in snap.
func (r *Resume) Import(snap Snapshot) {
	if snap.Data != nil {
		r.SetData(snap.Data)
	}
	if snap.Template != nil {
		r.SetTemplate(snap.Template)
	}
	if snap.Theme != "" {
		r.SetTheme(snap.Theme)
	}
}
