package domain

// Project is a floor-plan visualization project. SourceImage is mandatory:
// a record with no resolvable source is never stored.
type Project struct {
	ID            string `json:"id"`
	Name          string `json:"name,omitempty"`
	SourceImage   string `json:"sourceImage"`
	RenderedImage string `json:"renderedImage,omitempty"`
	// Image3D is populated lazily, after the first successful generation.
	Image3D   string `json:"image3d,omitempty"`
	CreatedAt int64  `json:"createdAt"` // unix ms
	UpdatedAt int64  `json:"updatedAt,omitempty"`
	OwnerID   string `json:"ownerId,omitempty"`
	Public    bool   `json:"public"`

	// Optional attribution
	AuthorName string `json:"authorName,omitempty"`
	AuthorURL  string `json:"authorUrl,omitempty"`

	// Transient client-side paths, stripped before persistence.
	SourcePath   string `json:"sourcePath,omitempty"`
	RenderedPath string `json:"renderedPath,omitempty"`
}

// StripTransient clears fields that must never reach the store.
func (p *Project) StripTransient() {
	p.SourcePath = ""
	p.RenderedPath = ""
}
