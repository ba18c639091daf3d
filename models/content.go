package models

import "time"

// ContentKind names a family of admin-managed records.
type ContentKind string

const (
	KindEnquiries ContentKind = "enquiries"
	KindReviews   ContentKind = "reviews"
	KindAmenities ContentKind = "amenities"
	KindGallery   ContentKind = "gallery"
	KindSections  ContentKind = "sections"
)

// ContentKinds lists every kind served by the content store.
var ContentKinds = []ContentKind{KindEnquiries, KindReviews, KindAmenities, KindGallery, KindSections}

// Valid reports whether k is a known content kind.
func (k ContentKind) Valid() bool {
	for _, known := range ContentKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ContentRecord is an opaque admin-managed record such as an enquiry or a gallery image.
type ContentRecord struct {
	ID            string                 `bson:"id" json:"id"`
	Kind          ContentKind            `bson:"kind" json:"kind"`
	Title         string                 `bson:"title,omitempty" json:"title,omitempty"`
	Body          string                 `bson:"body,omitempty" json:"body,omitempty"`
	Fields        map[string]interface{} `bson:"fields,omitempty" json:"fields,omitempty"`
	ImageURL      string                 `bson:"image_url,omitempty" json:"image_url,omitempty"`
	ImagePublicID string                 `bson:"image_public_id,omitempty" json:"image_public_id,omitempty"`
	Published     bool                   `bson:"published" json:"published"`
	SortOrder     int                    `bson:"sort_order" json:"sort_order"`
	CreatedAt     time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time              `bson:"updated_at" json:"updated_at"`
}

// EnquiryInput is the public contact form.
type EnquiryInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,max=32"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Image is an uploaded file awaiting storage.
type Image struct {
	Filename string
	Path     string // local temp file path
}

// StoredImage is a file held by the image store.
type StoredImage struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}
