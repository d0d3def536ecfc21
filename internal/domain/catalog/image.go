package catalog

import (
	"strings"

	"github.com/google/uuid"

	"github.com/opencatalog/backend/internal/domain/shared"
)

// Image is a product image. At most one image per product is primary;
// SetPrimaryImage clears all others before setting the new one.
type Image struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL       string    `gorm:"type:varchar(2000);not null"`
	AltText   string    `gorm:"type:varchar(500)"`
	SortOrder int       `gorm:"not null;default:0"`
	IsPrimary bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Image) TableName() string {
	return "product_images"
}

// ImageInput carries the fields needed to attach an image to a product
type ImageInput struct {
	URL     string
	AltText string
}

func (img *Image) validate() error {
	if strings.TrimSpace(img.URL) == "" {
		return shared.NewValidationError("image URL cannot be empty")
	}
	return nil
}

// AddImage attaches an image to the product. The first image added
// becomes primary.
func (p *Product) AddImage(in ImageInput) error {
	image := Image{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  p.ID,
		URL:        in.URL,
		AltText:    in.AltText,
		SortOrder:  len(p.Images),
		IsPrimary:  len(p.Images) == 0,
	}
	if err := image.validate(); err != nil {
		return err
	}

	p.Images = append(p.Images, image)
	p.touch()

	p.recordAudit(AuditActionAddImage, nil, values{"image_url": image.URL})
	return nil
}

// RemoveImage detaches an image by ID. When the primary image is
// removed, the first remaining image becomes primary.
func (p *Product) RemoveImage(imageID uuid.UUID) error {
	idx := -1
	for i := range p.Images {
		if p.Images[i].ID == imageID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return shared.ErrNotFound
	}

	removed := p.Images[idx]
	p.Images = append(p.Images[:idx], p.Images[idx+1:]...)
	for i := range p.Images {
		p.Images[i].SortOrder = i
	}
	if removed.IsPrimary && len(p.Images) > 0 {
		p.Images[0].IsPrimary = true
	}
	p.touch()

	p.recordAudit(AuditActionRemoveImage, values{"image_url": removed.URL}, nil)
	return nil
}

// SetPrimaryImage marks one image as primary and clears all others
func (p *Product) SetPrimaryImage(imageID uuid.UUID) error {
	found := false
	for i := range p.Images {
		if p.Images[i].ID == imageID {
			found = true
			break
		}
	}
	if !found {
		return shared.ErrNotFound
	}

	for i := range p.Images {
		p.Images[i].IsPrimary = p.Images[i].ID == imageID
	}
	p.touch()

	p.recordAudit(AuditActionSetPrimaryImage, nil, values{"image_id": imageID})
	return nil
}

// ReplaceImages swaps the full image list, used by source
// synchronization when a source supplies images. The first image
// becomes primary.
func (p *Product) ReplaceImages(inputs []ImageInput) error {
	images := make([]Image, 0, len(inputs))
	for i, in := range inputs {
		image := Image{
			BaseEntity: shared.NewBaseEntity(),
			ProductID:  p.ID,
			URL:        in.URL,
			AltText:    in.AltText,
			SortOrder:  i,
			IsPrimary:  i == 0,
		}
		if err := image.validate(); err != nil {
			return err
		}
		images = append(images, image)
	}

	p.Images = images
	p.touch()

	p.recordAudit(AuditActionReplaceImages, nil, values{"image_count": len(images)})
	return nil
}

// PrimaryImage returns the primary image, or nil when the product has none
func (p *Product) PrimaryImage() *Image {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	return nil
}
