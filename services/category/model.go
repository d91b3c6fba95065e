package category

import (
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Category struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Slug        string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Icon        string    `gorm:"type:varchar(255)" json:"icon,omitempty"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	return nil
}

// Defaults is the catalog installed by the seeder.
var Defaults = []Category{
	{Name: "Plumber", Description: "Pipe fitting, leak repair and bathroom fixtures", Icon: "plumber"},
	{Name: "Electrician", Description: "Wiring, switchboards and appliance installation", Icon: "electrician"},
	{Name: "Carpenter", Description: "Furniture making and woodwork repair", Icon: "carpenter"},
	{Name: "Painter", Description: "Interior and exterior painting", Icon: "painter"},
	{Name: "Mason", Description: "Brickwork, plastering and tiling", Icon: "mason"},
	{Name: "House Cleaning", Description: "Home deep cleaning and housekeeping", Icon: "cleaning"},
	{Name: "Gardener", Description: "Lawn care, planting and landscaping", Icon: "gardener"},
	{Name: "AC Technician", Description: "Air conditioner service and repair", Icon: "ac"},
	{Name: "Mechanic", Description: "Vehicle service and repair", Icon: "mechanic"},
	{Name: "Welder", Description: "Metal fabrication and welding", Icon: "welder"},
}
