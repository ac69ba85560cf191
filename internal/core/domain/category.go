package domain

import "time"

type Category struct {
	ID          uint64
	Name        string
	Slug        string
	Description string
	IsActive    bool
	ParentID    *uint64
	Parent      *Category
	Children    []*Category
	CreatedAt   time.Time
}

func (c *Category) IsTopLevel() bool {
	return c.ParentID == nil
}
