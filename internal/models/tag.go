package models

// Tag is one entry of the static topic catalog, seeded at migration time.
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
}
