// Package models defines the data types shared across the application.
package models

// Section is one readable section of the essay.
type Section struct {
	ID        int64  `json:"id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Order     int    `json:"order"`
	Published bool   `json:"published"`
}
