package models

import "time"

type Category struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`

	CourseCount int `json:"course_count,omitempty"`
}

type Course struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  *string   `json:"description"`
	Price        int64     `json:"price"` // smallest currency unit
	Thumbnail    *string   `json:"thumbnail"`
	IsPublished  bool      `json:"is_published"`
	CategoryID   string    `json:"category_id"`
	InstructorID string    `json:"instructor_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Populated on reads, not persisted columns.
	Category        *Category `json:"category,omitempty"`
	InstructorName  *string   `json:"instructor_name,omitempty"`
	LessonCount     int       `json:"lesson_count,omitempty"`
	EnrollmentCount int       `json:"enrollment_count,omitempty"`
	Lessons         []Lesson  `json:"lessons,omitempty"`
}

func (c Course) Free() bool { return c.Price == 0 }

type Lesson struct {
	ID         string    `json:"id"`
	CourseID   string    `json:"course_id"`
	Title      string    `json:"title"`
	VideoURL   string    `json:"video_url,omitempty"`
	OrderIndex int       `json:"order_index"`
	Duration   *int      `json:"duration"` // seconds
	IsFree     bool      `json:"is_free"`
	CreatedAt  time.Time `json:"created_at"`
}
