package models

import "time"

type User struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Role      string    `json:"role" bson:"role"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

const DefaultRole = "student"

type RegisterRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role"`
}

type GeneratePlanRequest struct {
	UserID        string `json:"userId"`
	Variant       string `json:"variant"`
	Syllabus      string `json:"syllabus"`
	ExamDate      string `json:"examDate"`
	AvailableTime string `json:"availableTime"`
	WakeTime      string `json:"wakeTime"`
	BedTime       string `json:"bedTime"`
	// ReferenceDate is the client's "today" (YYYY-MM-DD); the server date is used when empty.
	ReferenceDate string `json:"referenceDate"`
}

type GeneratePlanResponse struct {
	Message   string      `json:"message"`
	Plan      *PlanRecord `json:"plan"`
	Persisted bool        `json:"persisted"`
	Warning   string      `json:"warning,omitempty"`
}

type ToggleRequest struct {
	Day   int  `json:"day"`
	Index *int `json:"index" binding:"required"`
}

type RemindersResponse struct {
	Due   []BlockRef `json:"due"`
	Now   time.Time  `json:"now"`
	Notes []Reminder `json:"notifications"`
}

// Reminder is the title/body pair a client shows as a notification.
type Reminder struct {
	Ref   BlockRef `json:"ref"`
	Title string   `json:"title"`
	Body  string   `json:"body"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
	Raw       string `json:"raw,omitempty"`
}
