package model

import "time"

const DefaultReminderMinutes = 15

type Appointment struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Title           string    `json:"title"`
	Description     *string   `json:"description"`
	Date            time.Time `json:"date"`
	Location        *string   `json:"location"`
	ReminderMinutes int       `json:"reminderMinutes"`
	ReminderEnabled bool      `json:"reminderEnabled"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ReminderAt is the instant a reminder for the appointment is due.
func (a Appointment) ReminderAt() time.Time {
	return a.Date.Add(-time.Duration(a.ReminderMinutes) * time.Minute)
}
