package domain

import (
	"time"
)

// MedicineReminder is one entry of a user's medicine log.
type MedicineReminder struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	MedicineName string    `json:"medicine_name"`
	Dosage       string    `json:"dosage"`
	Time         string    `json:"time"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

// ReminderInput carries the add-medicine form.
type ReminderInput struct {
	MedicineName string `form:"medicineName" json:"medicine_name"`
	Dosage       string `form:"dosage" json:"dosage"`
	Time         string `form:"time" json:"time"`
	Description  string `form:"description" json:"description"`
}
