package models

import "time"

// Enquiry is a franchise lead submitted without a payment. Write-once.
type Enquiry struct {
	EnquiryID  string    `json:"enquiryId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	City       string    `json:"city"`
	Investment string    `json:"investment"`
	Message    string    `json:"message"`
	ReceivedAt time.Time `json:"receivedAt"`
}
