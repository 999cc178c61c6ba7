package entity

import "time"

// StatusHistoryItem is one append-only entry of a transaction's status log
type StatusHistoryItem struct {
	ID         int64     `json:"id"`
	DotsNumber string    `json:"dots_number"`
	Status     string    `json:"status"`
	Date       time.Time `json:"date"`
	Remark     string    `json:"remark"`
	ModifiedBy string    `json:"modified_by"`
}
