package entity

import (
	"time"
)

// Base carries the common record fields. Timestamps are unix milliseconds so
// the store can order and compare them as numbers.
type Base struct {
	ID        string `dynamodbav:"id" json:"id"`
	CreatedAt int64  `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt int64  `dynamodbav:"updated_at" json:"updated_at"`
}

type Map map[string]any

func Now() int64 {
	return time.Now().UTC().UnixMilli()
}
