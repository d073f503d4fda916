package models

type User struct {
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name"`
}
