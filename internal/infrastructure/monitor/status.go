package monitor

import "time"

type Status struct {
	Store       bool            `json:"store"`
	StoreDriver string          `json:"store_driver"`
	Redis       bool            `json:"redis"`
	Checks      map[string]bool `json:"checks"`
	LastCheck   time.Time       `json:"last_check"`
}
