package model

import "time"

// Class is a scheduled fitness class as the class store returns it.
type Class struct {
	ID        int64
	Title     string
	Lat       float64
	Lon       float64
	Intensity int
	Price     float64
	StartsAt  time.Time
	Tags      []string
}
