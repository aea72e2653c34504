package domain

import "strings"

// Lesson is a bookable catalog item. Space is the remaining number of
// bookable slots and is the only field that changes during a session.
type Lesson struct {
	ID       string  `json:"_id"`
	Topic    string  `json:"topic"`
	Location string  `json:"location"`
	Price    float64 `json:"price"`
	Space    int     `json:"space"`
	Rating   float64 `json:"rating"`
	Image    string  `json:"img"`
}

// Title returns the topic with its first letter capitalized, for display.
func (l Lesson) Title() string {
	if l.Topic == "" {
		return ""
	}
	return strings.ToUpper(l.Topic[:1]) + l.Topic[1:]
}
