package domain

// SeedLessons returns the fallback dataset used when no remote lesson
// service is configured or the remote load fails. Callers get a fresh
// copy each time, so booked spaces never leak between sessions.
func SeedLessons() []Lesson {
	return []Lesson{
		{ID: "1", Topic: "math", Location: "Hendon", Price: 500, Space: 5, Rating: 5, Image: "assets/subjects/1.png"},
		{ID: "2", Topic: "biology", Location: "Colindale", Price: 900, Space: 5, Rating: 4, Image: "assets/subjects/2.png"},
		{ID: "3", Topic: "english", Location: "Brent Cross", Price: 800, Space: 5, Rating: 5, Image: "assets/subjects/3.png"},
		{ID: "4", Topic: "music", Location: "Golders Green", Price: 600, Space: 5, Rating: 4.5, Image: "assets/subjects/4.png"},
		{ID: "5", Topic: "art", Location: "Hendon", Price: 750, Space: 5, Rating: 5, Image: "assets/subjects/5.png"},
		{ID: "6", Topic: "coding", Location: "Wood Green", Price: 450, Space: 5, Rating: 3, Image: "assets/subjects/6.png"},
		{ID: "7", Topic: "dance", Location: "Hendon", Price: 960, Space: 5, Rating: 4, Image: "assets/subjects/7.png"},
		{ID: "8", Topic: "history", Location: "Colindale", Price: 665, Space: 5, Rating: 4, Image: "assets/subjects/8.png"},
		{ID: "9", Topic: "economics", Location: "Brent Cross", Price: 500, Space: 5, Rating: 4, Image: "assets/subjects/9.png"},
		{ID: "10", Topic: "chemistry", Location: "Golders Green", Price: 750, Space: 5, Rating: 5, Image: "assets/subjects/10.png"},
	}
}
