package domain

import "regexp"

var (
	nameRe  = regexp.MustCompile(`^[A-Za-z ]+$`)
	phoneRe = regexp.MustCompile(`^[0-9]+$`)
)

// OrderForm holds the checkout form fields. It is transient state,
// reset after a successful submission.
type OrderForm struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (f OrderForm) ValidName() bool {
	return nameRe.MatchString(f.Name)
}

func (f OrderForm) ValidPhone() bool {
	return phoneRe.MatchString(f.Phone)
}

func (f OrderForm) Valid() bool {
	return f.ValidName() && f.ValidPhone()
}

// CheckoutRequest is the order payload sent to the remote service. It is
// built at submission time from the form and the cart; LessonIDs keeps
// duplicates because each occurrence is a distinct reserved slot.
type CheckoutRequest struct {
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	LessonIDs []string `json:"lessonIDs"`
	SlotCount int      `json:"space"`
}
