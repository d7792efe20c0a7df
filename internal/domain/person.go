package domain

// Person is the canonical person record produced by the reconciliation stage.
// Exactly one Person exists per identifier after a batch run; email and phone
// are soft keys and may be nil.
type Person struct {
	ID        int
	Email     *string
	Phone     *string
	FirstName string
	Surname   string
	City      *string
	Country   *string
	Android   bool
	IPhone    bool
	Desktop   bool
}
