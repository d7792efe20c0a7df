package domain

import "time"

// Transfer is a money movement between two canonical person identifiers.
// Amount is positive by construction; direction is encoded by the
// sender/recipient roles, not by sign.
type Transfer struct {
	TransferID  int
	SenderID    int
	RecipientID int
	Amount      float64
	Date        time.Time
}
