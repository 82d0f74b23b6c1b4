package shared

// Address is the postal shape embedded in vendor and document records.
type Address struct {
	Street1 string `json:"street1,omitempty"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	PinCode string `json:"pinCode,omitempty"`
	Country string `json:"country,omitempty"`
	GSTIN   string `json:"gstin,omitempty"`
}

// ActivityLog is one entry of a document's activity trail.
type ActivityLog struct {
	Action      string `json:"action"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
}
