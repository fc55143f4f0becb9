package domain

// Device is a gym station a session is started against.
type Device struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Active   bool   `json:"isActive"`
}
