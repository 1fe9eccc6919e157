package model

// SelectOption is one entry of a selection control.
type SelectOption struct {
	Value    int    `json:"value"`
	Text     string `json:"text"`
	Selected bool   `json:"selected"`
}

// SelectList is a selection control with an optional pre-selected value.
type SelectList struct {
	Items    []SelectOption `json:"items"`
	Selected *int           `json:"selected,omitempty"`
}
