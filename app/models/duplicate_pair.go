package models

// DuplicatePair hai kho nghi trùng nhau trong catalog
type DuplicatePair struct {
	FirstID    string  `json:"firstId"`
	FirstName  string  `json:"firstName"`
	SecondID   string  `json:"secondId"`
	SecondName string  `json:"secondName"`
	Similarity float64 `json:"similarity"`
}
