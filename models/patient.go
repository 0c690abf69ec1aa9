package models

type Patient struct {
	Account `bson:",inline"`
	Phone   string   `json:"phone,omitempty" bson:"phone,omitempty"`
	Address *Address `json:"address,omitempty" bson:"address,omitempty"`
	DOB     string   `json:"dob,omitempty" bson:"dob,omitempty"`
	Gender  string   `json:"gender,omitempty" bson:"gender,omitempty"`
}

type PatientProfileUpdate struct {
	Name    string
	Phone   string
	DOB     string
	Gender  string
	Address *Address
	Image   string
}
