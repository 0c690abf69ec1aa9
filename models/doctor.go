package models

type Doctor struct {
	Account    `bson:",inline"`
	Speciality string   `json:"speciality,omitempty" bson:"speciality,omitempty"`
	Degree     string   `json:"degree,omitempty" bson:"degree,omitempty"`
	Experience string   `json:"experience,omitempty" bson:"experience,omitempty"`
	About      string   `json:"about,omitempty" bson:"about,omitempty"`
	Fees       float64  `json:"fees" bson:"fees"`
	Available  bool     `json:"available" bson:"available"`
	Address    *Address `json:"address,omitempty" bson:"address,omitempty"`
}

// PublicDoctor is the directory view of a doctor, without contact details.
type PublicDoctor struct {
	ID         string  `json:"_id"`
	Name       string  `json:"name"`
	Image      string  `json:"image,omitempty"`
	Speciality string  `json:"speciality,omitempty"`
	Degree     string  `json:"degree,omitempty"`
	Experience string  `json:"experience,omitempty"`
	About      string  `json:"about,omitempty"`
	Fees       float64 `json:"fees"`
	Available  bool    `json:"available"`
}

func (d *Doctor) Public() PublicDoctor {
	return PublicDoctor{
		ID:         d.ID.Hex(),
		Name:       d.Name,
		Image:      d.Image,
		Speciality: d.Speciality,
		Degree:     d.Degree,
		Experience: d.Experience,
		About:      d.About,
		Fees:       d.Fees,
		Available:  d.Available,
	}
}

// DoctorProfileUpdate only sets the fields that are non nil. MarkComplete flips
// profileStatus, which the doctor's own edit does and the admin's edit does not.
type DoctorProfileUpdate struct {
	Name         *string
	Speciality   *string
	Degree       *string
	Experience   *string
	About        *string
	Fees         *float64
	Available    *bool
	Image        *string
	MarkComplete bool
}
