package models

type DoctorStats struct {
	Earnings      float64 `json:"earnings" bson:"earnings"`
	ActiveChats   int64   `json:"activeChats" bson:"activeChats"`
	TotalPatients int64   `json:"totalPatients" bson:"totalPatients"`
}

type DoctorDashboard struct {
	DoctorStats `bson:",inline"`
	LatestChats []Chat `json:"latestChats"`
}

type AdminDashboard struct {
	Doctors             int64  `json:"doctors"`
	Patients            int64  `json:"patients"`
	Consultations       int64  `json:"consultations"`
	LatestConsultations []Chat `json:"latestConsultations"`
}
