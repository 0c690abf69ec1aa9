// Package memory holds in-process implementations of the repositories with the
// same filtering rules as the mongo ones. They back the service and handler tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"HealthLife/models"
	"HealthLife/repository"
	"HealthLife/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type accounts[T any] struct {
	mu      sync.Mutex
	items   map[primitive.ObjectID]*T
	account func(*T) *models.Account
	create  func(models.Account) *T
}

func (s *accounts[T]) byEmail(email string) *T {
	for _, item := range s.items {
		if s.account(item).Email == email {
			return item
		}
	}
	return nil
}

// Account returns a copy of the account stored under email, or nil.
func (s *accounts[T]) Account(email string) *models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := s.byEmail(email)
	if item == nil {
		return nil
	}
	acc := *s.account(item)
	return &acc
}

func (s *accounts[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *accounts[T]) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	acc := s.Account(email)
	if acc == nil {
		return nil, repository.ErrNotFound
	}
	return acc, nil
}

func (s *accounts[T]) UpsertPending(_ context.Context, p models.PendingSignup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := s.byEmail(p.Email)
	if item != nil && s.account(item).IsVerified {
		return repository.ErrDuplicate
	}
	if item == nil {
		item = s.create(models.Account{ID: primitive.NewObjectID(), Email: p.Email, CreatedAt: time.Now()})
		s.items[s.account(item).ID] = item
	}
	acc := s.account(item)
	expires := p.OTPExpires
	acc.Name, acc.Password, acc.OTP, acc.OTPExpires = p.Name, p.PasswordHash, p.OTPHash, &expires
	acc.UpdatedAt = time.Now()
	return nil
}

func (s *accounts[T]) MarkVerified(_ context.Context, id primitive.ObjectID, otpHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok || s.account(item).OTP != otpHash || s.account(item).IsVerified {
		return repository.ErrNotFound
	}
	acc := s.account(item)
	acc.IsVerified, acc.OTP, acc.OTPExpires = true, "", nil
	return nil
}

func (s *accounts[T]) SetResetOTP(_ context.Context, id primitive.ObjectID, otpHash string, expires time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item, ok := s.items[id]; ok {
		acc := s.account(item)
		acc.PasswordResetOTP, acc.PasswordResetExpires = otpHash, &expires
	}
	return nil
}

func (s *accounts[T]) ClearResetOTP(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item, ok := s.items[id]; ok {
		acc := s.account(item)
		acc.PasswordResetOTP, acc.PasswordResetExpires = "", nil
	}
	return nil
}

func (s *accounts[T]) ResetPassword(_ context.Context, id primitive.ObjectID, otpHash, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok || s.account(item).PasswordResetOTP != otpHash {
		return repository.ErrNotFound
	}
	acc := s.account(item)
	acc.Password, acc.PasswordResetOTP, acc.PasswordResetExpires = passwordHash, "", nil
	return nil
}

func (s *accounts[T]) Exists(_ context.Context, id primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[id]
	return ok, nil
}

func (s *accounts[T]) Count(context.Context) (int64, error) {
	return int64(s.Len()), nil
}

type Patients struct {
	*accounts[models.Patient]
}

func NewPatients() *Patients {
	return &Patients{&accounts[models.Patient]{
		items:   make(map[primitive.ObjectID]*models.Patient),
		account: func(p *models.Patient) *models.Account { return &p.Account },
		create:  func(a models.Account) *models.Patient { return &models.Patient{Account: a} },
	}}
}

func (s *Patients) Add(p models.Patient) *models.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	s.items[p.ID] = &p
	c := p
	return &c
}

func (s *Patients) FindByID(_ context.Context, id primitive.ObjectID) (*models.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (s *Patients) UpdateProfile(_ context.Context, id primitive.ObjectID, u models.PatientProfileUpdate) (*models.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Name, p.Phone, p.DOB, p.Gender = u.Name, u.Phone, u.DOB, u.Gender
	if u.Address != nil {
		p.Address = u.Address
	}
	if u.Image != "" {
		p.Image = u.Image
	}
	p.UpdatedAt = time.Now()
	c := *p
	return &c, nil
}

type Doctors struct {
	*accounts[models.Doctor]
	listCalls int
}

func NewDoctors() *Doctors {
	return &Doctors{accounts: &accounts[models.Doctor]{
		items:   make(map[primitive.ObjectID]*models.Doctor),
		account: func(d *models.Doctor) *models.Account { return &d.Account },
		create: func(a models.Account) *models.Doctor {
			a.ProfileStatus = util.PROFILE_INCOMPLETE
			return &models.Doctor{Account: a, Available: true}
		},
	}}
}

func (s *Doctors) Add(d models.Doctor) *models.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	s.items[d.ID] = &d
	c := d
	return &c
}

// ListCalls counts how often List reached the store.
func (s *Doctors) ListCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

func (s *Doctors) FindByID(_ context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *d
	return &c, nil
}

func (s *Doctors) List(context.Context) ([]models.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	out := []models.Doctor{}
	for _, d := range s.items {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Doctors) Create(_ context.Context, d *models.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byEmail(d.Email) != nil {
		return repository.ErrDuplicate
	}
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	d.CreatedAt, d.UpdatedAt = time.Now(), time.Now()
	c := *d
	s.items[d.ID] = &c
	return nil
}

func (s *Doctors) UpdateProfile(_ context.Context, id primitive.ObjectID, u models.DoctorProfileUpdate) (*models.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for field, v := range map[*string]*string{
		&d.Name: u.Name, &d.Speciality: u.Speciality, &d.Degree: u.Degree,
		&d.Experience: u.Experience, &d.About: u.About,
	} {
		if v != nil {
			*field = *v
		}
	}
	if u.Fees != nil {
		d.Fees = *u.Fees
	}
	if u.Available != nil {
		d.Available = *u.Available
	}
	if u.Image != nil && *u.Image != "" {
		d.Image = *u.Image
	}
	if u.MarkComplete {
		d.ProfileStatus = util.PROFILE_COMPLETE
	}
	d.UpdatedAt = time.Now()
	c := *d
	return &c, nil
}

func (s *Doctors) ToggleAvailability(_ context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	d.Available = !d.Available
	c := *d
	return &c, nil
}

func (s *Doctors) summary(id primitive.ObjectID) *models.PartySummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.items[id]
	if !ok {
		return nil
	}
	return &models.PartySummary{ID: d.ID, Name: d.Name, Speciality: d.Speciality, Image: d.Image}
}

func (s *Patients) summary(id primitive.ObjectID) *models.PartySummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return nil
	}
	return &models.PartySummary{ID: p.ID, Name: p.Name, Email: p.Email, Image: p.Image}
}

// Chats keeps chats in insertion order. Summaries are joined from the given
// account stores when they are set.
type Chats struct {
	mu       sync.Mutex
	chats    []*models.Chat
	patients *Patients
	doctors  *Doctors
}

func NewChats(patients *Patients, doctors *Doctors) *Chats {
	return &Chats{patients: patients, doctors: doctors}
}

func clone(c *models.Chat) *models.Chat {
	out := *c
	out.Messages = append([]models.Message{}, c.Messages...)
	return &out
}

func owns(c *models.Chat, o repository.Owner) bool {
	switch o.Field {
	case "userId":
		return c.UserID == o.ID
	case "doctorId":
		return c.DoctorID == o.ID
	}
	return true
}

func (s *Chats) populate(c *models.Chat, pop repository.Populate) {
	if pop.User && s.patients != nil {
		c.User = s.patients.summary(c.UserID)
	}
	if pop.Doctor && s.doctors != nil {
		c.Doctor = s.doctors.summary(c.DoctorID)
	}
}

func (s *Chats) All() []models.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Chat, 0, len(s.chats))
	for _, c := range s.chats {
		out = append(out, *clone(c))
	}
	return out
}

func (s *Chats) Create(_ context.Context, chat *models.Chat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if chat.ID.IsZero() {
		chat.ID = primitive.NewObjectID()
	}
	// strictly increasing so ordering by time is deterministic
	now := time.Now()
	if n := len(s.chats); n > 0 && !now.After(s.chats[n-1].CreatedAt) {
		now = s.chats[n-1].CreatedAt.Add(time.Millisecond)
	}
	chat.CreatedAt, chat.UpdatedAt = now, now
	if chat.Messages == nil {
		chat.Messages = []models.Message{}
	}
	s.chats = append(s.chats, clone(chat))
	return nil
}

func (s *Chats) FindOwned(_ context.Context, chatID primitive.ObjectID, owner repository.Owner, pop repository.Populate) (*models.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.chats {
		if c.ID == chatID && owns(c, owner) {
			out := clone(c)
			s.populate(out, pop)
			return out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Chats) List(_ context.Context, owner repository.Owner, sortField string, limit int64, pop repository.Populate) ([]models.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Chat{}
	for _, c := range s.chats {
		if !owns(c, owner) || (owner.Field != "" && !c.PaymentStatus) {
			continue
		}
		cp := clone(c)
		s.populate(cp, pop)
		out = append(out, *cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if sortField == "createdAt" {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Chats) AppendMessage(_ context.Context, chatID primitive.ObjectID, owner repository.Owner, msg models.Message, activeAt *time.Time) (*models.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.chats {
		if c.ID != chatID || !owns(c, owner) {
			continue
		}
		if activeAt != nil && (!c.PaymentStatus || !c.ExpiresAt.After(*activeAt)) {
			return nil, repository.ErrNotFound
		}
		c.Messages = append(c.Messages, msg)
		c.UpdatedAt = msg.CreatedAt
		return clone(c), nil
	}
	return nil, repository.ErrNotFound
}

func (s *Chats) DoctorStats(_ context.Context, doctorID primitive.ObjectID, now time.Time) (models.DoctorStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stats models.DoctorStats
	patients := map[primitive.ObjectID]bool{}
	for _, c := range s.chats {
		if c.DoctorID != doctorID || !c.PaymentStatus {
			continue
		}
		stats.Earnings += c.Amount
		if c.ExpiresAt.After(now) {
			stats.ActiveChats++
		}
		patients[c.UserID] = true
	}
	stats.TotalPatients = int64(len(patients))
	return stats, nil
}

func (s *Chats) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.chats)), nil
}

func (s *Chats) ListExpiredBetween(_ context.Context, from, to time.Time) ([]models.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Chat{}
	for _, c := range s.chats {
		if c.ExpiresAt.After(from) && !c.ExpiresAt.After(to) {
			out = append(out, *clone(c))
		}
	}
	return out, nil
}
