package store

import (
	"sort"
	"sync"

	"github.com/pradhanmausumi/zudio-franchise/models"
)

// EnquiryStore holds franchise enquiries. Records are write-once; there is
// no lifecycle to manage.
type EnquiryStore struct {
	mu   sync.RWMutex
	byID map[string]models.Enquiry
}

func NewEnquiryStore() *EnquiryStore {
	return &EnquiryStore{byID: make(map[string]models.Enquiry)}
}

func (s *EnquiryStore) Put(e models.Enquiry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[e.EnquiryID] = e
}

func (s *EnquiryStore) Get(enquiryID string) (models.Enquiry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byID[enquiryID]
	return e, ok
}

// All returns every enquiry, newest first.
func (s *EnquiryStore) All() []models.Enquiry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	enquiries := make([]models.Enquiry, 0, len(s.byID))
	for _, e := range s.byID {
		enquiries = append(enquiries, e)
	}
	sort.Slice(enquiries, func(i, j int) bool {
		return enquiries[i].ReceivedAt.After(enquiries[j].ReceivedAt)
	})
	return enquiries
}
