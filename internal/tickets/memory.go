package tickets

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"eventbook/internal/models"
)

// MemoryStore is an in-process Store with the same status-transition
// guarantees as the gorm implementation.
type MemoryStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*models.Ticket

	// FailCreate makes the next Create return this error; used to
	// exercise orchestrator abort paths.
	FailCreate error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[uuid.UUID]*models.Ticket)}
}

func (s *MemoryStore) Create(ctx context.Context, eventID, userID uuid.UUID, count int) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCreate != nil {
		err := s.FailCreate
		s.FailCreate = nil
		return nil, err
	}
	ticket := &models.Ticket{
		ID:          uuid.New(),
		EventID:     eventID,
		UserID:      userID,
		TicketCount: count,
		Status:      models.TicketBooked,
		BookingDate: time.Now().UTC(),
	}
	s.records[ticket.ID] = ticket
	return copyTicket(ticket), nil
}

func (s *MemoryStore) GetByID(ctx context.Context, ticketID uuid.UUID) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.records[ticketID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyTicket(ticket), nil
}

func (s *MemoryStore) Cancel(ctx context.Context, ticketID uuid.UUID) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.records[ticketID]
	if !ok {
		return nil, ErrNotFound
	}
	if ticket.Status == models.TicketCancelled {
		return nil, ErrAlreadyCancelled
	}
	now := time.Now().UTC()
	ticket.Status = models.TicketCancelled
	ticket.CancelingDate = &now
	return copyTicket(ticket), nil
}

func (s *MemoryStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []models.Ticket
	for _, ticket := range s.records {
		if ticket.UserID == userID {
			list = append(list, *copyTicket(ticket))
		}
	}
	return list, nil
}

func (s *MemoryStore) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []models.Ticket
	for _, ticket := range s.records {
		if ticket.EventID == eventID {
			list = append(list, *copyTicket(ticket))
		}
	}
	return list, nil
}

func copyTicket(t *models.Ticket) *models.Ticket {
	clone := *t
	if t.CancelingDate != nil {
		date := *t.CancelingDate
		clone.CancelingDate = &date
	}
	return &clone
}
