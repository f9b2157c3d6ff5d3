package notifier

import (
	"context"
	"sync"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// MemoryReceiptStore keeps receipts for the life of the process. Used with
// the logging sender when no database-backed store is wanted.
type MemoryReceiptStore struct {
	mu       sync.Mutex
	receipts map[string]ports.NoticeReceipt
}

func NewMemoryReceiptStore() *MemoryReceiptStore {
	return &MemoryReceiptStore{receipts: make(map[string]ports.NoticeReceipt)}
}

func (s *MemoryReceiptStore) key(runID kernel.UUID, recipientKey string) string {
	return runID.String() + "/" + recipientKey
}

func (s *MemoryReceiptStore) Claim(
	_ context.Context,
	runID kernel.UUID,
	recipientKey string,
	_ string,
) (ports.NoticeReceipt, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := s.key(runID, recipientKey)
	if existing, ok := s.receipts[k]; ok {
		return existing, false, nil
	}
	s.receipts[k] = ports.NoticeReceipt{Status: ports.ReceiptPending}
	return s.receipts[k], true, nil
}

func (s *MemoryReceiptStore) MarkSent(_ context.Context, runID kernel.UUID, recipientKey string, reference string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipts[s.key(runID, recipientKey)] = ports.NoticeReceipt{Status: ports.ReceiptSent, Reference: reference}
	return nil
}

func (s *MemoryReceiptStore) Release(_ context.Context, runID kernel.UUID, recipientKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := s.key(runID, recipientKey)
	if r, ok := s.receipts[k]; ok && r.Status == ports.ReceiptPending {
		delete(s.receipts, k)
	}
	return nil
}
