package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"gigstage/internal/domain/entity"
	"gigstage/internal/domain/repository"
	"gigstage/pkg/errors"
)

type firestoreLedgerRepository struct {
	client *firestore.Client
}

func NewFirestoreLedgerRepository(client *firestore.Client) repository.LedgerRepository {
	return &firestoreLedgerRepository{
		client: client,
	}
}

// Create appends one entry. There is no update or delete path.
func (r *firestoreLedgerRepository) Create(ctx context.Context, entry *entity.LedgerEntry) error {
	_, err := r.client.Collection("ledger_entries").Doc(entry.ID).Create(ctx, entry)
	if err != nil {
		return errors.Internal("Failed to append ledger entry", err)
	}
	return nil
}

func (r *firestoreLedgerRepository) ListByBookingID(ctx context.Context, bookingID string) ([]*entity.LedgerEntry, error) {
	query := r.client.Collection("ledger_entries").
		Where("bookingId", "==", bookingID).
		OrderBy("createdAt", firestore.Asc)

	iter := query.Documents(ctx)
	var entries []*entity.LedgerEntry

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list ledger entries", err)
		}

		var entry entity.LedgerEntry
		if err := doc.DataTo(&entry); err != nil {
			return nil, errors.Internal("Failed to parse ledger entry", err)
		}
		entries = append(entries, &entry)
	}

	return entries, nil
}

func (r *firestoreLedgerRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.LedgerEntry, int64, error) {
	var entries []*entity.LedgerEntry
	seen := make(map[string]bool)

	// A user appears as payer or payee; union the two queries.
	for _, field := range []string{"payerId", "payeeId"} {
		query := r.client.Collection("ledger_entries").Where(field, "==", userID)
		iter := query.Documents(ctx)

		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return nil, 0, errors.Internal("Failed to list ledger entries", err)
			}

			if seen[doc.Ref.ID] {
				continue
			}
			seen[doc.Ref.ID] = true

			var entry entity.LedgerEntry
			if err := doc.DataTo(&entry); err != nil {
				return nil, 0, errors.Internal("Failed to parse ledger entry", err)
			}
			entries = append(entries, &entry)
		}
	}

	total := int64(len(entries))

	if offset > 0 {
		if offset >= len(entries) {
			return nil, total, nil
		}
		entries = entries[offset:]
	}
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}

	return entries, total, nil
}
