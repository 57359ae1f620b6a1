package services

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nexcard/backend/internal/models"
)

const scannedCollection = "recentlyScannedCards"

// FirestoreScannedService keeps one wallet document per viewer
// (doc ID = uid). The whole read-modify-write runs inside a transaction so
// concurrent scans by one user cannot lose updates.
type FirestoreScannedService struct {
	client     *firestore.Client
	scannedCol *firestore.CollectionRef
}

type scannedDoc struct {
	ScannedCards []models.ScannedCard `firestore:"scannedCards"`
}

func NewFirestoreScannedService(client *firestore.Client) *FirestoreScannedService {
	return &FirestoreScannedService{
		client:     client,
		scannedCol: client.Collection(scannedCollection),
	}
}

func (s *FirestoreScannedService) Add(ctx context.Context, uid, cardLink string, maxLimit int) ([]models.ScannedCard, error) {
	ref := s.scannedCol.Doc(uid)

	var result []models.ScannedCard
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := readScannedDoc(tx, ref)
		if err != nil {
			return err
		}

		doc.ScannedCards = appendScan(doc.ScannedCards, cardLink, maxLimit, time.Now().UTC())
		result = doc.ScannedCards
		return tx.Set(ref, doc)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *FirestoreScannedService) Get(ctx context.Context, uid string) ([]models.ScannedCard, error) {
	snap, err := s.scannedCol.Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return []models.ScannedCard{}, nil
		}
		return nil, err
	}

	var doc scannedDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}
	if doc.ScannedCards == nil {
		doc.ScannedCards = []models.ScannedCard{}
	}
	return doc.ScannedCards, nil
}

func (s *FirestoreScannedService) Remove(ctx context.Context, uid, cardLink string) error {
	ref := s.scannedCol.Doc(uid)

	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := readScannedDoc(tx, ref)
		if err != nil {
			return err
		}

		filtered, removed := removeScan(doc.ScannedCards, cardLink)
		if !removed {
			return ErrScanNotFound
		}
		doc.ScannedCards = filtered
		return tx.Set(ref, doc)
	})
}

func readScannedDoc(tx *firestore.Transaction, ref *firestore.DocumentRef) (*scannedDoc, error) {
	doc := &scannedDoc{ScannedCards: []models.ScannedCard{}}

	snap, err := tx.Get(ref)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return doc, nil
		}
		return nil, err
	}
	if err := snap.DataTo(doc); err != nil {
		return nil, err
	}
	if doc.ScannedCards == nil {
		doc.ScannedCards = []models.ScannedCard{}
	}
	return doc, nil
}
