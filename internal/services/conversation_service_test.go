package services

import (
	"errors"
	"testing"

	"vestisen/internal/models"
)

func TestConversationGetOrCreateIsStable(t *testing.T) {
	db := setupTestDB(t)
	annonces := newAnnonceService(db)
	svc := NewConversationService(db)
	seedTarif(t, db, "Standard", 5, 0)
	category := seedCategory(t, db, "Femmes")
	seller := seedUser(t, db, "seller@test.sn", models.RoleVendeur, 100)
	buyer := seedUser(t, db, "buyer@test.sn", models.RoleUser, 0)

	annonce := seedAnnonce(t, db, annonces, seller, category.ID, "Standard")

	if _, err := svc.GetOrCreate(annonce.ID, seller); !errors.Is(err, ErrForbidden) {
		t.Fatalf("seller opening own thread: expected ErrForbidden, got %v", err)
	}

	first, err := svc.GetOrCreate(annonce.ID, buyer)
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	second, err := svc.GetOrCreate(annonce.ID, buyer)
	if err != nil {
		t.Fatalf("get or create again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("repeated contact must reuse the thread")
	}
	if first.SellerID != seller.ID || first.BuyerID != buyer.ID {
		t.Fatalf("participants wrong: seller=%d buyer=%d", first.SellerID, first.BuyerID)
	}
}

func TestConversationParticipantGate(t *testing.T) {
	db := setupTestDB(t)
	annonces := newAnnonceService(db)
	svc := NewConversationService(db)
	seedTarif(t, db, "Standard", 5, 0)
	category := seedCategory(t, db, "Femmes")
	seller := seedUser(t, db, "seller@test.sn", models.RoleVendeur, 100)
	buyer := seedUser(t, db, "buyer@test.sn", models.RoleUser, 0)
	stranger := seedUser(t, db, "stranger@test.sn", models.RoleUser, 0)

	annonce := seedAnnonce(t, db, annonces, seller, category.ID, "Standard")
	conv, err := svc.GetOrCreate(annonce.ID, buyer)
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}

	if _, err := svc.Get(conv.ID, stranger); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger read: expected ErrForbidden, got %v", err)
	}
	req := &MessageCreateRequest{ConversationID: conv.ID, Content: "Bonjour"}
	if _, err := svc.SendMessage(req, stranger); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger write: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(conv.ID, seller); err != nil {
		t.Fatalf("seller read: %v", err)
	}
}

func TestConversationMessagesInSendOrder(t *testing.T) {
	db := setupTestDB(t)
	annonces := newAnnonceService(db)
	svc := NewConversationService(db)
	seedTarif(t, db, "Standard", 5, 0)
	category := seedCategory(t, db, "Femmes")
	seller := seedUser(t, db, "seller@test.sn", models.RoleVendeur, 100)
	buyer := seedUser(t, db, "buyer@test.sn", models.RoleUser, 0)

	annonce := seedAnnonce(t, db, annonces, seller, category.ID, "Standard")
	conv, err := svc.GetOrCreate(annonce.ID, buyer)
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}

	contents := []string{"Bonjour, c'est disponible ?", "Oui, toujours.", "Je peux passer demain"}
	senders := []*models.User{buyer, seller, buyer}
	for i, content := range contents {
		req := &MessageCreateRequest{ConversationID: conv.ID, Content: content}
		if _, err := svc.SendMessage(req, senders[i]); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}

	msgs, err := svc.Messages(conv.ID)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	for i, m := range msgs {
		if m.Content != contents[i] {
			t.Fatalf("message %d out of order: %q", i, m.Content)
		}
	}

	mine, err := svc.Mine(seller)
	if err != nil {
		t.Fatalf("mine: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 conversation for seller, got %d", len(mine))
	}
}
