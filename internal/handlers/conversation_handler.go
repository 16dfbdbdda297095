package handlers

import (
	"github.com/gofiber/fiber/v2"

	"vestisen/internal/services"
)

// StartConversation opens (or returns) the buyer's thread on an annonce.
func StartConversation(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	annonceID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	conversation, err := conversationService.GetOrCreate(annonceID, user)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"conversation": conversation})
}

// MyConversations lists threads where the user is buyer or seller.
func MyConversations(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	conversations, err := conversationService.Mine(user)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"conversations": conversations})
}

// GetConversation returns one thread with its messages, participants only.
func GetConversation(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	conversation, err := conversationService.Get(id, user)
	if err != nil {
		return serviceError(c, err)
	}
	messages, err := conversationService.Messages(conversation.ID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"conversation": conversation,
		"messages":     messages,
	})
}

// SendMessage appends a message to a thread the user participates in.
func SendMessage(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	req := new(services.MessageCreateRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	message, err := conversationService.SendMessage(req, user)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": message})
}
