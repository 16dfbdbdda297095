package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"vestisen/internal/services"
)

// CreateAnnonce submits a new listing. Credits are deducted immediately and
// the listing waits for moderation.
func CreateAnnonce(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if !user.CanSell() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Seuls les vendeurs peuvent publier des annonces"})
	}

	req := new(services.AnnonceCreateRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	annonce, err := annonceService.Create(req, user)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Annonce créée, en attente de validation",
		"annonce": annonce,
	})
}

// SearchAnnonces lists approved annonces with filters, geo radius and paging.
func SearchAnnonces(c *fiber.Ctx) error {
	filter := new(services.AnnonceFilter)
	if err := c.QueryParser(filter); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid query parameters"})
	}

	annonces, total, err := annonceService.Search(filter)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"annonces": annonces,
		"total":    total,
		"page":     filter.Page,
	})
}

// GetAnnonce returns one approved annonce and counts the view.
func GetAnnonce(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	annonce, err := annonceService.GetPublic(id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"annonce": annonce})
}

// ContactAnnonce counts a contact click on an approved annonce.
func ContactAnnonce(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := annonceService.IncrementContact(id); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Contact enregistré"})
}

// TopAnnonces returns the best-exposed annonces for a publication type.
func TopAnnonces(c *fiber.Ctx) error {
	typeName := c.Query("type", "Top Pub")
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	annonces, err := annonceService.Top(typeName, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"annonces": annonces})
}

// MostViewedAnnonces returns approved annonces ordered by view count.
func MostViewedAnnonces(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	annonces, err := annonceService.TopViewed(limit)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"annonces": annonces})
}

// MyAnnonces lists the authenticated seller's annonces in every status.
func MyAnnonces(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	annonces, err := annonceService.MyAnnonces(user.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"annonces": annonces})
}

// MyPurchases lists annonces the authenticated user bought.
func MyPurchases(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	annonces, err := annonceService.MyPurchases(user.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"annonces": annonces})
}

// BuyAnnonce marks an annonce sold to the authenticated buyer.
func BuyAnnonce(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	annonce, err := annonceService.Buy(id, user)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Achat enregistré",
		"annonce": annonce,
	})
}

// UploadAnnoncePhotos stores multipart images for the seller's annonce.
func UploadAnnoncePhotos(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid multipart form"})
	}
	files := form.File["images"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Aucune image fournie"})
	}

	annonce, err := annonceService.AddPhotos(id, user, files)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Images ajoutées",
		"annonce": annonce,
	})
}
