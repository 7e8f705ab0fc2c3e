package handlers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"certificate-service/internal/lookup"
	"certificate-service/internal/models"
	"certificate-service/internal/render"
	"certificate-service/internal/ticket"
)

const version = "1.0.0"

// TicketSender delivers a composed ticket email. Satisfied by
// mailer.Mailer; swapped for a stub in tests.
type TicketSender interface {
	SendTicket(ctx context.Context, to, subject, html string, pdf, qrPNG []byte, bookingRef string) (string, error)
}

// Handler carries the wired collaborators for every route.
type Handler struct {
	lookup   *lookup.Client
	composer *render.Composer
	tickets  *ticket.Composer
	mail     TicketSender
	log      *zap.Logger
	validate *validator.Validate
	started  time.Time
}

func New(lk *lookup.Client, composer *render.Composer, tickets *ticket.Composer, mail TicketSender, log *zap.Logger) *Handler {
	return &Handler{
		lookup:   lk,
		composer: composer,
		tickets:  tickets,
		mail:     mail,
		log:      log,
		validate: validator.New(),
		started:  time.Now(),
	}
}

// Register mounts every route on the app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/health", h.Health)

	api := app.Group("/api")
	api.Post("/certificate/render", h.RenderCertificate)
	api.Post("/certificate/render/batch", h.RenderCertificateBatch)
	api.Post("/ticket/email", h.EmailTicket)
	api.Get("/cache/stats", h.CacheStats)
	api.Post("/cache/clear", h.ClearCache)
}

// Health handles health check requests.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(models.HealthResponse{
		Status:  "healthy",
		Version: version,
		Uptime:  time.Since(h.started).String(),
	})
}

// RenderCertificate fetches a certificate and its template, composes the
// document and returns it as HTML (default) or a binary PDF.
func (h *Handler) RenderCertificate(c *fiber.Ctx) error {
	var req models.RenderCertificateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "certificate_id and template_id are required",
		})
	}

	cert, tpl, status, err := h.fetchRecords(c.Context(), req.CertificateID, req.TemplateID)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	doc, err := h.composer.Compose(tpl, cert)
	if err != nil {
		h.log.Error("compose failed",
			zap.Int("certificate_id", req.CertificateID),
			zap.Int("template_id", req.TemplateID),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compose certificate",
		})
	}

	if req.Format == "pdf" {
		pdfBytes, err := render.RenderPDF(doc)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to render PDF",
			})
		}
		c.Set("Content-Type", "application/pdf")
		c.Set("Content-Disposition", fmt.Sprintf("inline; filename=certificate_%d.pdf", req.CertificateID))
		return c.Send(pdfBytes)
	}

	return c.JSON(models.RenderCertificateResponse{
		HTML:          doc.HTML(),
		CertificateID: req.CertificateID,
		TemplateID:    req.TemplateID,
	})
}

// fetchRecords runs both lookups and maps failures onto the documented
// statuses: 500 for certificate transport failure, 404 for an empty
// certificate result, 500 for template failure.
func (h *Handler) fetchRecords(ctx context.Context, certID, tplID int) (*models.Certificate, *models.CertificateTemplate, int, error) {
	cert, err := h.lookup.Certificate(ctx, certID)
	if err != nil {
		if errors.Is(err, lookup.ErrNotFound) {
			return nil, nil, fiber.StatusNotFound, fmt.Errorf("certificate %d not found", certID)
		}
		h.log.Error("certificate lookup failed", zap.Int("certificate_id", certID), zap.Error(err))
		return nil, nil, fiber.StatusInternalServerError, fmt.Errorf("failed to fetch certificate %d", certID)
	}

	tpl, err := h.lookup.Template(ctx, tplID)
	if err != nil {
		h.log.Error("template lookup failed", zap.Int("template_id", tplID), zap.Error(err))
		return nil, nil, fiber.StatusInternalServerError, fmt.Errorf("failed to fetch template %d", tplID)
	}
	return cert, tpl, fiber.StatusOK, nil
}

// RenderCertificateBatch renders many certificates against one template,
// bounded by a worker semaphore.
func (h *Handler) RenderCertificateBatch(c *fiber.Ctx) error {
	var req models.BatchRenderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "template_id and 1-500 certificate_ids are required",
		})
	}

	tpl, err := h.lookup.Template(c.Context(), req.TemplateID)
	if err != nil {
		h.log.Error("template lookup failed", zap.Int("template_id", req.TemplateID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to fetch template %d", req.TemplateID),
		})
	}

	ctx := c.Context()
	results := make([]models.RenderResult, len(req.CertificateIDs))
	var wg sync.WaitGroup
	sem := make(chan struct{}, 20)

	for i, id := range req.CertificateIDs {
		wg.Add(1)
		go func(idx, certID int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result := models.RenderResult{CertificateID: certID}
			cert, err := h.lookup.Certificate(ctx, certID)
			if err != nil {
				result.Error = err.Error()
			} else if html, err := h.composer.RenderHTML(tpl, cert); err != nil {
				result.Error = err.Error()
			} else {
				result.Success = true
				result.HTML = html
			}
			results[idx] = result
		}(i, id)
	}
	wg.Wait()

	successCount := 0
	for _, r := range results {
		if r.Success {
			successCount++
		}
	}

	return c.JSON(models.BatchRenderResponse{
		Success: successCount == len(results),
		Total:   len(results),
		Results: results,
	})
}

// EmailTicket composes the booking ticket PDF and emails it with the raw
// QR image attached. Ticket composition never blocks the send: a missing
// or broken ticket record degrades to a placeholder document and the email
// still goes out.
func (h *Handler) EmailTicket(c *fiber.Ctx) error {
	var req models.TicketEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "recipient and subject are required",
		})
	}

	// Only the first booking row and the first QR image feed the ticket.
	var detail *models.TicketDetail
	if len(req.Tickets) > 0 {
		detail = &req.Tickets[0]
	}
	var qrPNG []byte
	if len(req.QRImages) > 0 {
		qrPNG = req.QRImages[0]
	}

	pdfBytes, defaulted, err := h.tickets.Compose(detail, qrPNG, req.BookingRef)
	if err != nil {
		// Even the placeholder failed; the email still carries the body
		// and the QR image.
		h.log.Error("ticket compose failed", zap.String("booking_ref", req.BookingRef), zap.Error(err))
		pdfBytes = nil
	}
	if len(defaulted) > 0 {
		h.log.Warn("ticket composed with defaults",
			zap.String("booking_ref", req.BookingRef),
			zap.Strings("defaulted_fields", defaulted))
	}

	messageID, err := h.mail.SendTicket(c.Context(), req.To, req.Subject, req.HTML, pdfBytes, qrPNG, req.BookingRef)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to send ticket email",
		})
	}

	return c.JSON(models.TicketEmailResponse{
		Success:         true,
		MessageID:       messageID,
		DefaultedFields: defaulted,
	})
}

// CacheStats returns lookup cache statistics.
func (h *Handler) CacheStats(c *fiber.Ctx) error {
	return c.JSON(h.lookup.Stats())
}

// ClearCache drops all cached lookup results.
func (h *Handler) ClearCache(c *fiber.Ctx) error {
	h.lookup.Clear()
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Cache cleared",
	})
}
