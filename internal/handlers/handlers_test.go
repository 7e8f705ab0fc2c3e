package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"certificate-service/internal/lookup"
	"certificate-service/internal/models"
	"certificate-service/internal/render"
	"certificate-service/internal/ticket"
)

type stubSender struct {
	to         string
	subject    string
	pdf        []byte
	qr         []byte
	bookingRef string
	err        error
}

func (s *stubSender) SendTicket(_ context.Context, to, subject, _ string, pdf, qrPNG []byte, bookingRef string) (string, error) {
	s.to = to
	s.subject = subject
	s.pdf = pdf
	s.qr = qrPNG
	s.bookingRef = bookingRef
	if s.err != nil {
		return "", s.err
	}
	return "msg-1", nil
}

func newTestApp(t *testing.T, sender TicketSender) *fiber.App {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/certificates/get", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		switch req["id"] {
		case 404:
			json.NewEncoder(w).Encode([]models.Certificate{})
		case 500:
			w.WriteHeader(http.StatusInternalServerError)
		default:
			json.NewEncoder(w).Encode([]models.Certificate{{
				ID:        req["id"],
				ChildName: "Aanya",
				CertificateData: map[string]any{
					"event_name":  "Baby Crawling Finals",
					"achievement": "1st Place",
				},
			}})
		}
	})
	mux.HandleFunc("/certificate-templates/get", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req["id"] == 500 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode([]models.CertificateTemplate{{
			ID:               req["id"],
			Type:             "winner",
			PaperSize:        "a4",
			Orientation:      "landscape",
			AppreciationText: "For achieving {achievement} in {event_name}.",
		}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	h := New(
		lookup.New(srv.URL, time.Minute, time.Minute),
		render.NewComposer(""),
		ticket.NewComposer("www.nibog.in"),
		sender,
		zap.NewNop(),
	)
	app := fiber.New()
	h.Register(app)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	return resp
}

func TestRenderCertificateSuccess(t *testing.T) {
	app := newTestApp(t, &stubSender{})

	resp := postJSON(t, app, "/api/certificate/render", models.RenderCertificateRequest{
		CertificateID: 1,
		TemplateID:    1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out models.RenderCertificateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 1, out.CertificateID)
	assert.Equal(t, 1, out.TemplateID)
	assert.Contains(t, out.HTML, "Aanya")
	assert.Contains(t, out.HTML, "For achieving 1st Place in Baby Crawling Finals.")
}

func TestRenderCertificatePDFFormat(t *testing.T) {
	app := newTestApp(t, &stubSender{})

	resp := postJSON(t, app, "/api/certificate/render", models.RenderCertificateRequest{
		CertificateID: 1,
		TemplateID:    1,
		Format:        "pdf",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NotEmpty(t, body)
	assert.Equal(t, "%PDF", string(body[:4]))
}

func TestRenderCertificateMissingIDs(t *testing.T) {
	app := newTestApp(t, &stubSender{})

	resp := postJSON(t, app, "/api/certificate/render", fiber.Map{"certificate_id": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, app, "/api/certificate/render", fiber.Map{"template_id": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRenderCertificateNotFound(t *testing.T) {
	app := newTestApp(t, &stubSender{})

	resp := postJSON(t, app, "/api/certificate/render", models.RenderCertificateRequest{
		CertificateID: 404,
		TemplateID:    1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRenderCertificateLookupFailure(t *testing.T) {
	app := newTestApp(t, &stubSender{})

	resp := postJSON(t, app, "/api/certificate/render", models.RenderCertificateRequest{
		CertificateID: 500,
		TemplateID:    1,
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestRenderCertificateTemplateFailure(t *testing.T) {
	app := newTestApp(t, &stubSender{})

	resp := postJSON(t, app, "/api/certificate/render", models.RenderCertificateRequest{
		CertificateID: 1,
		TemplateID:    500,
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestRenderCertificateBatch(t *testing.T) {
	app := newTestApp(t, &stubSender{})

	resp := postJSON(t, app, "/api/certificate/render/batch", models.BatchRenderRequest{
		CertificateIDs: []int{1, 2, 404},
		TemplateID:     1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out models.BatchRenderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.False(t, out.Success, "one certificate is missing")
	assert.Equal(t, 3, out.Total)

	byID := map[int]models.RenderResult{}
	for _, r := range out.Results {
		byID[r.CertificateID] = r
	}
	assert.True(t, byID[1].Success)
	assert.True(t, byID[2].Success)
	assert.False(t, byID[404].Success)
	assert.NotEmpty(t, byID[404].Error)
}

func TestEmailTicketAlwaysAttachesSomething(t *testing.T) {
	sender := &stubSender{}
	app := newTestApp(t, sender)

	// No ticket rows and no QR at all: composition degrades, the send
	// still happens with a placeholder PDF.
	resp := postJSON(t, app, "/api/ticket/email", models.TicketEmailRequest{
		To:         "parent@example.com",
		Subject:    "Your NIBOG tickets",
		HTML:       "<p>See attachment</p>",
		BookingRef: "PPT260831000001",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out models.TicketEmailResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.Success)
	assert.Equal(t, "msg-1", out.MessageID)
	assert.Contains(t, out.DefaultedFields, "ticket_details")

	assert.Equal(t, "parent@example.com", sender.to)
	assert.Equal(t, "PPT260831000001", sender.bookingRef)
	require.NotEmpty(t, sender.pdf)
	assert.Equal(t, "%PDF", string(sender.pdf[:4]))
}

func TestEmailTicketFullBooking(t *testing.T) {
	sender := &stubSender{}
	app := newTestApp(t, sender)

	resp := postJSON(t, app, "/api/ticket/email", models.TicketEmailRequest{
		To:         "parent@example.com",
		Subject:    "Your NIBOG tickets",
		BookingRef: "PPT260831000001",
		Tickets: []models.TicketDetail{{
			BookingID:  8101,
			EventTitle: "NIBOG Hyderabad 2026",
			EventDate:  "2026-03-14",
			ChildName:  "Aanya",
			GameName:   "Baby Crawling",
			SlotTime:   "10:00 AM",
			Price:      799,
			VenueName:  "Indoor Stadium",
		}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out models.TicketEmailResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.Success)
	assert.NotContains(t, out.DefaultedFields, "ticket_details")
}

func TestEmailTicketValidation(t *testing.T) {
	app := newTestApp(t, &stubSender{})

	resp := postJSON(t, app, "/api/ticket/email", fiber.Map{"subject": "hi"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, app, "/api/ticket/email", fiber.Map{"to": "not-an-email", "subject": "hi"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthAndCacheEndpoints(t *testing.T) {
	app := newTestApp(t, &stubSender{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/cache/stats", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, app, "/api/cache/clear", fiber.Map{})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
