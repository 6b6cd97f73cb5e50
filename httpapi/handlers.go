package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/dmitrymomot/mailauth"
	"github.com/dmitrymomot/mailauth/pkg/logger"
	"github.com/dmitrymomot/mailauth/pkg/verifier"
)

// Handler serves the domain verification API.
type Handler struct {
	service *mailauth.Service
	store   mailauth.Store
	log     *slog.Logger
}

// NewHandler creates the API handler. A nil log discards output.
func NewHandler(service *mailauth.Service, store mailauth.Store, log *slog.Logger) *Handler {
	if log == nil {
		log = logger.NewNope()
	}
	return &Handler{service: service, store: store, log: log}
}

// Router assembles the authenticated API routes.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(h.store))

		r.Get("/domains", h.listDomains)
		r.Post("/domains", h.createDomain)
		r.Route("/domains/{domain}", func(r chi.Router) {
			r.Get("/", h.showDomain)
			r.Delete("/", h.deleteDomain)
			r.Post("/verify", h.verifyDomain)
			r.Get("/dns_records", h.dnsRecords)
			r.Post("/check_dns", h.checkDNS)
		})
	})

	return r
}

type domainResponse struct {
	ID                 uuid.UUID        `json:"id"`
	Name               string           `json:"name"`
	VerificationMethod verifier.Method  `json:"verification_method"`
	Verified           bool             `json:"verified"`
	VerifiedAt         *time.Time       `json:"verified_at,omitempty"`
	VerificationToken  string           `json:"verification_token,omitempty"`
	DKIMIdentifier     string           `json:"dkim_identifier"`
	DNS                *dnsStatusDetail `json:"dns,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
}

type dnsStatusDetail struct {
	SPFStatus        string     `json:"spf_status"`
	SPFError         string     `json:"spf_error,omitempty"`
	DKIMStatus       string     `json:"dkim_status"`
	DKIMError        string     `json:"dkim_error,omitempty"`
	ReturnPathStatus string     `json:"return_path_status"`
	ReturnPathError  string     `json:"return_path_error,omitempty"`
	MXStatus         string     `json:"mx_status"`
	MXError          string     `json:"mx_error,omitempty"`
	CheckedAt        *time.Time `json:"checked_at,omitempty"`
}

// newDomainResponse renders a domain for API output. The verification token
// is exposed only while the domain is unverified: it is the value the owner
// must publish or the code they will receive by mail.
func newDomainResponse(d *mailauth.Domain) domainResponse {
	resp := domainResponse{
		ID:                 d.ID,
		Name:               d.Name,
		VerificationMethod: d.VerificationMethod,
		Verified:           d.Verified(),
		VerifiedAt:         d.VerifiedAt,
		DKIMIdentifier:     d.DKIMSelector(),
		CreatedAt:          d.CreatedAt,
	}
	if !d.Verified() {
		resp.VerificationToken = d.VerificationToken
	}
	if d.DNSCheckedAt != nil {
		resp.DNS = &dnsStatusDetail{
			SPFStatus:        d.SPFStatus,
			SPFError:         d.SPFError,
			DKIMStatus:       d.DKIMStatus,
			DKIMError:        d.DKIMError,
			ReturnPathStatus: d.ReturnPathStatus,
			ReturnPathError:  d.ReturnPathError,
			MXStatus:         d.MXStatus,
			MXError:          d.MXError,
			CheckedAt:        d.DNSCheckedAt,
		}
	}
	return resp
}

func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (h *Handler) listDomains(w http.ResponseWriter, r *http.Request) {
	key := AuthenticatedKey(r.Context())

	domains, err := h.service.ListDomains(r.Context(), key.OrganizationID)
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]domainResponse, 0, len(domains))
	for _, d := range domains {
		out = append(out, newDomainResponse(d))
	}
	respondData(w, http.StatusOK, out)
}

func (h *Handler) createDomain(w http.ResponseWriter, r *http.Request) {
	key := AuthenticatedKey(r.Context())

	var body struct {
		Name               string `json:"name"`
		VerificationMethod string `json:"verification_method"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondBadRequest(w, "malformed request body")
		return
	}

	domain, err := h.service.CreateDomain(r.Context(), mailauth.CreateDomainParams{
		OrganizationID: key.OrganizationID,
		Name:           body.Name,
		Method:         verifier.Method(body.VerificationMethod),
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, newDomainResponse(domain))
}

func (h *Handler) showDomain(w http.ResponseWriter, r *http.Request) {
	key := AuthenticatedKey(r.Context())

	domain, err := h.service.GetDomain(r.Context(), key.OrganizationID, chi.URLParam(r, "domain"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, newDomainResponse(domain))
}

func (h *Handler) deleteDomain(w http.ResponseWriter, r *http.Request) {
	key := AuthenticatedKey(r.Context())

	if err := h.service.DeleteDomain(r.Context(), key.OrganizationID, chi.URLParam(r, "domain")); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "domain deleted")
}

// verifyDomain drives both proof paths. For DNS-method domains an empty body
// triggers the TXT lookup. For Email-method domains the body selects the
// step: email_address requests a confirmation mail, verification_code
// submits the received code.
func (h *Handler) verifyDomain(w http.ResponseWriter, r *http.Request) {
	key := AuthenticatedKey(r.Context())
	ctx := r.Context()
	name := chi.URLParam(r, "domain")

	var body struct {
		EmailAddress     string `json:"email_address"`
		VerificationCode string `json:"verification_code"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondBadRequest(w, "malformed request body")
		return
	}

	switch {
	case body.VerificationCode != "":
		// A rejected code surfaces as ErrInvalidCode, never (false, nil).
		if _, err := h.service.VerifyWithCode(ctx, key.OrganizationID, name, body.VerificationCode); err != nil {
			respondError(w, err)
			return
		}
		respondMessage(w, http.StatusOK, "domain verified")

	case body.EmailAddress != "":
		if err := h.service.SendVerificationEmail(ctx, key.OrganizationID, name, body.EmailAddress); err != nil {
			respondError(w, err)
			return
		}
		respondMessage(w, http.StatusAccepted, "verification email sent")

	default:
		ok, err := h.service.Verify(ctx, key.OrganizationID, name)
		if err != nil {
			respondError(w, err)
			return
		}
		if !ok {
			writeJSON(w, http.StatusUnprocessableEntity, response{
				Success: false,
				Error:   "verification record not found, check your DNS settings",
			})
			return
		}
		respondMessage(w, http.StatusOK, "domain verified")
	}
}

func (h *Handler) dnsRecords(w http.ResponseWriter, r *http.Request) {
	key := AuthenticatedKey(r.Context())

	report, err := h.service.DNSRecords(r.Context(), key.OrganizationID, chi.URLParam(r, "domain"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, report)
}

func (h *Handler) checkDNS(w http.ResponseWriter, r *http.Request) {
	key := AuthenticatedKey(r.Context())

	ok, snapshot, err := h.service.CheckDNS(r.Context(), key.OrganizationID, chi.URLParam(r, "domain"))
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"all_ok":      ok,
		"spf":         snapshot.SPF,
		"dkim":        snapshot.DKIM,
		"return_path": snapshot.ReturnPath,
		"mx":          snapshot.MX,
		"checked_at":  snapshot.CheckedAt,
		"summary":     snapshot.Summarize(),
	})
}
