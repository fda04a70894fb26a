package httpapi

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"

	"github.com/Overland-East-Bay/household-fpl-api/internal/app/households"
	"github.com/Overland-East-Bay/household-fpl-api/internal/domain"
	platformclock "github.com/Overland-East-Bay/household-fpl-api/internal/platform/clock"
	"github.com/Overland-East-Bay/household-fpl-api/internal/platform/logging"
	"github.com/Overland-East-Bay/household-fpl-api/internal/platform/metrics"
	clockport "github.com/Overland-East-Bay/household-fpl-api/internal/ports/out/clock"
	"github.com/Overland-East-Bay/household-fpl-api/internal/ports/out/idempotency"
)

// maxBodyBytes bounds request bodies; household payloads are tiny.
const maxBodyBytes = 1 << 20

const createHouseholdRoute = "/household/"

// Server is the HTTP adapter over the households service.
type Server struct {
	Households *households.Service
	Idem       idempotency.Store
	Clock      clockport.Clock
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
}

// NewServer wires the adapter. idem may be nil to disable Idempotency-Key support;
// clk defaults to the system clock.
func NewServer(svc *households.Service, idem idempotency.Store, clk clockport.Clock) *Server {
	if clk == nil {
		clk = platformclock.NewSystemClock()
	}
	return &Server{
		Households: svc,
		Idem:       idem,
		Clock:      clk,
		Logger:     logging.Discard(),
	}
}

// CreateHouseholdResponse is returned by POST /household/.
type CreateHouseholdResponse struct {
	HouseholdID string `json:"household_id"`
}

func (s *Server) Index(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "Household API")
}

// GetSampleHousehold returns a static household documenting the schema. It does not touch the store.
func (s *Server) GetSampleHousehold(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Households.SampleHousehold())
}

func (s *Server) CreateHousehold(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	key := idempotency.Key(r.Header.Get("Idempotency-Key"))
	useIdem := key != "" && s.Idem != nil
	fp := idempotency.Fingerprint{Key: key, Method: http.MethodPost, Route: createHouseholdRoute}
	bodyHash := hashBody(body)

	if useIdem {
		rec, found, err := s.Idem.Get(r.Context(), fp)
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		if found {
			if rec.BodyHash != bodyHash {
				s.Metrics.IncRejected(codeIdempotencyKeyReused)
				writeError(w, r, http.StatusConflict, codeIdempotencyKeyReused, "Idempotency-Key was already used with a different request body", nil)
				return
			}
			w.Header().Set("Content-Type", rec.ContentType)
			w.Header().Set("Idempotent-Replayed", "true")
			w.WriteHeader(rec.StatusCode)
			_, _ = w.Write(rec.Body)
			return
		}
	}

	id, err := s.Households.CreateHousehold(r.Context(), body)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.Logger.InfoContext(r.Context(), "household created", "household_id", string(id))

	resp, err := json.Marshal(CreateHouseholdResponse{HouseholdID: string(id)})
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	resp = append(resp, '\n')

	if useIdem {
		rec := idempotency.Record{
			BodyHash:    bodyHash,
			StatusCode:  http.StatusOK,
			ContentType: "application/json",
			Body:        resp,
			CreatedAt:   s.Clock.Now(),
		}
		if err := s.Idem.Put(r.Context(), fp, rec); err != nil {
			// The record exists; a retry will simply create another one.
			s.Logger.WarnContext(r.Context(), "idempotency record not saved", "err", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(resp)
}

func (s *Server) GetHousehold(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	h, err := s.Households.GetHousehold(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) UpdateHousehold(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	h, err := s.Households.UpdateHousehold(r.Context(), id, body)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.Logger.InfoContext(r.Context(), "household updated", "household_id", string(id))
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) DeleteHousehold(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.Households.DeleteHousehold(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.Logger.InfoContext(r.Context(), "household deleted", "household_id", string(id))
	writeText(w, http.StatusOK, string(id)+" deleted")
}

// GetHouseholdFPL returns the household's income as a fraction of its poverty guideline (0.5 -> 50%).
func (s *Server) GetHouseholdFPL(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	pct, err := s.Households.HouseholdFPL(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		s.internalError(w, r, fmt.Errorf("fpl for household %s is not finite: %v", id, pct))
		return
	}
	s.Metrics.ObserveFPL(pct)
	writeJSON(w, http.StatusOK, pct)
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (domain.HouseholdID, bool) {
	id, err := householdIDFromPath(r)
	if err != nil || id == "" {
		s.Metrics.IncRejected(households.CodeNotFound)
		writeError(w, r, http.StatusBadRequest, households.CodeNotFound, "no readable household exists for the given id", nil)
		return "", false
	}
	return id, true
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			s.Metrics.IncRejected(codeBodyTooLarge)
			writeError(w, r, http.StatusRequestEntityTooLarge, codeBodyTooLarge, "request body too large", map[string]any{"limitBytes": maxBodyBytes})
			return nil, false
		}
		s.Metrics.IncRejected(households.CodeValidation)
		writeError(w, r, http.StatusBadRequest, households.CodeValidation, "invalid household payload", nil)
		return nil, false
	}
	return body, true
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if ae := (*households.Error)(nil); errors.As(err, &ae) {
		s.Metrics.IncRejected(ae.Code)
		attrs := []any{"code", ae.Code}
		if ae.Err != nil {
			attrs = append(attrs, "reason", ae.Err.Error())
		}
		s.Logger.DebugContext(r.Context(), "request rejected", attrs...)
		writeError(w, r, ae.Status, ae.Code, ae.Message, ae.Details)
		return
	}
	s.internalError(w, r, err)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.Logger.ErrorContext(r.Context(), "request failed", "err", err)
	writeError(w, r, http.StatusInternalServerError, codeInternal, "internal error", nil)
}

// hashBody fingerprints a request body for idempotency. Insignificant JSON whitespace is
// ignored so a client re-serializing the same document still matches.
func hashBody(body []byte) string {
	var buf bytes.Buffer
	src := body
	if err := json.Compact(&buf, body); err == nil {
		src = buf.Bytes()
	}
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}
