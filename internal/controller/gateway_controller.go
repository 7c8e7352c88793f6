// internal/controller/gateway_controller.go
package controller

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/leadflow/sequencer-backend/internal/channel"
	appErrors "github.com/leadflow/sequencer-backend/internal/errors"
	"github.com/leadflow/sequencer-backend/internal/model"
	"github.com/leadflow/sequencer-backend/internal/repository"
	"github.com/leadflow/sequencer-backend/internal/service"
)

type GatewayController struct {
	Processor  *service.Processor
	Dispatcher *service.Dispatcher
	Channel    channel.Channel
	Leads      repository.LeadRepositoryInterface
	Jobs       repository.SequenceJobRepositoryInterface
}

// ProcessSequences triggers one tick on demand, mainly for ops and tests.
func (c *GatewayController) ProcessSequences(w http.ResponseWriter, r *http.Request) {
	batchSize := 0
	if v := r.URL.Query().Get("batch_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "invalid batch_size", http.StatusBadRequest)
			return
		}
		batchSize = n
	}

	processor := *c.Processor
	if batchSize > 0 {
		processor.BatchSize = batchSize
	}
	processed := processor.ProcessSequences(r.Context())

	json.NewEncoder(w).Encode(map[string]interface{}{
		"processed": processed,
	})
}

func (c *GatewayController) SequenceStats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Jobs.StatsByStatus()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(stats)
}

func (c *GatewayController) ChannelStatus(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(c.Channel.Status())
}

func (c *GatewayController) GetLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	lead, err := c.Leads.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if lead == nil {
		http.Error(w, appErrors.NewLeadNotFound(id).Error(), http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(lead)
}

// MergeLead set-merges fields into the lead document.
func (c *GatewayController) MergeLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := c.Leads.Merge(r.Context(), id, body.Fields); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"id": id, "merged": len(body.Fields)})
}

// SendToLead dispatches a single typed message outside any sequence.
func (c *GatewayController) SendToLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		Type    string `json:"type"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	lead, err := c.Leads.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if lead == nil {
		http.Error(w, appErrors.NewLeadNotFound(id).Error(), http.StatusNotFound)
		return
	}

	res := c.Dispatcher.DispatchRaw(r.Context(), lead, body.Type, body.Content)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"lead_id": id,
		"outcome": res.Outcome.String(),
		"reason":  res.Reason,
	})
}

// CreateJob enqueues a sequence step by hand; the scheduler picks it up once
// send_at arrives.
func (c *GatewayController) CreateJob(w http.ResponseWriter, r *http.Request) {
	var job model.SequenceJob
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if job.LeadID == "" {
		http.Error(w, "lead_id is required", http.StatusBadRequest)
		return
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.SendAt.IsZero() {
		job.SendAt = time.Now()
	}

	if err := c.Jobs.Create(&job); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(job)
}
