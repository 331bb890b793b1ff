package floorplan

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/appetiteclub/floorplan/pkg"
	"github.com/appetiteclub/floorplan/services/floorplan/internal/booking"
	"github.com/appetiteclub/floorplan/services/floorplan/internal/plan"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const MaxBodyBytes = 1 << 20

const (
	HeaderLineUserID  = "X-Line-User-ID"
	HeaderDisplayName = "X-Display-Name"

	defaultPlanAlias = "default"
	defaultActor     = "editor"
)

type Handler struct {
	logger        apt.Logger
	config        *apt.Config
	tlm           *telemetry.HTTP
	repo          PlanRepo
	registry      *Registry
	publisher     events.Publisher
	defaultPlanID uuid.UUID
}

type HandlerDeps struct {
	Repo      PlanRepo
	Registry  *Registry
	Publisher events.Publisher
}

func NewHandler(hd HandlerDeps, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}

	registry := hd.Registry
	if registry == nil {
		registry = NewRegistry(hd.Repo, nil, "", logger)
	}

	var defaultID uuid.UUID
	if config != nil {
		if raw, _ := config.GetString("plan.default.id"); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				defaultID = id
			} else {
				logger.Error("invalid plan.default.id", "value", raw, "error", err)
			}
		}
	}

	return &Handler{
		logger:        logger,
		config:        config,
		tlm:           telemetry.NewHTTP(),
		repo:          hd.Repo,
		registry:      registry,
		publisher:     hd.Publisher,
		defaultPlanID: defaultID,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/plans", func(r chi.Router) {
		r.Get("/", h.ListPlans)
		r.Get("/{id}", h.GetPlan)

		r.Post("/{id}/edit", h.EnterEdit)
		r.Post("/{id}/cancel", h.CancelEdit)
		r.Post("/{id}/save", h.SavePlan)
		r.Put("/{id}/tool", h.SetTool)
		r.Post("/{id}/pointer", h.RelayPointer)
		r.Post("/{id}/join", h.JoinTables)

		r.Patch("/{id}/nodes/{nodeID}", h.UpdateNode)
		r.Delete("/{id}/nodes/{nodeID}", h.DeleteNode)
		r.Post("/{id}/tables/{nodeID}/ungroup", h.UngroupTable)

		r.Get("/{id}/desk", h.GetDesk)
		r.Post("/{id}/bookings", h.CreateBooking)
	})
}

// Plan state

func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListPlans")
	defer finish()

	log := h.log(r)

	plans, err := h.repo.List(r.Context())
	if err != nil {
		log.Error("error retrieving plans", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve plans")
		return
	}

	summaries := make([]PlanSummary, 0, len(plans))
	for _, p := range plans {
		summaries = append(summaries, summaryOf(p))
	}

	apt.RespondCollection(w, summaries, "plan")
}

func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetPlan")
	defer finish()

	log := h.log(r)

	id, ok := h.parsePlanID(w, r, log)
	if !ok {
		return
	}

	h.withEntry(w, r, log, id, func(e *Entry) {
		h.respondState(w, r, id, e)
	})
}

// Edit lifecycle

func (h *Handler) EnterEdit(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.EnterEdit")
	defer finish()

	log := h.log(r)

	id, ok := h.parsePlanID(w, r, log)
	if !ok {
		return
	}

	h.withEntry(w, r, log, id, func(e *Entry) {
		if !e.Session.EnterEdit() {
			apt.RespondError(w, http.StatusConflict, "Plan is already being edited")
			return
		}
		e.Controller.Reset()
		log.Info("plan edit started", "plan_id", id.String())
		h.respondState(w, r, id, e)
	})
}

func (h *Handler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CancelEdit")
	defer finish()

	log := h.log(r)

	id, ok := h.parsePlanID(w, r, log)
	if !ok {
		return
	}

	h.withEntry(w, r, log, id, func(e *Entry) {
		if !e.Session.Cancel() {
			apt.RespondError(w, http.StatusConflict, "Plan is not being edited")
			return
		}
		e.Controller.Reset()
		log.Info("plan edit cancelled", "plan_id", id.String())
		h.respondState(w, r, id, e)
	})
}

func (h *Handler) SavePlan(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SavePlan")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parsePlanID(w, r, log)
	if !ok {
		return
	}

	h.withEntry(w, r, log, id, func(e *Entry) {
		err := e.Session.SaveWith(func(next *plan.Plan) error {
			next.UpdatedBy = actor(r)
			next.BeforeUpdate()
			return h.repo.Save(ctx, next)
		})

		switch {
		case errors.Is(err, plan.ErrNotEditing):
			apt.RespondError(w, http.StatusConflict, "Plan is not being edited")
			return
		case errors.Is(err, plan.ErrNothingToSave):
			apt.RespondError(w, http.StatusConflict, "No changes to save")
			return
		case err != nil:
			log.Error("cannot save plan", "error", err, "plan_id", id.String())
			apt.RespondError(w, http.StatusInternalServerError, "Could not save plan")
			return
		}

		e.Controller.Reset()
		saved := e.Session.Saved()
		e.Desk.Reload(saved)
		h.publishPlanSaved(ctx, saved)

		log.Info("plan saved", "plan_id", id.String(), "tables", len(saved.Tables), "objects", len(saved.Objects))
		h.respondState(w, r, id, e)
	})
}

// Tools and pointer relay

func (h *Handler) SetTool(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SetTool")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parsePlanID(w, r, log)
	if !ok {
		return
	}

	req, ok := h.decodeToolPayload(w, r, log)
	if !ok {
		return
	}

	if validationErrors := ValidateTool(ctx, req); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	h.withEntry(w, r, log, id, func(e *Entry) {
		if !e.Session.Editing() {
			apt.RespondError(w, http.StatusConflict, "Plan is not being edited")
			return
		}

		switch strings.ToLower(strings.TrimSpace(req.Tool)) {
		case ToolTable:
			zone, ok := plan.ParseZone(req.Zone)
			if !ok {
				zone = plan.ZoneA
			}
			size, ok := plan.ParseSize(req.Size)
			if !ok {
				size = plan.SizeMedium
			}
			e.Session.StartPlacing(plan.TablePlacement{Zone: zone, Size: size})
		case ToolObject:
			typ, ok := plan.ParseObjectType(req.Type)
			if !ok {
				typ = plan.ObjectStage
			}
			e.Session.StartPlacing(plan.ObjectPlacement{Type: typ})
		case ToolJoin:
			e.Session.StartJoining()
		default:
			e.Session.ClearTool()
		}

		h.respondState(w, r, id, e)
	})
}

func (h *Handler) RelayPointer(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RelayPointer")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parsePlanID(w, r, log)
	if !ok {
		return
	}

	req, ok := h.decodePointerPayload(w, r, log)
	if !ok {
		return
	}

	if validationErrors := ValidatePointer(ctx, req); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	h.withEntry(w, r, log, id, func(e *Entry) {
		c := e.Controller
		p := req.Pointer()
		rect := req.Container.Rect()

		var handled bool
		var placed *plan.NodeRef

		switch req.Type {
		case PointerDown:
			handled = c.PointerDown(*req.Target, p, rect)
		case PointerMove:
			handled = c.PointerMove(p, rect)
		case PointerUp:
			handled = c.Dragging()
			c.PointerUp()
		case PointerCancel:
			handled = c.Dragging()
			c.PointerCancel()
		case PointerClick:
			if req.Target != nil {
				handled = c.ClickNode(*req.Target)
				break
			}
			if n, ok := c.ClickCanvas(p, rect); ok {
				ref := plan.RefOf(n)
				placed = &ref
				handled = true
			}
		}

		state := h.state(r, id, e)
		apt.RespondSuccess(w, PointerResult{Handled: handled, Placed: placed, Plan: state})
	})
}

// Node editing

func (h *Handler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateNode")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parsePlanID(w, r, log)
	if !ok {
		return
	}

	nodeID, ok := h.parseNodeIDParam(w, r, log)
	if !ok {
		return
	}

	req, ok := h.decodeNodeUpdatePayload(w, r, log)
	if !ok {
		return
	}

	if validationErrors := ValidateNodeUpdate(ctx, nodeID, req); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	h.withEntry(w, r, log, id, func(e *Entry) {
		if !e.Session.Editing() {
			apt.RespondError(w, http.StatusConflict, "Plan is not being edited")
			return
		}

		n, ok := e.Session.Store().Node(nodeID)
		if !ok {
			apt.RespondError(w, http.StatusNotFound, "Node not found")
			return
		}

		var patch plan.Patch = req.TablePatch()
		if n.Kind() == plan.KindObject {
			patch = req.ObjectPatch()
		}
		e.Session.Update(nodeID, patch)
		e.Session.Select(plan.RefOf(n))

		h.respondState(w, r, id, e)
	})
}

func (h *Handler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteNode")
	defer finish()

	log := h.log(r)

	id, ok := h.parsePlanID(w, r, log)
	if !ok {
		return
	}

	nodeID, ok := h.parseNodeIDParam(w, r, log)
	if !ok {
		return
	}

	confirm, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	h.withEntry(w, r, log, id, func(e *Entry) {
		if !e.Session.Editing() {
			apt.RespondError(w, http.StatusConflict, "Plan is not being edited")
			return
		}
		if _, ok := e.Session.Store().Node(nodeID); !ok {
			apt.RespondError(w, http.StatusNotFound, "Node not found")
			return
		}
		if !e.Session.RequestRemove(nodeID, plan.StaticConfirmer(confirm)) {
			apt.RespondError(w, http.StatusConflict, "Removal not confirmed")
			return
		}

		h.respondState(w, r, id, e)
	})
}

func (h *Handler) JoinTables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.JoinTables")
	defer finish()

	log := h.log(r)

	id, ok := h.parsePlanID(w, r, log)
	if !ok {
		return
	}

	req, ok := h.decodeJoinPayload(w, r, log)
	if !ok {
		return
	}

	h.withEntry(w, r, log, id, func(e *Entry) {
		if !e.Session.Editing() {
			apt.RespondError(w, http.StatusConflict, "Plan is not being edited")
			return
		}

		groupID, ok := e.Session.Join(req.IDs)
		if !ok {
			apt.RespondError(w, http.StatusBadRequest, "Join needs at least two tables")
			return
		}

		log.Info("tables joined", "plan_id", id.String(), "group_id", groupID.String())
		h.respondState(w, r, id, e)
	})
}

func (h *Handler) UngroupTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UngroupTable")
	defer finish()

	log := h.log(r)

	id, ok := h.parsePlanID(w, r, log)
	if !ok {
		return
	}

	nodeID, ok := h.parseNodeIDParam(w, r, log)
	if !ok {
		return
	}

	h.withEntry(w, r, log, id, func(e *Entry) {
		if !e.Session.Editing() {
			apt.RespondError(w, http.StatusConflict, "Plan is not being edited")
			return
		}
		if _, ok := e.Session.Store().Table(nodeID); !ok {
			apt.RespondError(w, http.StatusNotFound, "Table not found")
			return
		}
		if !e.Session.Ungroup(nodeID) {
			apt.RespondError(w, http.StatusConflict, "Table is not grouped")
			return
		}

		h.respondState(w, r, id, e)
	})
}

// Customer booking

func (h *Handler) GetDesk(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetDesk")
	defer finish()

	log := h.log(r)

	id, ok := h.parsePlanID(w, r, log)
	if !ok {
		return
	}

	h.withEntry(w, r, log, id, func(e *Entry) {
		e.Desk.SetFilter(filterFrom(r))
		apt.RespondSuccess(w, DeskState{
			PlanID:        id,
			Filter:        filterStateOf(e.Desk.Filter()),
			View:          viewOf(e.Desk.View()),
			Notifications: e.DeskNotes.Drain(),
		})
	})
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateBooking")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parsePlanID(w, r, log)
	if !ok {
		return
	}

	req, ok := h.decodeBookingPayload(w, r, log)
	if !ok {
		return
	}

	if validationErrors := ValidateBooking(ctx, req); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	profile := profileFrom(r)

	h.withEntry(w, r, log, id, func(e *Entry) {
		if err := e.Desk.Select(req.TableID); err != nil {
			switch {
			case errors.Is(err, booking.ErrTableNotFound):
				apt.RespondError(w, http.StatusNotFound, "Table not found")
			default:
				apt.RespondError(w, http.StatusConflict, "Table is not available")
			}
			return
		}

		result, err := e.Desk.Submit(ctx, profile, booking.Form{
			Name:     req.Name,
			Phone:    req.Phone,
			Time:     req.Time,
			Note:     req.Note,
			Province: req.Province,
		})

		switch {
		case errors.Is(err, booking.ErrProfileMissing):
			e.Desk.ClearSelection()
			h.respondBookingFailure(w, http.StatusUnauthorized, "Profile not found", id, req, e)
			return
		case errors.Is(err, booking.ErrIncompleteForm):
			e.Desk.ClearSelection()
			h.respondBookingFailure(w, http.StatusBadRequest, booking.MsgIncomplete, id, req, e)
			return
		case err != nil:
			e.Desk.ClearSelection()
			log.Error("booking submission failed", "error", err, "plan_id", id.String(), "table_id", req.TableID.String())
			h.publishBookingFailed(ctx, id, req, profile, err)
			h.respondBookingFailure(w, http.StatusBadGateway, "Booking could not be submitted", id, req, e)
			return
		}

		h.publishBookingConfirmed(ctx, result)
		log.Info("booking confirmed", "plan_id", id.String(), "table", result.TableLabel)

		w.WriteHeader(http.StatusCreated)
		apt.RespondSuccess(w, BookingResult{
			PlanID:        id,
			TableID:       result.TableID,
			TableLabel:    result.TableLabel,
			Name:          result.Name,
			Time:          result.Time,
			Status:        plan.StatusReserved,
			Notifications: e.DeskNotes.Drain(),
		})
	})
}

// respondBookingFailure answers a rejected submission with the desk's
// notifications so the booker sees them.
func (h *Handler) respondBookingFailure(w http.ResponseWriter, code int, message string, id uuid.UUID, req BookingRequest, e *Entry) {
	apt.Respond(w, code, BookingFailure{
		PlanID:        id,
		TableID:       req.TableID,
		Error:         message,
		Notifications: e.DeskNotes.Drain(),
	}, nil)
}

// Helpers

func (h *Handler) withEntry(w http.ResponseWriter, r *http.Request, log apt.Logger, id uuid.UUID, fn func(e *Entry)) {
	err := h.registry.With(r.Context(), id, func(e *Entry) error {
		fn(e)
		return nil
	})
	if err == nil {
		return
	}

	if errors.Is(err, ErrPlanNotFound) {
		apt.RespondError(w, http.StatusNotFound, "Plan not found")
		return
	}
	log.Error("error loading plan", "error", err, "plan_id", id.String())
	apt.RespondError(w, http.StatusInternalServerError, "Could not load plan")
}

func (h *Handler) respondState(w http.ResponseWriter, r *http.Request, id uuid.UUID, e *Entry) {
	apt.RespondSuccess(w, h.state(r, id, e), planLinks(id, e.Session.Editing())...)
}

// planLinks lists the routes the editor can follow from the current state.
func planLinks(id uuid.UUID, editing bool) []apt.Link {
	item := "/plans/" + id.String()
	links := []apt.Link{
		{Rel: apt.RelSelf, Href: item},
		{Rel: apt.RelCollection, Href: "/plans"},
	}
	if editing {
		links = append(links,
			apt.Link{Rel: "save", Href: item + "/save"},
			apt.Link{Rel: "cancel", Href: item + "/cancel"},
		)
	} else {
		links = append(links, apt.Link{Rel: apt.RelEdit, Href: item + "/edit"})
	}
	return append(links, apt.Link{Rel: "desk", Href: item + "/desk"})
}

func (h *Handler) state(r *http.Request, id uuid.UUID, e *Entry) PlanState {
	s := e.Session
	draft := s.Draft()
	mode := s.Mode()
	f := filterFrom(r)

	state := PlanState{
		ID:            id,
		Name:          draft.Name,
		Mode:          mode.Kind().String(),
		Editing:       s.Editing(),
		Dirty:         s.Dirty(),
		CanSave:       s.CanSave(),
		JoinSelection: mode.JoinSelection(),
		Filter:        filterStateOf(f),
		View:          viewOf(f.Apply(draft)),
		UpdatedAt:     draft.UpdatedAt,
		Notifications: e.Notes.Drain(),
	}

	if p, ok := mode.Placement(); ok {
		state.Tool = toolStateOf(p)
	} else if mode.Kind() == plan.ModeJoining {
		state.Tool = &ToolState{Tool: ToolJoin}
	}
	if n, ok := s.Selected(); ok {
		ref := plan.RefOf(n)
		state.Selected = &ref
	}
	if ref, ok := e.Controller.DragTarget(); ok {
		state.Dragging = &ref
	}

	return state
}

func (h *Handler) parsePlanID(w http.ResponseWriter, r *http.Request, log apt.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		log.Debug("missing id parameter")
		apt.RespondError(w, http.StatusBadRequest, "Missing id parameter")
		return uuid.Nil, false
	}

	if idStr == defaultPlanAlias && h.defaultPlanID != uuid.Nil {
		return h.defaultPlanID, true
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid id parameter", "id", idStr)
		apt.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) parseNodeIDParam(w http.ResponseWriter, r *http.Request, log apt.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "nodeID")
	if idStr == "" {
		log.Debug("missing node id parameter")
		apt.RespondError(w, http.StatusBadRequest, "Missing nodeID parameter")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid node id parameter", "nodeID", idStr)
		apt.RespondError(w, http.StatusBadRequest, "Invalid nodeID parameter")
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) decodeToolPayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (ToolRequest, bool) {
	var req ToolRequest
	return req, h.decodePayload(w, r, log, &req)
}

func (h *Handler) decodePointerPayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (PointerRequest, bool) {
	var req PointerRequest
	return req, h.decodePayload(w, r, log, &req)
}

func (h *Handler) decodeNodeUpdatePayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (NodeUpdateRequest, bool) {
	var req NodeUpdateRequest
	return req, h.decodePayload(w, r, log, &req)
}

func (h *Handler) decodeBookingPayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (BookingRequest, bool) {
	var req BookingRequest
	return req, h.decodePayload(w, r, log, &req)
}

// decodeJoinPayload accepts an empty body, meaning "join the current
// selection".
func (h *Handler) decodeJoinPayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (JoinRequest, bool) {
	var req JoinRequest
	if r.Body == nil || r.ContentLength == 0 {
		return req, true
	}
	return req, h.decodePayload(w, r, log, &req)
}

func (h *Handler) decodePayload(w http.ResponseWriter, r *http.Request, log apt.Logger, target interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return false
	}

	if err := json.Unmarshal(body, target); err != nil {
		log.Debug("failed to decode request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return false
	}

	return true
}

func (h *Handler) publishPlanSaved(ctx context.Context, p *plan.Plan) {
	if h.publisher == nil {
		return
	}
	event := pkg.PlanSavedEvent{
		EventType:  pkg.EventPlanSaved,
		PlanID:     p.ID.String(),
		Name:       p.Name,
		Tables:     len(p.Tables),
		Objects:    len(p.Objects),
		UpdatedBy:  p.UpdatedBy,
		Source:     h.registry.Source(),
		OccurredAt: time.Now().UTC(),
	}
	h.publish(ctx, pkg.FloorplanSavedTopic, event, "plan_id", event.PlanID)
}

func (h *Handler) publishBookingConfirmed(ctx context.Context, req *booking.Request) {
	if h.publisher == nil || req == nil {
		return
	}
	event := pkg.BookingEvent{
		EventType:  pkg.EventBookingConfirmed,
		PlanID:     req.PlanID.String(),
		TableID:    req.TableID.String(),
		TableLabel: req.TableLabel,
		UserID:     req.Profile.UserID,
		Name:       req.Name,
		Time:       req.Time,
		Source:     h.registry.Source(),
		OccurredAt: time.Now().UTC(),
	}
	h.publish(ctx, pkg.FloorplanBookingTopic, event, "table_id", event.TableID)
}

func (h *Handler) publishBookingFailed(ctx context.Context, planID uuid.UUID, req BookingRequest, profile *booking.Profile, cause error) {
	if h.publisher == nil {
		return
	}
	event := pkg.BookingEvent{
		EventType:  pkg.EventBookingFailed,
		PlanID:     planID.String(),
		TableID:    req.TableID.String(),
		Name:       req.Name,
		Time:       req.Time,
		Reason:     cause.Error(),
		Source:     h.registry.Source(),
		OccurredAt: time.Now().UTC(),
	}
	if profile != nil {
		event.UserID = profile.UserID
	}
	h.publish(ctx, pkg.FloorplanBookingTopic, event, "table_id", event.TableID)
}

func (h *Handler) publish(ctx context.Context, topic string, event interface{}, kv ...interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error(append([]interface{}{"cannot marshal event", "error", err, "topic", topic}, kv...)...)
		return
	}
	if err := h.publisher.Publish(ctx, topic, payload); err != nil {
		h.logger.Error(append([]interface{}{"cannot publish event", "error", err, "topic", topic}, kv...)...)
	}
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}

func filterFrom(r *http.Request) plan.Filter {
	q := r.URL.Query()
	available, _ := strconv.ParseBool(q.Get("available"))
	return plan.ParseFilter(q.Get("zone"), available)
}

func profileFrom(r *http.Request) *booking.Profile {
	userID := strings.TrimSpace(r.Header.Get(HeaderLineUserID))
	if userID == "" {
		return nil
	}
	return &booking.Profile{
		UserID:      userID,
		DisplayName: strings.TrimSpace(r.Header.Get(HeaderDisplayName)),
	}
}

func actor(r *http.Request) string {
	if name := strings.TrimSpace(r.Header.Get(HeaderDisplayName)); name != "" {
		return name
	}
	return defaultActor
}
