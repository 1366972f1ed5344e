package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"solo_legend/session"
	"solo_legend/templates"
)

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.manager.Session(r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return s, true
}

func view(s *session.Session) templates.PlayView {
	v := templates.PlayView{
		Save:        s.Save(),
		Suggestions: s.Suggestions(),
		Muted:       s.Muted(),
		Busy:        s.Busy(),
		Dice:        session.DieSides,
	}
	if offer, ok := s.PendingOffer(); ok {
		v.Offer = &offer
	}
	return v
}

// Play renders the game page.
func (h *Handler) Play(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	v := view(s)
	h.page(w, r, v.Save.Character.Name+" · "+v.Save.World.Name, templates.Play(v))
}

// Panel renders the swappable part of the game page.
func (h *Handler) Panel(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.component(w, r, templates.Game(view(s)))
}

// respond renders the panel for htmx requests and redirects plain form posts.
// Rejections are shown inside the panel so htmx still swaps them in.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, s *session.Session, err error) {
	if !isHTMX(r) {
		if err != nil {
			h.fail(w, r, err)
			return
		}
		http.Redirect(w, r, "/play/"+s.ID(), http.StatusSeeOther)
		return
	}
	v := view(s)
	if err != nil {
		h.logger.Debug("Play request rejected", zap.String("path", r.URL.Path), zap.Error(err))
		v.Error = message(err)
	}
	h.component(w, r, templates.Game(v))
}

// Action submits a typed or suggested action.
func (h *Handler) Action(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	_, err := s.SubmitAction(r.Context(), r.FormValue("action"), nil)
	h.respond(w, r, s, err)
}

// Roll rolls a die server-side and submits it as an action.
func (h *Handler) Roll(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	sides, _ := strconv.Atoi(r.FormValue("sides"))
	_, err := s.RollDie(r.Context(), sides)
	h.respond(w, r, s, err)
}

// Mute toggles narration.
func (h *Handler) Mute(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.ToggleMute()
	h.respond(w, r, s, nil)
}

// Forge asks the narrator to judge a skill concept.
func (h *Handler) Forge(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	_, err := s.ProposeForge(r.Context(), r.FormValue("concept"))
	h.respond(w, r, s, err)
}

// ConfirmForge buys the pending skill.
func (h *Handler) ConfirmForge(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	_, err := s.ConfirmForge(r.Context())
	h.respond(w, r, s, err)
}

// DiscardForge drops the pending skill offer.
func (h *Handler) DiscardForge(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.DiscardForge()
	h.respond(w, r, s, nil)
}

// Audio serves a narration clip as WAV.
func (h *Handler) Audio(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	clip, found := s.Clip(r.PathValue("msg"))
	if !found {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := w.Write(clip.WAV()); err != nil {
		h.logger.Debug("Audio write failed", zap.Error(err))
	}
}
