package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"solo_legend/narrator"
	"solo_legend/story"
	"solo_legend/templates"
)

// Hub lists saves and worlds.
func (h *Handler) Hub(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, "Solo Legend", templates.Hub(h.manager.Saves(), story.PresetWorlds()))
}

// Creator shows the character creator for a preset world.
func (h *Handler) Creator(w http.ResponseWriter, r *http.Request) {
	world, ok := story.PresetWorld(r.URL.Query().Get("world"), h.clock.Now())
	if !ok {
		http.Error(w, "Unknown world", http.StatusNotFound)
		return
	}
	form := templates.CreatorForm{World: world, Draft: story.CharacterDraft{Class: story.ClassWarrior, Attributes: story.DefaultAttributes()}}
	h.page(w, r, world.Name, templates.Creator(form))
}

// CustomWorld creates a world from the hub form and shows the creator for it.
func (h *Handler) CustomWorld(w http.ResponseWriter, r *http.Request) {
	world, err := story.NewCustomWorld(r.FormValue("name"), r.FormValue("theme"), r.FormValue("description"), h.clock.Now())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	form := templates.CreatorForm{World: world, Draft: story.CharacterDraft{Class: story.ClassWarrior, Attributes: story.DefaultAttributes()}}
	h.page(w, r, world.Name, templates.Creator(form))
}

// Portrait paints a preview of the hero being created.
func (h *Handler) Portrait(w http.ResponseWriter, r *http.Request) {
	draft := draftFromForm(r)
	img := h.painter.GenerateImage(r.Context(), narrator.PortraitPrompt(draft))
	h.component(w, r, templates.Portrait(img))
}

// CreateAdventure validates the hero, starts the adventure and redirects to it.
func (h *Handler) CreateAdventure(w http.ResponseWriter, r *http.Request) {
	world, err := h.worldFromForm(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	draft := draftFromForm(r)

	c, err := story.NewCharacter(draft)
	if err != nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		form := templates.CreatorForm{World: world, Draft: draft, Error: err.Error()}
		h.page(w, r, world.Name, templates.Creator(form))
		return
	}

	save, err := h.manager.NewAdventure(r.Context(), c, world)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("Adventure created", zap.String("save", save.ID), zap.String("world", world.ID))
	http.Redirect(w, r, "/play/"+save.ID, http.StatusSeeOther)
}

// DeleteSave removes a save and returns to the hub.
func (h *Handler) DeleteSave(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// worldFromForm resolves the world carried by the creator form. Custom worlds travel in hidden
// fields since they are only stored with their first save.
func (h *Handler) worldFromForm(r *http.Request) (story.World, error) {
	now := h.clock.Now()
	if w, ok := story.PresetWorld(r.FormValue("world_id"), now); ok {
		return w, nil
	}
	w, err := story.NewCustomWorld(r.FormValue("world_name"), r.FormValue("world_theme"), r.FormValue("world_description"), now)
	if err != nil {
		return story.World{}, err
	}
	if id := r.FormValue("world_id"); strings.HasPrefix(id, "custom-") {
		w.ID = id
	}
	return w, nil
}

func draftFromForm(r *http.Request) story.CharacterDraft {
	return story.CharacterDraft{
		Name:                r.FormValue("name"),
		Race:                r.FormValue("race"),
		Gender:              r.FormValue("gender"),
		Appearance:          r.FormValue("appearance"),
		Backstory:           r.FormValue("backstory"),
		BlessingName:        r.FormValue("blessing_name"),
		BlessingDescription: r.FormValue("blessing_description"),
		PortraitURL:         portraitURL(r.FormValue("portrait_url")),
		Class:               story.CharacterClass(r.FormValue("class")),
		Attributes: story.Attributes{
			Strength:     intField(r, "strength"),
			Dexterity:    intField(r, "dexterity"),
			Intelligence: intField(r, "intelligence"),
			Wisdom:       intField(r, "wisdom"),
		},
	}
}

// portraitURL accepts only generated image data.
func portraitURL(v string) string {
	if strings.HasPrefix(v, "data:image/") {
		return v
	}
	return ""
}

func intField(r *http.Request, name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.FormValue(name)))
	if err != nil {
		return story.BaseAttribute
	}
	return v
}
