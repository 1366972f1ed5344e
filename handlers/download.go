package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"solo_legend/story"
)

// DownloadChronicle sends the adventure log of a save as a PDF.
func (h *Handler) DownloadChronicle(w http.ResponseWriter, r *http.Request) {
	save, err := h.manager.Save(r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	doc, err := Chronicle(save)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", chronicleName(save)))
	if _, err := w.Write(doc); err != nil {
		h.logger.Debug("Chronicle write failed", zap.Error(err))
	}
}

// Chronicle renders the hero sheet and the full message log of a save.
func Chronicle(save story.GameSave) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	c := save.Character

	pdf.SetTitle(tr(c.Name+" in "+save.World.Name), false)
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()

	pdf.SetFont("Times", "B", 22)
	pdf.CellFormat(0, 12, tr(save.World.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Times", "I", 12)
	pdf.CellFormat(0, 8, tr(save.World.Theme), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("%s, level %d %s %s", c.Name, c.Level, c.Race, c.Class)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("HP %d/%d  Mana %.0f/%.0f  XP %d  Mana-coins %d",
		c.HP, c.MaxHP, c.Mana, c.MaxMana, c.XP, c.ManaCoins)), "", 1, "L", false, 0, "")
	if len(c.Skills) > 0 {
		names := make([]string, len(c.Skills))
		for i, s := range c.Skills {
			names[i] = s.Name
		}
		pdf.MultiCell(0, 6, tr("Skills: "+strings.Join(names, ", ")), "", "L", false)
	}
	if c.Backstory != "" {
		pdf.MultiCell(0, 6, tr(c.Backstory), "", "L", false)
	}
	pdf.Ln(6)

	for _, m := range save.Messages {
		switch m.Sender {
		case story.SenderUser:
			pdf.SetFont("Helvetica", "B", 11)
			pdf.MultiCell(0, 6, tr("> "+m.Content), "", "L", false)
		case story.SenderSystem:
			pdf.SetFont("Helvetica", "I", 10)
			pdf.MultiCell(0, 6, tr(m.Content), "", "C", false)
		default:
			pdf.SetFont("Times", "", 12)
			pdf.MultiCell(0, 6, tr(m.Content), "", "J", false)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render chronicle: %w", err)
	}
	return buf.Bytes(), nil
}

func chronicleName(save story.GameSave) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '_'
		}
		return -1
	}, save.Character.Name)
	if name == "" {
		name = "hero"
	}
	day := time.UnixMilli(save.LastPlayed).UTC().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.pdf", name, day)
}
